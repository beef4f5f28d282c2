package budget

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shunto-ishiguro/trip-plan-app/internal/authz"
)

func RegisterRoutes(r fiber.Router, svc *Service, gate *authz.Gate, authMiddleware fiber.Handler) {
	viewer := authz.RequireRole(gate, authz.RoleViewer)
	editor := authz.RequireRole(gate, authz.RoleEditor)

	r.Get("/", authMiddleware, viewer, func(c *fiber.Ctx) error {
		items, err := svc.List(c.Context(), c.Params("tripId"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if items == nil {
			items = []Item{}
		}
		return c.JSON(items)
	})

	r.Post("/", authMiddleware, editor, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" || !ValidCategory(req.Category) || !ValidPricingType(req.PricingType) {
			return fiber.NewError(fiber.StatusBadRequest, "name, category and pricing_type required")
		}
		created, err := svc.Create(c.Context(), c.Params("tripId"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Put("/:id", authMiddleware, editor, func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Category != nil && !ValidCategory(*req.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category")
		}
		if req.PricingType != nil && !ValidPricingType(*req.PricingType) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid pricing_type")
		}
		updated, err := svc.Update(c.Context(), c.Params("tripId"), c.Params("id"), req)
		if err != nil {
			return notFoundOr(err, "budget item not found")
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", authMiddleware, editor, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("tripId"), c.Params("id")); err != nil {
			return notFoundOr(err, "budget item not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
