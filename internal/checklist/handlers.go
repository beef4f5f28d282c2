package checklist

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
		itemType := c.Query("type")
		if itemType != "" && !ValidType(itemType) {
			return fiber.NewError(fiber.StatusBadRequest, "type must be packing or todo")
		}
		items, err := svc.List(c.Context(), c.Params("tripId"), itemType)
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
		if req.Text == "" || !ValidType(req.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "text and type required")
		}
		created, err := svc.Create(c.Context(), c.Params("tripId"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Post("/batch", authMiddleware, editor, func(c *fiber.Ctx) error {
		var body struct {
			Items []CreateRequest `json:"items"`
		}
		if err := c.BodyParser(&body); err != nil || len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "items required")
		}
		for _, it := range body.Items {
			if it.Text == "" || !ValidType(it.Type) {
				return fiber.NewError(fiber.StatusBadRequest, "every item needs text and a valid type")
			}
		}
		created, err := svc.CreateBatch(c.Context(), c.Params("tripId"), body.Items)
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
		if req.Type != nil && !ValidType(*req.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "type must be packing or todo")
		}
		updated, err := svc.Update(c.Context(), c.Params("tripId"), c.Params("id"), req)
		if err != nil {
			return notFoundOr(err, "checklist item not found")
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", authMiddleware, editor, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("tripId"), c.Params("id")); err != nil {
			return notFoundOr(err, "checklist item not found")
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
