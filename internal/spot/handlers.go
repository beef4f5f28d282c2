package spot

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shunto-ishiguro/trip-plan-app/internal/authz"
)

func RegisterRoutes(r fiber.Router, svc *Service, gate *authz.Gate, authMiddleware fiber.Handler) {
	viewer := authz.RequireRole(gate, authz.RoleViewer)
	editor := authz.RequireRole(gate, authz.RoleEditor)

	r.Get("/", authMiddleware, viewer, func(c *fiber.Ctx) error {
		var dayIndex *int
		if raw := c.Query("dayIndex"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "dayIndex must be a number")
			}
			dayIndex = &n
		}
		spots, err := svc.List(c.Context(), c.Params("tripId"), dayIndex)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if spots == nil {
			spots = []Spot{}
		}
		return c.JSON(spots)
	})

	r.Post("/", authMiddleware, editor, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name required")
		}
		created, err := svc.Create(c.Context(), c.Params("tripId"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/:id", authMiddleware, viewer, func(c *fiber.Ctx) error {
		sp, err := svc.Get(c.Context(), c.Params("tripId"), c.Params("id"))
		if err != nil {
			return notFoundOr(err, "spot not found")
		}
		return c.JSON(sp)
	})

	r.Put("/:id", authMiddleware, editor, func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		updated, err := svc.Update(c.Context(), c.Params("tripId"), c.Params("id"), req)
		if err != nil {
			return notFoundOr(err, "spot not found")
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", authMiddleware, editor, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("tripId"), c.Params("id")); err != nil {
			return notFoundOr(err, "spot not found")
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
