package share

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shunto-ishiguro/trip-plan-app/internal/authz"
)

// RegisterTripRoutes mounts the owner-gated share settings CRUD under
// /trips/:tripId/share.
func RegisterTripRoutes(r fiber.Router, svc *Service, gate *authz.Gate, authMiddleware fiber.Handler) {
	owner := authz.RequireRole(gate, authz.RoleOwner)

	r.Get("/", authMiddleware, owner, func(c *fiber.Ctx) error {
		st, err := svc.GetByTrip(c.Context(), c.Params("tripId"))
		if err != nil {
			return notFoundOr(err, "share settings not found")
		}
		return c.JSON(st)
	})

	r.Post("/", authMiddleware, owner, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Permission != "" && !ValidPermission(req.Permission) {
			return fiber.NewError(fiber.StatusBadRequest, "permission must be view or edit")
		}
		userID, _ := c.Locals("user_id").(string)
		created, err := svc.Create(c.Context(), c.Params("tripId"), userID, req.Permission)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Put("/", authMiddleware, owner, func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Permission != nil && !ValidPermission(*req.Permission) {
			return fiber.NewError(fiber.StatusBadRequest, "permission must be view or edit")
		}
		updated, err := svc.Update(c.Context(), c.Params("tripId"), req)
		if err != nil {
			return notFoundOr(err, "share settings not found")
		}
		return c.JSON(updated)
	})

	r.Delete("/", authMiddleware, owner, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("tripId")); err != nil {
			return notFoundOr(err, "share settings not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// RegisterShareRoutes mounts the public preview and the authenticated
// join under /share.
func RegisterShareRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/preview/:token", func(c *fiber.Ctx) error {
		p, err := svc.Preview(c.Context(), c.Params("token"))
		if err != nil {
			return notFoundOr(err, "share link not found or inactive")
		}
		return c.JSON(p)
	})

	r.Post("/join", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Token string `json:"token"`
		}
		if err := c.BodyParser(&body); err != nil || body.Token == "" {
			return fiber.NewError(fiber.StatusBadRequest, "token required")
		}

		userID, _ := c.Locals("user_id").(string)
		result, err := svc.Join(c.Context(), body.Token, userID)
		if err != nil {
			return notFoundOr(err, "share link not found or inactive")
		}
		if result.AlreadyMember {
			return c.JSON(fiber.Map{"message": "already a member of this trip", "trip_id": result.TripID})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "joined trip successfully",
			"trip_id": result.TripID,
			"role":    result.Role,
		})
	})
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
