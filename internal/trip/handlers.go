package trip

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shunto-ishiguro/trip-plan-app/internal/authz"
)

func RegisterRoutes(r fiber.Router, svc *Service, gate *authz.Gate, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		trips, err := svc.ListForUser(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if trips == nil {
			trips = []TripWithRole{}
		}
		return c.JSON(trips)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Title == "" || req.Destination == "" || req.StartDate == "" || req.EndDate == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title, destination, start_date and end_date required")
		}
		created, err := svc.Create(c.Context(), userID(c), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/:tripId", authMiddleware, authz.RequireRole(gate, authz.RoleViewer), func(c *fiber.Ctx) error {
		t, err := svc.Get(c.Context(), c.Params("tripId"))
		if err != nil {
			return notFoundOr(err, "trip not found")
		}
		return c.JSON(t)
	})

	r.Put("/:tripId", authMiddleware, authz.RequireRole(gate, authz.RoleEditor), func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		updated, err := svc.Update(c.Context(), c.Params("tripId"), req)
		if err != nil {
			return notFoundOr(err, "trip not found")
		}
		return c.JSON(updated)
	})

	r.Delete("/:tripId", authMiddleware, authz.RequireRole(gate, authz.RoleOwner), func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("tripId")); err != nil {
			return notFoundOr(err, "trip not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:tripId/members", authMiddleware, authz.RequireRole(gate, authz.RoleViewer), func(c *fiber.Ctx) error {
		members, err := svc.Members(c.Context(), c.Params("tripId"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if members == nil {
			members = []Member{}
		}
		return c.JSON(members)
	})

	r.Put("/:tripId/members/:userId", authMiddleware, authz.RequireRole(gate, authz.RoleOwner), func(c *fiber.Ctx) error {
		if c.Params("userId") == userID(c) {
			return fiber.NewError(fiber.StatusBadRequest, "cannot change your own role")
		}
		var body struct {
			Role authz.Role `json:"role"`
		}
		if err := c.BodyParser(&body); err != nil || !body.Role.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "role must be owner, editor or viewer")
		}
		member, err := svc.UpdateMemberRole(c.Context(), c.Params("tripId"), c.Params("userId"), body.Role)
		if err != nil {
			return notFoundOr(err, "member not found")
		}
		return c.JSON(member)
	})

	r.Delete("/:tripId/members/:userId", authMiddleware, authz.RequireRole(gate, authz.RoleOwner), func(c *fiber.Ctx) error {
		if c.Params("userId") == userID(c) {
			return fiber.NewError(fiber.StatusBadRequest, "cannot remove yourself from the trip")
		}
		if err := svc.RemoveMember(c.Context(), c.Params("tripId"), c.Params("userId")); err != nil {
			return notFoundOr(err, "member not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
