package authz

import "github.com/gofiber/fiber/v2"

// RequireRole guards a trip-scoped route. It expects the JWT middleware to
// have stored user_id in locals and the route to carry a :tripId param.
// On success the member's actual role is stored under trip_role.
func RequireRole(gate *Gate, min Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		tripID := c.Params("tripId")
		if userID == "" || tripID == "" {
			return fiber.NewError(fiber.StatusForbidden, "access denied")
		}

		decision, err := gate.Authorize(c.Context(), userID, tripID, min)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if !decision.Authorized {
			return fiber.NewError(fiber.StatusForbidden, "access denied")
		}

		c.Locals("trip_role", decision.Role)
		return c.Next()
	}
}
