package trip

import (
	"time"

	"github.com/shunto-ishiguro/trip-plan-app/internal/authz"
)

type Trip struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	MemberCount int       `json:"member_count"`
	Memo        *string   `json:"memo"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TripWithRole is a trip row joined with the caller's membership role,
// used by the trip listing.
type TripWithRole struct {
	Trip
	Role authz.Role `json:"role"`
}

type Member struct {
	ID       string     `json:"id"`
	TripID   string     `json:"trip_id"`
	UserID   string     `json:"user_id"`
	Role     authz.Role `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

type CreateRequest struct {
	Title       string  `json:"title"`
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	MemberCount int     `json:"member_count"`
	Memo        *string `json:"memo"`
}

type UpdateRequest struct {
	Title       *string `json:"title"`
	Destination *string `json:"destination"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	MemberCount *int    `json:"member_count"`
	Memo        *string `json:"memo"`
}
