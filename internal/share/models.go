package share

import "github.com/shunto-ishiguro/trip-plan-app/internal/authz"

const (
	PermissionView = "view"
	PermissionEdit = "edit"
)

// Setting is the single share link a trip may have. The token is fixed at
// creation; only permission and is_active can change afterwards.
type Setting struct {
	ID         string  `json:"id"`
	TripID     string  `json:"trip_id"`
	ShareURL   *string `json:"share_url"`
	Permission string  `json:"permission"`
	ShareToken string  `json:"share_token"`
	IsActive   bool    `json:"is_active"`
	CreatedBy  string  `json:"created_by"`
}

type CreateRequest struct {
	Permission string `json:"permission"`
}

type UpdateRequest struct {
	Permission *string `json:"permission"`
	IsActive   *bool   `json:"is_active"`
}

// Preview is the trip summary shown before joining via a share token.
type Preview struct {
	TripID      string `json:"trip_id"`
	Title       string `json:"title"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Permission  string `json:"permission"`
}

type JoinResult struct {
	TripID        string     `json:"trip_id"`
	Role          authz.Role `json:"role,omitempty"`
	AlreadyMember bool       `json:"-"`
}

func ValidPermission(p string) bool {
	return p == PermissionView || p == PermissionEdit
}

// RoleForPermission maps a share permission to the membership role a
// joining user receives.
func RoleForPermission(p string) authz.Role {
	if p == PermissionEdit {
		return authz.RoleEditor
	}
	return authz.RoleViewer
}
