package authz

// Role is a trip membership level. Roles are totally ordered:
// owner > editor > viewer.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

var roleRanks = map[Role]int{
	RoleOwner:  3,
	RoleEditor: 2,
	RoleViewer: 1,
}

// Rank returns the role's position in the hierarchy; unknown roles rank 0.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}
