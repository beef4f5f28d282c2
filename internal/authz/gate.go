package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shunto-ishiguro/trip-plan-app/internal/db"
)

// Decision is the outcome of an authorization check. Role is only set
// when Authorized is true.
type Decision struct {
	Authorized bool
	Role       Role
}

// Gate answers "may this user act on this trip at this level" from the
// trip_members table. It performs a single read and holds no state.
type Gate struct {
	db db.Querier
}

func NewGate(db db.Querier) *Gate {
	return &Gate{db: db}
}

func (g *Gate) Authorize(ctx context.Context, userID, tripID string, minRole Role) (Decision, error) {
	var role string
	err := g.db.QueryRow(ctx, `
		SELECT role FROM trip_members
		WHERE trip_id = $1 AND user_id = $2
	`, tripID, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return Decision{}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	if !Role(role).AtLeast(minRole) {
		return Decision{}, nil
	}
	return Decision{Authorized: true, Role: Role(role)}, nil
}
