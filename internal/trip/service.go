package trip

import (
	"context"

	"github.com/google/uuid"
	"github.com/shunto-ishiguro/trip-plan-app/internal/authz"
	"github.com/shunto-ishiguro/trip-plan-app/internal/db"
	"github.com/shunto-ishiguro/trip-plan-app/internal/stream"
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]TripWithRole, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.id, t.title, t.destination, t.start_date, t.end_date, t.member_count,
		       t.memo, t.owner_id, t.created_at, t.updated_at, m.role
		FROM trips t
		JOIN trip_members m ON m.trip_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []TripWithRole
	for rows.Next() {
		var t TripWithRole
		var role string
		if err := rows.Scan(&t.ID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate, &t.MemberCount,
			&t.Memo, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt, &role); err != nil {
			return nil, err
		}
		t.Role = authz.Role(role)
		trips = append(trips, t)
	}
	return trips, nil
}

// Create inserts the trip and its owner membership row, then broadcasts.
// Every trip has its creator as an owner member from the moment it exists.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Trip, error) {
	memberCount := req.MemberCount
	if memberCount < 1 {
		memberCount = 1
	}

	t := Trip{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MemberCount: memberCount,
		Memo:        req.Memo,
		OwnerID:     userID,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (id, title, destination, start_date, end_date, member_count, memo, owner_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at
	`, t.ID, t.Title, t.Destination, t.StartDate, t.EndDate, t.MemberCount, t.Memo, t.OwnerID)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return Trip{}, err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_members (id, trip_id, user_id, role)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), t.ID, userID, authz.RoleOwner)
	if err != nil {
		return Trip{}, err
	}

	s.broadcast(t.ID, stream.EventInsert, "trips", t)
	return t, nil
}

func (s *Service) Get(ctx context.Context, tripID string) (Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, destination, start_date, end_date, member_count, memo, owner_id, created_at, updated_at
		FROM trips WHERE id = $1
	`, tripID)
	var t Trip
	if err := row.Scan(&t.ID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate, &t.MemberCount,
		&t.Memo, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Trip{}, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, tripID string, patch UpdateRequest) (Trip, error) {
	t, err := s.Get(ctx, tripID)
	if err != nil {
		return Trip{}, err
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Destination != nil {
		t.Destination = *patch.Destination
	}
	if patch.StartDate != nil {
		t.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		t.EndDate = *patch.EndDate
	}
	if patch.MemberCount != nil && *patch.MemberCount >= 1 {
		t.MemberCount = *patch.MemberCount
	}
	if patch.Memo != nil {
		t.Memo = patch.Memo
	}

	row := s.db.QueryRow(ctx, `
		UPDATE trips
		SET title=$2, destination=$3, start_date=$4, end_date=$5, member_count=$6, memo=$7, updated_at=now()
		WHERE id=$1
		RETURNING updated_at
	`, t.ID, t.Title, t.Destination, t.StartDate, t.EndDate, t.MemberCount, t.Memo)
	if err := row.Scan(&t.UpdatedAt); err != nil {
		return Trip{}, err
	}

	s.broadcast(t.ID, stream.EventUpdate, "trips", t)
	return t, nil
}

// Delete removes the trip; child rows go with it via cascading foreign
// keys. The broadcast carries the row as it existed before removal.
func (s *Service) Delete(ctx context.Context, tripID string) error {
	row := s.db.QueryRow(ctx, `
		DELETE FROM trips WHERE id = $1
		RETURNING id, title, destination, start_date, end_date, member_count, memo, owner_id, created_at, updated_at
	`, tripID)
	var t Trip
	if err := row.Scan(&t.ID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate, &t.MemberCount,
		&t.Memo, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}

	s.broadcast(tripID, stream.EventDelete, "trips", t)
	return nil
}

func (s *Service) Members(ctx context.Context, tripID string) ([]Member, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, user_id, role, joined_at
		FROM trip_members WHERE trip_id = $1
		ORDER BY joined_at
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		var role string
		if err := rows.Scan(&m.ID, &m.TripID, &m.UserID, &role, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.Role = authz.Role(role)
		members = append(members, m)
	}
	return members, nil
}

func (s *Service) UpdateMemberRole(ctx context.Context, tripID, userID string, role authz.Role) (Member, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE trip_members SET role=$3
		WHERE trip_id=$1 AND user_id=$2
		RETURNING id, joined_at
	`, tripID, userID, role)
	m := Member{TripID: tripID, UserID: userID, Role: role}
	if err := row.Scan(&m.ID, &m.JoinedAt); err != nil {
		return Member{}, err
	}

	s.broadcast(tripID, stream.EventUpdate, "trip_members", m)
	return m, nil
}

func (s *Service) RemoveMember(ctx context.Context, tripID, userID string) error {
	row := s.db.QueryRow(ctx, `
		DELETE FROM trip_members
		WHERE trip_id=$1 AND user_id=$2
		RETURNING id, role, joined_at
	`, tripID, userID)
	m := Member{TripID: tripID, UserID: userID}
	var role string
	if err := row.Scan(&m.ID, &role, &m.JoinedAt); err != nil {
		return err
	}
	m.Role = authz.Role(role)

	s.broadcast(tripID, stream.EventDelete, "trip_members", m)
	return nil
}

func (s *Service) broadcast(tripID, eventType, table string, record any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(tripID, stream.Event{Type: eventType, Table: table, Record: record})
}
