package share

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

// GenerateToken produces a share token not yet present in storage. Each
// candidate is checked against the table before being accepted.
func (s *Service) GenerateToken(ctx context.Context) (string, error) {
	for i := 0; i < maxGenerateAttempts; i++ {
		token, err := newPassphrase()
		if err != nil {
			return "", err
		}

		var existing string
		err = s.db.QueryRow(ctx, `
			SELECT id FROM share_settings WHERE share_token = $1
		`, token).Scan(&existing)
		if errors.Is(err, pgx.ErrNoRows) {
			return token, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrTokenExhausted
}

func (s *Service) GetByTrip(ctx context.Context, tripID string) (Setting, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, trip_id, share_url, permission, share_token, is_active, created_by
		FROM share_settings WHERE trip_id = $1
	`, tripID)
	var st Setting
	if err := row.Scan(&st.ID, &st.TripID, &st.ShareURL, &st.Permission, &st.ShareToken, &st.IsActive, &st.CreatedBy); err != nil {
		return Setting{}, err
	}
	return st, nil
}

// Create generates a fresh token and stores the trip's share setting.
// The unique constraint on trip_id means a second create fails until the
// existing setting is deleted.
func (s *Service) Create(ctx context.Context, tripID, userID, permission string) (Setting, error) {
	if permission == "" {
		permission = PermissionView
	}

	token, err := s.GenerateToken(ctx)
	if err != nil {
		return Setting{}, err
	}

	st := Setting{
		ID:         uuid.NewString(),
		TripID:     tripID,
		Permission: permission,
		ShareToken: token,
		IsActive:   true,
		CreatedBy:  userID,
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO share_settings (id, trip_id, permission, share_token, is_active, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, st.ID, st.TripID, st.Permission, st.ShareToken, st.IsActive, st.CreatedBy)
	if err != nil {
		return Setting{}, err
	}

	s.broadcast(tripID, stream.EventInsert, st)
	return st, nil
}

func (s *Service) Update(ctx context.Context, tripID string, patch UpdateRequest) (Setting, error) {
	st, err := s.GetByTrip(ctx, tripID)
	if err != nil {
		return Setting{}, err
	}
	if patch.Permission != nil {
		st.Permission = *patch.Permission
	}
	if patch.IsActive != nil {
		st.IsActive = *patch.IsActive
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE share_settings SET permission=$2, is_active=$3
		WHERE trip_id=$1
	`, tripID, st.Permission, st.IsActive)
	if err != nil {
		return Setting{}, err
	}
	if tag.RowsAffected() == 0 {
		return Setting{}, pgx.ErrNoRows
	}

	s.broadcast(tripID, stream.EventUpdate, st)
	return st, nil
}

// Delete revokes the share link entirely.
func (s *Service) Delete(ctx context.Context, tripID string) error {
	row := s.db.QueryRow(ctx, `
		DELETE FROM share_settings WHERE trip_id = $1
		RETURNING id, trip_id, share_url, permission, share_token, is_active, created_by
	`, tripID)
	var st Setting
	if err := row.Scan(&st.ID, &st.TripID, &st.ShareURL, &st.Permission, &st.ShareToken, &st.IsActive, &st.CreatedBy); err != nil {
		return err
	}

	s.broadcast(tripID, stream.EventDelete, st)
	return nil
}

// Preview resolves a token to its trip summary. An inactive token behaves
// exactly like an unknown one so callers cannot probe for existence.
func (s *Service) Preview(ctx context.Context, token string) (Preview, error) {
	row := s.db.QueryRow(ctx, `
		SELECT ss.trip_id, ss.permission, ss.is_active, t.title, t.destination, t.start_date, t.end_date
		FROM share_settings ss
		JOIN trips t ON t.id = ss.trip_id
		WHERE ss.share_token = $1
	`, token)

	var p Preview
	var isActive bool
	if err := row.Scan(&p.TripID, &p.Permission, &isActive, &p.Title, &p.Destination, &p.StartDate, &p.EndDate); err != nil {
		return Preview{}, err
	}
	if !isActive {
		return Preview{}, pgx.ErrNoRows
	}
	return p, nil
}

// Join resolves the token and adds the caller as a member at the role the
// permission maps to. A pre-existing membership is reported, not an error,
// and the existing role is left untouched.
func (s *Service) Join(ctx context.Context, token, userID string) (JoinResult, error) {
	row := s.db.QueryRow(ctx, `
		SELECT trip_id, permission, is_active
		FROM share_settings WHERE share_token = $1
	`, token)

	var tripID, permission string
	var isActive bool
	if err := row.Scan(&tripID, &permission, &isActive); err != nil {
		return JoinResult{}, err
	}
	if !isActive {
		return JoinResult{}, pgx.ErrNoRows
	}

	role := RoleForPermission(permission)
	var granted string
	err := s.db.QueryRow(ctx, `
		INSERT INTO trip_members (id, trip_id, user_id, role)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (trip_id, user_id) DO NOTHING
		RETURNING role
	`, uuid.NewString(), tripID, userID, role).Scan(&granted)
	if errors.Is(err, pgx.ErrNoRows) {
		return JoinResult{TripID: tripID, AlreadyMember: true}, nil
	}
	if err != nil {
		return JoinResult{}, err
	}

	member := struct {
		TripID string `json:"trip_id"`
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}{tripID, userID, granted}
	s.broadcastTable(tripID, stream.EventInsert, "trip_members", member)

	return JoinResult{TripID: tripID, Role: authz.Role(granted)}, nil
}

func (s *Service) broadcast(tripID, eventType string, record any) {
	s.broadcastTable(tripID, eventType, "share_settings", record)
}

func (s *Service) broadcastTable(tripID, eventType, table string, record any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(tripID, stream.Event{Type: eventType, Table: table, Record: record})
}
