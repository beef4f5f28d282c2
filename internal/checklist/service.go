package checklist

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

// List returns the trip's checklist items, optionally filtered to one
// list type (packing or todo).
func (s *Service) List(ctx context.Context, tripID, itemType string) ([]Item, error) {
	query := `
		SELECT id, trip_id, type, text, checked
		FROM checklist_items WHERE trip_id=$1
	`
	args := []any{tripID}
	if itemType != "" {
		query = `
		SELECT id, trip_id, type, text, checked
		FROM checklist_items WHERE trip_id=$1 AND type=$2
	`
		args = append(args, itemType)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.TripID, &it.Type, &it.Text, &it.Checked); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, tripID, id string) (Item, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, trip_id, type, text, checked
		FROM checklist_items WHERE trip_id=$1 AND id=$2
	`, tripID, id)
	var it Item
	if err := row.Scan(&it.ID, &it.TripID, &it.Type, &it.Text, &it.Checked); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) Create(ctx context.Context, tripID string, req CreateRequest) (Item, error) {
	it := Item{
		ID:      uuid.NewString(),
		TripID:  tripID,
		Type:    req.Type,
		Text:    req.Text,
		Checked: req.Checked,
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO checklist_items (id, trip_id, type, text, checked)
		VALUES ($1,$2,$3,$4,$5)
	`, it.ID, it.TripID, it.Type, it.Text, it.Checked)
	if err != nil {
		return Item{}, err
	}

	s.broadcast(tripID, stream.EventInsert, it)
	return it, nil
}

// CreateBatch inserts several items in one call, broadcasting one INSERT
// per created row so subscribers apply them individually.
func (s *Service) CreateBatch(ctx context.Context, tripID string, reqs []CreateRequest) ([]Item, error) {
	items := make([]Item, 0, len(reqs))
	for _, req := range reqs {
		it, err := s.Create(ctx, tripID, req)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, tripID, id string, patch UpdateRequest) (Item, error) {
	it, err := s.Get(ctx, tripID, id)
	if err != nil {
		return Item{}, err
	}
	if patch.Type != nil {
		it.Type = *patch.Type
	}
	if patch.Text != nil {
		it.Text = *patch.Text
	}
	if patch.Checked != nil {
		it.Checked = *patch.Checked
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE checklist_items
		SET type=$3, text=$4, checked=$5
		WHERE trip_id=$1 AND id=$2
	`, tripID, id, it.Type, it.Text, it.Checked)
	if err != nil {
		return Item{}, err
	}
	if tag.RowsAffected() == 0 {
		return Item{}, pgx.ErrNoRows
	}

	s.broadcast(tripID, stream.EventUpdate, it)
	return it, nil
}

func (s *Service) Delete(ctx context.Context, tripID, id string) error {
	it, err := s.Get(ctx, tripID, id)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		DELETE FROM checklist_items WHERE trip_id=$1 AND id=$2
	`, tripID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	s.broadcast(tripID, stream.EventDelete, it)
	return nil
}

func (s *Service) broadcast(tripID, eventType string, record any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(tripID, stream.Event{Type: eventType, Table: "checklist_items", Record: record})
}
