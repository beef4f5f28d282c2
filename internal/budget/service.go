package budget

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

func (s *Service) List(ctx context.Context, tripID string) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, category, name, amount, pricing_type, memo
		FROM budget_items WHERE trip_id=$1
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.TripID, &it.Category, &it.Name, &it.Amount, &it.PricingType, &it.Memo); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, tripID, id string) (Item, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, trip_id, category, name, amount, pricing_type, memo
		FROM budget_items WHERE trip_id=$1 AND id=$2
	`, tripID, id)
	var it Item
	if err := row.Scan(&it.ID, &it.TripID, &it.Category, &it.Name, &it.Amount, &it.PricingType, &it.Memo); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) Create(ctx context.Context, tripID string, req CreateRequest) (Item, error) {
	it := Item{
		ID:          uuid.NewString(),
		TripID:      tripID,
		Category:    req.Category,
		Name:        req.Name,
		Amount:      req.Amount,
		PricingType: req.PricingType,
		Memo:        req.Memo,
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO budget_items (id, trip_id, category, name, amount, pricing_type, memo)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, it.ID, it.TripID, it.Category, it.Name, it.Amount, it.PricingType, it.Memo)
	if err != nil {
		return Item{}, err
	}

	s.broadcast(tripID, stream.EventInsert, it)
	return it, nil
}

func (s *Service) Update(ctx context.Context, tripID, id string, patch UpdateRequest) (Item, error) {
	it, err := s.Get(ctx, tripID, id)
	if err != nil {
		return Item{}, err
	}
	if patch.Category != nil {
		it.Category = *patch.Category
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Amount != nil {
		it.Amount = *patch.Amount
	}
	if patch.PricingType != nil {
		it.PricingType = *patch.PricingType
	}
	if patch.Memo != nil {
		it.Memo = patch.Memo
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE budget_items
		SET category=$3, name=$4, amount=$5, pricing_type=$6, memo=$7
		WHERE trip_id=$1 AND id=$2
	`, tripID, id, it.Category, it.Name, it.Amount, it.PricingType, it.Memo)
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
		DELETE FROM budget_items WHERE trip_id=$1 AND id=$2
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
	s.hub.Broadcast(tripID, stream.Event{Type: eventType, Table: "budget_items", Record: record})
}
