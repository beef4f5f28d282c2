package spot

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

// List returns the trip's spots in itinerary order. dayIndex filters to a
// single day when non-nil.
func (s *Service) List(ctx context.Context, tripID string, dayIndex *int) ([]Spot, error) {
	query := `
		SELECT id, trip_id, day_index, "order", name, address, start_time, end_time, memo, latitude, longitude
		FROM spots WHERE trip_id=$1
		ORDER BY day_index, "order"
	`
	args := []any{tripID}
	if dayIndex != nil {
		query = `
		SELECT id, trip_id, day_index, "order", name, address, start_time, end_time, memo, latitude, longitude
		FROM spots WHERE trip_id=$1 AND day_index=$2
		ORDER BY day_index, "order"
	`
		args = append(args, *dayIndex)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []Spot
	for rows.Next() {
		var sp Spot
		if err := rows.Scan(&sp.ID, &sp.TripID, &sp.DayIndex, &sp.Order, &sp.Name, &sp.Address,
			&sp.StartTime, &sp.EndTime, &sp.Memo, &sp.Latitude, &sp.Longitude); err != nil {
			return nil, err
		}
		spots = append(spots, sp)
	}
	return spots, nil
}

func (s *Service) Get(ctx context.Context, tripID, id string) (Spot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, trip_id, day_index, "order", name, address, start_time, end_time, memo, latitude, longitude
		FROM spots WHERE trip_id=$1 AND id=$2
	`, tripID, id)
	var sp Spot
	if err := row.Scan(&sp.ID, &sp.TripID, &sp.DayIndex, &sp.Order, &sp.Name, &sp.Address,
		&sp.StartTime, &sp.EndTime, &sp.Memo, &sp.Latitude, &sp.Longitude); err != nil {
		return Spot{}, err
	}
	return sp, nil
}

func (s *Service) Create(ctx context.Context, tripID string, req CreateRequest) (Spot, error) {
	sp := Spot{
		ID:        uuid.NewString(),
		TripID:    tripID,
		DayIndex:  req.DayIndex,
		Order:     req.Order,
		Name:      req.Name,
		Address:   req.Address,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Memo:      req.Memo,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO spots (id, trip_id, day_index, "order", name, address, start_time, end_time, memo, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, sp.ID, sp.TripID, sp.DayIndex, sp.Order, sp.Name, sp.Address, sp.StartTime, sp.EndTime, sp.Memo, sp.Latitude, sp.Longitude)
	if err != nil {
		return Spot{}, err
	}

	s.broadcast(tripID, stream.EventInsert, sp)
	return sp, nil
}

func (s *Service) Update(ctx context.Context, tripID, id string, patch UpdateRequest) (Spot, error) {
	sp, err := s.Get(ctx, tripID, id)
	if err != nil {
		return Spot{}, err
	}
	if patch.DayIndex != nil {
		sp.DayIndex = *patch.DayIndex
	}
	if patch.Order != nil {
		sp.Order = *patch.Order
	}
	if patch.Name != nil {
		sp.Name = *patch.Name
	}
	if patch.Address != nil {
		sp.Address = patch.Address
	}
	if patch.StartTime != nil {
		sp.StartTime = patch.StartTime
	}
	if patch.EndTime != nil {
		sp.EndTime = patch.EndTime
	}
	if patch.Memo != nil {
		sp.Memo = patch.Memo
	}
	if patch.Latitude != nil {
		sp.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		sp.Longitude = patch.Longitude
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE spots
		SET day_index=$3, "order"=$4, name=$5, address=$6, start_time=$7, end_time=$8, memo=$9, latitude=$10, longitude=$11
		WHERE trip_id=$1 AND id=$2
	`, tripID, id, sp.DayIndex, sp.Order, sp.Name, sp.Address, sp.StartTime, sp.EndTime, sp.Memo, sp.Latitude, sp.Longitude)
	if err != nil {
		return Spot{}, err
	}
	if tag.RowsAffected() == 0 {
		return Spot{}, pgx.ErrNoRows
	}

	s.broadcast(tripID, stream.EventUpdate, sp)
	return sp, nil
}

func (s *Service) Delete(ctx context.Context, tripID, id string) error {
	sp, err := s.Get(ctx, tripID, id)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		DELETE FROM spots WHERE trip_id=$1 AND id=$2
	`, tripID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	s.broadcast(tripID, stream.EventDelete, sp)
	return nil
}

func (s *Service) broadcast(tripID, eventType string, record any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(tripID, stream.Event{Type: eventType, Table: "spots", Record: record})
}
