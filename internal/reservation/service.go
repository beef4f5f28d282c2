package reservation

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

func (s *Service) List(ctx context.Context, tripID string) ([]Reservation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, type, name, confirmation_number, datetime, link, memo
		FROM reservations WHERE trip_id=$1
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var rv Reservation
		if err := rows.Scan(&rv.ID, &rv.TripID, &rv.Type, &rv.Name, &rv.ConfirmationNumber, &rv.Datetime, &rv.Link, &rv.Memo); err != nil {
			return nil, err
		}
		reservations = append(reservations, rv)
	}
	return reservations, nil
}

func (s *Service) Get(ctx context.Context, tripID, id string) (Reservation, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, trip_id, type, name, confirmation_number, datetime, link, memo
		FROM reservations WHERE trip_id=$1 AND id=$2
	`, tripID, id)
	var rv Reservation
	if err := row.Scan(&rv.ID, &rv.TripID, &rv.Type, &rv.Name, &rv.ConfirmationNumber, &rv.Datetime, &rv.Link, &rv.Memo); err != nil {
		return Reservation{}, err
	}
	return rv, nil
}

func (s *Service) Create(ctx context.Context, tripID string, req CreateRequest) (Reservation, error) {
	rv := Reservation{
		ID:                 uuid.NewString(),
		TripID:             tripID,
		Type:               req.Type,
		Name:               req.Name,
		ConfirmationNumber: req.ConfirmationNumber,
		Datetime:           req.Datetime,
		Link:               req.Link,
		Memo:               req.Memo,
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO reservations (id, trip_id, type, name, confirmation_number, datetime, link, memo)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, rv.ID, rv.TripID, rv.Type, rv.Name, rv.ConfirmationNumber, rv.Datetime, rv.Link, rv.Memo)
	if err != nil {
		return Reservation{}, err
	}

	s.broadcast(tripID, stream.EventInsert, rv)
	return rv, nil
}

func (s *Service) Update(ctx context.Context, tripID, id string, patch UpdateRequest) (Reservation, error) {
	rv, err := s.Get(ctx, tripID, id)
	if err != nil {
		return Reservation{}, err
	}
	if patch.Type != nil {
		rv.Type = *patch.Type
	}
	if patch.Name != nil {
		rv.Name = *patch.Name
	}
	if patch.ConfirmationNumber != nil {
		rv.ConfirmationNumber = patch.ConfirmationNumber
	}
	if patch.Datetime != nil {
		rv.Datetime = patch.Datetime
	}
	if patch.Link != nil {
		rv.Link = patch.Link
	}
	if patch.Memo != nil {
		rv.Memo = patch.Memo
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE reservations
		SET type=$3, name=$4, confirmation_number=$5, datetime=$6, link=$7, memo=$8
		WHERE trip_id=$1 AND id=$2
	`, tripID, id, rv.Type, rv.Name, rv.ConfirmationNumber, rv.Datetime, rv.Link, rv.Memo)
	if err != nil {
		return Reservation{}, err
	}
	if tag.RowsAffected() == 0 {
		return Reservation{}, pgx.ErrNoRows
	}

	s.broadcast(tripID, stream.EventUpdate, rv)
	return rv, nil
}

func (s *Service) Delete(ctx context.Context, tripID, id string) error {
	rv, err := s.Get(ctx, tripID, id)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		DELETE FROM reservations WHERE trip_id=$1 AND id=$2
	`, tripID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	s.broadcast(tripID, stream.EventDelete, rv)
	return nil
}

func (s *Service) broadcast(tripID, eventType string, record any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(tripID, stream.Event{Type: eventType, Table: "reservations", Record: record})
}
