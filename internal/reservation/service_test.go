package reservation

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

var errReservation = errors.New("reservation error")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	return mock
}

func reservationColumns() []string {
	return []string{"id", "trip_id", "type", "name", "confirmation_number", "datetime", "link", "memo"}
}

func TestList(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, trip_id, type, name, confirmation_number`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(reservationColumns()).
			AddRow("rsv-1", "trip-1", "flight", "JL123", nil, nil, nil, nil).
			AddRow("rsv-2", "trip-1", "hotel", "Granvia Kyoto", nil, nil, nil, nil))

	svc := NewService(mock, nil)
	reservations, err := svc.List(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reservations) != 2 || reservations[0].Type != TypeFlight {
		t.Fatalf("unexpected reservations: %+v", reservations)
	}
}

func TestListError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, trip_id, type, name, confirmation_number`).
		WithArgs("trip-1").
		WillReturnError(errReservation)

	svc := NewService(mock, nil)
	if _, err := svc.List(context.Background(), "trip-1"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCreate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	conf := "ABC123"
	mock.ExpectExec(`INSERT INTO reservations`).
		WithArgs(pgxmock.AnyArg(), "trip-1", "flight", "JL123", &conf, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock, nil)
	created, err := svc.Create(context.Background(), "trip-1", CreateRequest{
		Type: TypeFlight, Name: "JL123", ConfirmationNumber: &conf,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.ConfirmationNumber == nil || *created.ConfirmationNumber != conf {
		t.Fatalf("unexpected reservation: %+v", created)
	}
}

func TestUpdate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, trip_id, type, name, confirmation_number`).
		WithArgs("trip-1", "rsv-1").
		WillReturnRows(pgxmock.NewRows(reservationColumns()).
			AddRow("rsv-1", "trip-1", "flight", "JL123", nil, nil, nil, nil))

	name := "JL456"
	mock.ExpectExec(`UPDATE reservations`).
		WithArgs("trip-1", "rsv-1", "flight", name, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock, nil)
	updated, err := svc.Update(context.Background(), "trip-1", "rsv-1", UpdateRequest{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("unexpected name: %s", updated.Name)
	}
}

func TestUpdateCrossTripNotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, trip_id, type, name, confirmation_number`).
		WithArgs("other-trip", "rsv-1").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock, nil)
	if _, err := svc.Update(context.Background(), "other-trip", "rsv-1", UpdateRequest{}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, trip_id, type, name, confirmation_number`).
		WithArgs("trip-1", "rsv-1").
		WillReturnRows(pgxmock.NewRows(reservationColumns()).
			AddRow("rsv-1", "trip-1", "flight", "JL123", nil, nil, nil, nil))
	mock.ExpectExec(`DELETE FROM reservations`).
		WithArgs("trip-1", "rsv-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	svc := NewService(mock, nil)
	if err := svc.Delete(context.Background(), "trip-1", "rsv-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestValidType(t *testing.T) {
	for _, v := range []string{TypeFlight, TypeHotel, TypeRentalCar, TypeRestaurant, TypeActivity, TypeOther} {
		if !ValidType(v) {
			t.Fatalf("%s should be valid", v)
		}
	}
	if ValidType("cruise") {
		t.Fatalf("unknown type should be invalid")
	}
}
