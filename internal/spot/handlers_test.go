package spot

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shunto-ishiguro/trip-plan-app/internal/authz"
)

func newSpotApp(mock pgxmock.PgxPoolIface, userID string) *fiber.App {
	app := fiber.New()
	auth := func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
	RegisterRoutes(app.Group("/trips/:tripId/spots"), NewService(mock, nil), authz.NewGate(mock), auth)
	return app
}

func expectRole(mock pgxmock.PgxPoolIface, tripID, userID, role string) {
	mock.ExpectQuery(`SELECT role FROM trip_members`).
		WithArgs(tripID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(role))
}

func TestListHandler(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectRole(mock, "trip-1", "user-1", "viewer")
	mock.ExpectQuery(`SELECT id, trip_id, day_index`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(spotColumns()))

	app := newSpotApp(mock, "user-1")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/trips/trip-1/spots/", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestListHandlerBadDayIndex(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectRole(mock, "trip-1", "user-1", "viewer")

	app := newSpotApp(mock, "user-1")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/trips/trip-1/spots/?dayIndex=abc", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateHandlerViewerForbidden(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectRole(mock, "trip-1", "user-1", "viewer")

	body, _ := json.Marshal(CreateRequest{Name: "Fushimi Inari"})
	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/spots/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	app := newSpotApp(mock, "user-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestCreateHandlerMissingName(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectRole(mock, "trip-1", "user-1", "editor")

	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/spots/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	app := newSpotApp(mock, "user-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetHandlerNotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectRole(mock, "trip-1", "user-1", "viewer")
	mock.ExpectQuery(`SELECT id, trip_id, day_index`).
		WithArgs("trip-1", "missing").
		WillReturnError(pgx.ErrNoRows)

	app := newSpotApp(mock, "user-1")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/trips/trip-1/spots/missing", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
