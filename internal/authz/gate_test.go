package authz

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	return mock
}

func TestAuthorizeMember(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT role FROM trip_members`).
		WithArgs("trip-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("editor"))

	gate := NewGate(mock)
	decision, err := gate.Authorize(context.Background(), "user-1", "trip-1", RoleViewer)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if !decision.Authorized || decision.Role != RoleEditor {
		t.Fatalf("expected authorized editor, got %+v", decision)
	}
}

func TestAuthorizeInsufficientRole(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT role FROM trip_members`).
		WithArgs("trip-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("viewer"))

	gate := NewGate(mock)
	decision, err := gate.Authorize(context.Background(), "user-1", "trip-1", RoleEditor)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if decision.Authorized {
		t.Fatalf("viewer should not pass an editor gate")
	}
}

func TestAuthorizeNonMember(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT role FROM trip_members`).
		WithArgs("trip-1", "stranger").
		WillReturnError(pgx.ErrNoRows)

	gate := NewGate(mock)
	decision, err := gate.Authorize(context.Background(), "stranger", "trip-1", RoleViewer)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if decision.Authorized {
		t.Fatalf("non-member should be denied, not errored")
	}
}

func TestAuthorizeQueryError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT role FROM trip_members`).
		WithArgs("trip-1", "user-1").
		WillReturnError(errors.New("db down"))

	gate := NewGate(mock)
	_, err := gate.Authorize(context.Background(), "user-1", "trip-1", RoleViewer)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func requireApp(gate *Gate, min Role, userID string) *fiber.App {
	app := fiber.New()
	app.Get("/trips/:tripId/thing", func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}, RequireRole(gate, min), func(c *fiber.Ctx) error {
		role, _ := c.Locals("trip_role").(Role)
		return c.SendString(string(role))
	})
	return app
}

func TestRequireRoleAllows(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT role FROM trip_members`).
		WithArgs("trip-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("owner"))

	app := requireApp(NewGate(mock), RoleEditor, "user-1")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/trips/trip-1/thing", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "owner" {
		t.Fatalf("expected trip_role local, got %q", body)
	}
}

func TestRequireRoleDenies(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT role FROM trip_members`).
		WithArgs("trip-1", "user-1").
		WillReturnError(pgx.ErrNoRows)

	app := requireApp(NewGate(mock), RoleViewer, "user-1")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/trips/trip-1/thing", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestRequireRoleMissingUser(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	app := requireApp(NewGate(mock), RoleViewer, "")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/trips/trip-1/thing", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestRequireRoleGateError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT role FROM trip_members`).
		WithArgs("trip-1", "user-1").
		WillReturnError(errors.New("db down"))

	app := requireApp(NewGate(mock), RoleViewer, "user-1")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/trips/trip-1/thing", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
