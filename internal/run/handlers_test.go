package run

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func passThrough(c *fiber.Ctx) error { return c.Next() }

func TestRunHandlersCreateGetList(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), "athlete-1", "evening run", StatusInit).
		WillReturnRows(pgxmock.NewRows([]string{"distance", "run_time_seconds", "speed", "created_at"}).
			AddRow(0.0, 0, 0.0, t0))

	mock.ExpectQuery(`SELECT id, athlete_id, comment, status, distance, run_time_seconds, speed, created_at`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "athlete_id", "comment", "status", "distance", "run_time_seconds", "speed", "created_at"}).
			AddRow("run-1", "athlete-1", "evening run", StatusInit, 0.0, 0, 0.0, t0))

	mock.ExpectQuery(`SELECT id, athlete_id, comment, status, distance, run_time_seconds, speed, created_at`).
		WithArgs("athlete-1", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "athlete_id", "comment", "status", "distance", "run_time_seconds", "speed", "created_at"}).
			AddRow("run-1", "athlete-1", "evening run", StatusInit, 0.0, 0, 0.0, t0))

	app := fiber.New()
	RegisterRoutes(app.Group("/runs"), NewService(mock), passThrough)

	body, _ := json.Marshal(Run{AthleteID: "athlete-1", Comment: "evening run"})
	req := httptest.NewRequest(http.MethodPost, "/runs/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/runs/run-1", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get status: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/runs/?athlete=athlete-1", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}
}

func TestRunHandlersBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/runs"), NewService(nil), passThrough)

	req := httptest.NewRequest(http.MethodPost, "/runs/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestStartStopHandlers(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	expectStatusLock(mock, "run-1", StatusInit)
	mock.ExpectExec(`UPDATE runs SET status=\$2`).
		WithArgs("run-1", StatusInProgress).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	expectStopLock(mock, "run-1", "athlete-1", StatusInProgress)
	mock.ExpectQuery(`SELECT latitude, longitude, date_time`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"latitude", "longitude", "date_time"}).
			AddRow(0.0, 0.0, t0).
			AddRow(0.0, 0.9, t0.Add(time.Hour)))
	mock.ExpectExec(`UPDATE runs SET status=\$2, distance=\$3, run_time_seconds=\$4, speed=\$5`).
		WithArgs("run-1", StatusFinished, pgxmock.AnyArg(), 3600, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(distance\), 0\)`).
		WithArgs("athlete-1", StatusFinished).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(1, 100.074))
	mock.ExpectExec(`INSERT INTO challenges`).
		WithArgs("athlete-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	app := fiber.New()
	RegisterRoutes(app.Group("/runs"), NewService(mock), passThrough)

	req := httptest.NewRequest(http.MethodPost, "/runs/run-1/start", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("start status: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/runs/run-1/stop", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("stop status: %v", err)
	}

	raw, _ := io.ReadAll(resp.Body)
	var result StopResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode stop response: %v", err)
	}
	if result.RunTimeSeconds != 3600 {
		t.Fatalf("stop response must echo metrics: %+v", result)
	}
}

func TestStartStopHandlerConflicts(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	expectStatusLock(mock, "run-1", StatusFinished)
	mock.ExpectRollback()

	mock.ExpectBegin()
	expectStopLock(mock, "run-1", "athlete-1", StatusInit)
	mock.ExpectRollback()

	app := fiber.New()
	RegisterRoutes(app.Group("/runs"), NewService(mock), passThrough)

	req := httptest.NewRequest(http.MethodPost, "/runs/run-1/start", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for start on finished run")
	}

	req = httptest.NewRequest(http.MethodPost, "/runs/run-1/stop", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for stop on never-started run")
	}
}

func TestRunHandlerNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, athlete_id, comment, status, distance, run_time_seconds, speed, created_at`).
		WithArgs("missing").
		WillReturnError(errNoRun)

	app := fiber.New()
	RegisterRoutes(app.Group("/runs"), NewService(mock), passThrough)

	req := httptest.NewRequest(http.MethodGet, "/runs/missing", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusInternalServerError && resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}

func TestDeleteRunHandler(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM runs`).
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	app := fiber.New()
	RegisterRoutes(app.Group("/runs"), NewService(mock), passThrough)

	req := httptest.NewRequest(http.MethodDelete, "/runs/run-1", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected no content, got %d", resp.StatusCode)
	}
}

func TestDeleteRunHandlerMissing(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM runs`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	app := fiber.New()
	RegisterRoutes(app.Group("/runs"), NewService(mock), passThrough)

	req := httptest.NewRequest(http.MethodDelete, "/runs/missing", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}
}

var errNoRun = errors.New("run lookup failed")
