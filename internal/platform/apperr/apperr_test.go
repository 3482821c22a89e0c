package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Cooldown(90), http.StatusBadRequest},
		{State("already completed"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("appointment"), http.StatusNotFound},
		{Internal("boom", errors.New("cause")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.status {
			t.Errorf("kind %d: expected %d, got %d", tc.err.Kind, tc.status, got)
		}
	}
}

func TestCooldown_CarriesDaysRemaining(t *testing.T) {
	err := Cooldown(90)
	if err.Extra["days_remaining"] != 90 {
		t.Errorf("expected days_remaining 90, got %v", err.Extra["days_remaining"])
	}
}

func TestAs_Unwraps(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NotFound("user"))
	appErr, ok := As(wrapped)
	if !ok {
		t.Fatal("expected to find app error in chain")
	}
	if appErr.Kind != KindNotFound {
		t.Errorf("expected KindNotFound, got %d", appErr.Kind)
	}
}

func TestIsKind(t *testing.T) {
	if !IsKind(State("nope"), KindState) {
		t.Error("expected KindState match")
	}
	if IsKind(errors.New("plain"), KindState) {
		t.Error("plain error should not match")
	}
}

func TestHTTPErrorHandler_AppError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := HTTPErrorHandler(zerolog.Nop(), false)
	h(Cooldown(42), c)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["days_remaining"] != float64(42) {
		t.Errorf("expected days_remaining 42, got %v", body["days_remaining"])
	}
}

func TestHTTPErrorHandler_HidesInternalDetail(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := HTTPErrorHandler(zerolog.Nop(), false)
	h(Internal("save failed", errors.New("pg: connection reset")), c)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if _, leaked := body["error"]; leaked {
		t.Error("internal cause must not leak outside development")
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := HTTPErrorHandler(zerolog.Nop(), false)
	h(echo.NewHTTPError(http.StatusTeapot, "short and stout"), c)

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
}
