package bloodrequest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
)

func TestHandler_Create_Anonymous(t *testing.T) {
	h := NewHandler(NewService(newFakeRepo()))
	e := echo.New()

	body := `{"hospital_name":"City Hospital","blood_group":"O+","units_needed":2,"urgency":"EMERGENCY"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var br BloodRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &br); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if br.RequestedBy != nil {
		t.Errorf("expected null requested_by, got %v", br.RequestedBy)
	}
}

func TestHandler_Accept(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	h := NewHandler(svc)
	br, _ := svc.Create(context.Background(), uuid.Nil, validInput())
	donor := uuid.New()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, donor))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(br.ID.String())

	if err := h.Accept(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got BloodRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if got.Status != StatusFulfilled || got.FulfilledBy == nil || *got.FulfilledBy != donor {
		t.Errorf("unexpected response: %+v", got)
	}
}

func TestHandler_List_FilterQuery(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	h := NewHandler(svc)
	if _, err := svc.Create(context.Background(), uuid.Nil, validInput()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests?status=OPEN&urgency=EMERGENCY", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected 1 request, got %d", resp.Total)
	}
}
