package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/apperr"
	"github.com/bloodlink/bloodlink/internal/platform/auth"
)

func authedJSON(userID uuid.UUID, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, userID))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Create(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)

	date := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"hospital_name":"City Hospital","hospital_address":"Mirpur, Dhaka",
		"blood_group":"O+","appointment_date":%q,"appointment_time":"10:00 AM"}`, date)
	c, rec := authedJSON(f.donor.ID, http.MethodPost, "/api/v1/appointments", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var a Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if a.Status != StatusScheduled || a.DonorID != f.donor.ID {
		t.Errorf("unexpected appointment: %+v", a)
	}
}

func TestHandler_Complete(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	a, _ := f.svc.Create(context.Background(), f.donor.ID, validCreate())

	c, rec := authedJSON(f.donor.ID, http.MethodPut, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.Complete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		PointsEarned     int  `json:"points_earned"`
		InventoryCreated bool `json:"inventory_created"`
		Appointment      struct {
			Status string `json:"status"`
		} `json:"appointment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.PointsEarned != 50 || !resp.InventoryCreated || resp.Appointment.Status != StatusCompleted {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandler_Complete_BadID(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)

	c, _ := authedJSON(f.donor.ID, http.MethodPut, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.Complete(c); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_ListMine(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	for i := 0; i < 3; i++ {
		if _, err := f.svc.Create(context.Background(), f.donor.ID, validCreate()); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	c, rec := authedJSON(f.donor.ID, http.MethodGet, "/api/v1/appointments/my-appointments", "")
	if err := h.ListMine(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("expected 3 appointments, got %d", resp.Total)
	}
}
