package bloodrequest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/platform/apperr"
)

type fakeRepo struct {
	reqs map[uuid.UUID]*BloodRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reqs: make(map[uuid.UUID]*BloodRequest)}
}

func (r *fakeRepo) Create(_ context.Context, br *BloodRequest) error {
	br.ID = uuid.New()
	br.CreatedAt = time.Now()
	br.UpdatedAt = br.CreatedAt
	r.reqs[br.ID] = br
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*BloodRequest, error) {
	br, ok := r.reqs[id]
	if !ok {
		return nil, apperr.NotFound("blood request")
	}
	copied := *br
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, br *BloodRequest) error {
	if _, ok := r.reqs[br.ID]; !ok {
		return apperr.NotFound("blood request")
	}
	copied := *br
	r.reqs[br.ID] = &copied
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.reqs[id]; !ok {
		return apperr.NotFound("blood request")
	}
	delete(r.reqs, id)
	return nil
}

func (r *fakeRepo) List(_ context.Context, filter Filter, limit, offset int) ([]*BloodRequest, int, error) {
	var matched []*BloodRequest
	for _, br := range r.reqs {
		if filter.Status != "" && br.Status != filter.Status {
			continue
		}
		if filter.BloodGroup != "" && br.BloodGroup != filter.BloodGroup {
			continue
		}
		if filter.Urgency != "" && br.Urgency != filter.Urgency {
			continue
		}
		matched = append(matched, br)
	}
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func validInput() CreateInput {
	return CreateInput{
		HospitalName: "City Hospital",
		BloodGroup:   "O+",
		UnitsNeeded:  2,
		Urgency:      UrgencyEmergency,
		Address:      "Mirpur, Dhaka",
		ContactPhone: "+8801712345678",
		PatientName:  "Karim",
	}
}

func TestCreate_Authenticated(t *testing.T) {
	svc := NewService(newFakeRepo())
	requester := uuid.New()

	br, err := svc.Create(context.Background(), requester, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if br.Status != StatusOpen {
		t.Errorf("expected OPEN, got %s", br.Status)
	}
	if br.RequestedBy == nil || *br.RequestedBy != requester {
		t.Errorf("expected requested_by set, got %v", br.RequestedBy)
	}
}

func TestCreate_Anonymous(t *testing.T) {
	svc := NewService(newFakeRepo())

	br, err := svc.Create(context.Background(), uuid.Nil, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if br.RequestedBy != nil {
		t.Errorf("anonymous requests must have null requested_by, got %v", br.RequestedBy)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newFakeRepo())
	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing hospital", func(in *CreateInput) { in.HospitalName = "" }},
		{"bad blood group", func(in *CreateInput) { in.BloodGroup = "Z-" }},
		{"zero units", func(in *CreateInput) { in.UnitsNeeded = 0 }},
		{"bad urgency", func(in *CreateInput) { in.Urgency = "CRITICAL" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), uuid.Nil, in); !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreate_DefaultUrgency(t *testing.T) {
	svc := NewService(newFakeRepo())
	in := validInput()
	in.Urgency = ""
	br, err := svc.Create(context.Background(), uuid.Nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if br.Urgency != UrgencyNormal {
		t.Errorf("expected NORMAL default, got %s", br.Urgency)
	}
}

func TestAccept(t *testing.T) {
	svc := NewService(newFakeRepo())
	br, _ := svc.Create(context.Background(), uuid.Nil, validInput())
	donor := uuid.New()

	got, err := svc.Accept(context.Background(), br.ID, donor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusFulfilled {
		t.Errorf("expected FULFILLED, got %s", got.Status)
	}
	if got.FulfilledBy == nil || *got.FulfilledBy != donor {
		t.Errorf("expected fulfilled_by=%s, got %v", donor, got.FulfilledBy)
	}

	// FULFILLED is terminal.
	if _, err := svc.Accept(context.Background(), br.ID, uuid.New()); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("expected state error, got %v", err)
	}
	if _, err := svc.Accept(context.Background(), uuid.New(), donor); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdate_Ownership(t *testing.T) {
	svc := NewService(newFakeRepo())
	owner := uuid.New()
	br, _ := svc.Create(context.Background(), owner, validInput())

	units := 5
	if _, err := svc.Update(context.Background(), br.ID, uuid.New(), UpdateInput{UnitsNeeded: &units}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("expected forbidden for non-owner, got %v", err)
	}

	got, err := svc.Update(context.Background(), br.ID, owner, UpdateInput{UnitsNeeded: &units})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UnitsNeeded != 5 {
		t.Errorf("expected units updated, got %d", got.UnitsNeeded)
	}
}

func TestUpdate_AnonymousRequestAnyCaller(t *testing.T) {
	svc := NewService(newFakeRepo())
	br, _ := svc.Create(context.Background(), uuid.Nil, validInput())

	// Requests without a recorded owner accept edits from any caller.
	units := 3
	if _, err := svc.Update(context.Background(), br.ID, uuid.New(), UpdateInput{UnitsNeeded: &units}); err != nil {
		t.Errorf("anonymous requests are editable by anyone, got %v", err)
	}
	if err := svc.Delete(context.Background(), br.ID, uuid.New()); err != nil {
		t.Errorf("anonymous requests are deletable by anyone, got %v", err)
	}
}

func TestUpdate_CancelTransition(t *testing.T) {
	svc := NewService(newFakeRepo())
	owner := uuid.New()
	br, _ := svc.Create(context.Background(), owner, validInput())

	cancelled := StatusCancelled
	got, err := svc.Update(context.Background(), br.ID, owner, UpdateInput{Status: &cancelled})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", got.Status)
	}

	// Terminal: no further edits or acceptance.
	units := 9
	if _, err := svc.Update(context.Background(), br.ID, owner, UpdateInput{UnitsNeeded: &units}); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("expected state error, got %v", err)
	}
	if _, err := svc.Accept(context.Background(), br.ID, uuid.New()); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("expected state error on accept, got %v", err)
	}

	fulfilled := StatusFulfilled
	br2, _ := svc.Create(context.Background(), owner, validInput())
	if _, err := svc.Update(context.Background(), br2.ID, owner, UpdateInput{Status: &fulfilled}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("direct FULFILLED writes are not allowed, got %v", err)
	}
}

func TestDelete_Ownership(t *testing.T) {
	svc := NewService(newFakeRepo())
	owner := uuid.New()
	br, _ := svc.Create(context.Background(), owner, validInput())

	if err := svc.Delete(context.Background(), br.ID, uuid.New()); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), br.ID, owner); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), br.ID, owner); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestList_Filters(t *testing.T) {
	svc := NewService(newFakeRepo())
	owner := uuid.New()

	a, _ := svc.Create(context.Background(), owner, validInput())
	in := validInput()
	in.BloodGroup = "A-"
	in.Urgency = UrgencyNormal
	if _, err := svc.Create(context.Background(), owner, in); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Accept(context.Background(), a.ID, uuid.New()); err != nil {
		t.Fatalf("seed accept: %v", err)
	}

	items, total, err := svc.List(context.Background(), Filter{Status: StatusOpen}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].BloodGroup != "A-" {
		t.Errorf("expected the single open A- request, got total=%d", total)
	}

	_, total, _ = svc.List(context.Background(), Filter{Urgency: UrgencyEmergency}, 20, 0)
	if total != 1 {
		t.Errorf("expected 1 emergency request, got %d", total)
	}

	if _, _, err := svc.List(context.Background(), Filter{Status: "WEIRD"}, 20, 0); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
