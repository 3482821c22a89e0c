package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/identity"
	"github.com/bloodlink/bloodlink/internal/domain/inventory"
	"github.com/bloodlink/bloodlink/internal/platform/apperr"
)

// DonorStore is the slice of the identity repository the lifecycle needs.
type DonorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
	CreditDonation(ctx context.Context, id uuid.UUID, points int, donatedAt time.Time) error
}

// Reconciler applies a completed donation to the hospital's stock.
type Reconciler interface {
	Reconcile(ctx context.Context, hospitalName, address, bloodType string, delta int) (*inventory.BloodInventory, bool, error)
}

// Notifier dispatches best-effort messages.
type Notifier interface {
	Notify(to, subject, body string)
}

// TxRunner executes fn atomically. The production runner wraps db.WithTx;
// nil means each step commits independently.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo     Repository
	donors   DonorStore
	stock    Reconciler
	notifier Notifier
	inTx     TxRunner
}

func NewService(repo Repository, donors DonorStore, stock Reconciler, notifier Notifier, inTx TxRunner) *Service {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{repo: repo, donors: donors, stock: stock, notifier: notifier, inTx: inTx}
}

// CreateInput carries the booking payload.
type CreateInput struct {
	HospitalID      string    `json:"hospital_id"`
	HospitalName    string    `json:"hospital_name"`
	HospitalAddress string    `json:"hospital_address"`
	HospitalPhone   string    `json:"hospital_phone"`
	BloodGroup      string    `json:"blood_group"`
	AppointmentDate time.Time `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Notes           string    `json:"notes"`
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// cooldownRemaining returns how many days remain before the donor may book
// again, zero when eligible. Elapsed days are floored.
func cooldownRemaining(lastDonation *time.Time, now time.Time) int {
	if lastDonation == nil {
		return 0
	}
	daysSince := int(now.Sub(*lastDonation).Hours() / 24)
	if daysSince >= CooldownDays {
		return 0
	}
	return CooldownDays - daysSince
}

// Create books a donation slot. The donor snapshot is copied from the
// profile as it stands now.
func (s *Service) Create(ctx context.Context, donorID uuid.UUID, in CreateInput) (*Appointment, error) {
	if strings.TrimSpace(in.HospitalName) == "" {
		return nil, apperr.Validation("hospital_name is required")
	}
	if in.BloodGroup == "" {
		return nil, apperr.Validation("blood_group is required")
	}
	if !identity.BloodGroups[in.BloodGroup] {
		return nil, apperr.Validation("invalid blood group: %s", in.BloodGroup)
	}
	if in.AppointmentDate.IsZero() {
		return nil, apperr.Validation("appointment_date is required")
	}
	if strings.TrimSpace(in.AppointmentTime) == "" {
		return nil, apperr.Validation("appointment_time is required")
	}

	donor, err := s.donors.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if dateOnly(in.AppointmentDate).Before(dateOnly(now)) {
		return nil, apperr.Validation("appointment_date cannot be in the past")
	}
	if remaining := cooldownRemaining(donor.LastDonationDate, now); remaining > 0 {
		return nil, apperr.Cooldown(remaining)
	}

	hospitalID := in.HospitalID
	if hospitalID == "" {
		hospitalID = fmt.Sprintf("%s-%d", inventory.Slugify(in.HospitalName), now.UnixMilli())
	}

	a := &Appointment{
		DonorID:         donor.ID,
		DonorName:       donor.Name,
		DonorPhone:      donor.Phone,
		DonorBloodGroup: donor.BloodGroup,
		HospitalID:      hospitalID,
		HospitalName:    strings.TrimSpace(in.HospitalName),
		HospitalAddress: strings.TrimSpace(in.HospitalAddress),
		HospitalPhone:   in.HospitalPhone,
		BloodGroup:      in.BloodGroup,
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
		Status:          StatusScheduled,
		Notes:           in.Notes,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// getOwned loads the appointment and enforces ownership.
func (s *Service) getOwned(ctx context.Context, id, userID uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.DonorID != userID {
		return nil, apperr.Forbidden("you can only modify your own appointments")
	}
	return a, nil
}

// CompleteResult reports what the completion did.
type CompleteResult struct {
	Appointment      *Appointment `json:"appointment"`
	PointsEarned     int          `json:"points_earned"`
	InventoryCreated bool         `json:"inventory_created"`
}

// Complete marks the donation done and applies its side effects: +1 unit at
// the hospital and the donor's cooldown stamp and points. All three writes
// share one transaction.
func (s *Service) Complete(ctx context.Context, id, userID uuid.UUID) (*CompleteResult, error) {
	var result CompleteResult

	err := s.inTx(ctx, func(ctx context.Context) error {
		a, err := s.getOwned(ctx, id, userID)
		if err != nil {
			return err
		}
		if a.Status != StatusScheduled {
			return apperr.State("only scheduled appointments can be completed (current status: %s)", a.Status)
		}

		now := time.Now()
		a.Status = StatusCompleted
		a.CompletedAt = &now
		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}

		// One completed appointment is always one unit.
		_, created, err := s.stock.Reconcile(ctx, a.HospitalName, a.HospitalAddress, a.BloodGroup, 1)
		if err != nil {
			return err
		}

		if err := s.donors.CreditDonation(ctx, a.DonorID, identity.DonationPoints, now); err != nil {
			return err
		}

		result = CompleteResult{Appointment: a, PointsEarned: identity.DonationPoints, InventoryCreated: created}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if donor, err := s.donors.GetByID(ctx, userID); err == nil {
			s.notifier.Notify(donor.Email, "Thank you for donating",
				fmt.Sprintf("Your donation at %s is recorded. You earned %d points.",
					result.Appointment.HospitalName, result.PointsEarned))
		}
	}
	return &result, nil
}

// Cancel aborts a scheduled appointment. No side effects.
func (s *Service) Cancel(ctx context.Context, id, userID uuid.UUID) (*Appointment, error) {
	a, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, apperr.State("only scheduled appointments can be cancelled (current status: %s)", a.Status)
	}
	a.Status = StatusCancelled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateInput carries a partial edit of a scheduled appointment.
type UpdateInput struct {
	AppointmentDate *time.Time `json:"appointment_date"`
	AppointmentTime *string    `json:"appointment_time"`
	Notes           *string    `json:"notes"`
}

func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, in UpdateInput) (*Appointment, error) {
	a, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, apperr.State("only scheduled appointments can be edited (current status: %s)", a.Status)
	}

	if in.AppointmentDate != nil {
		if dateOnly(*in.AppointmentDate).Before(dateOnly(time.Now())) {
			return nil, apperr.Validation("appointment_date cannot be in the past")
		}
		a.AppointmentDate = *in.AppointmentDate
	}
	if in.AppointmentTime != nil {
		if strings.TrimSpace(*in.AppointmentTime) == "" {
			return nil, apperr.Validation("appointment_time cannot be empty")
		}
		a.AppointmentTime = *in.AppointmentTime
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListMine(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDonor(ctx, donorID, limit, offset)
}
