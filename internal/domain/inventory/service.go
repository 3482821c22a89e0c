package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/platform/apperr"
)

var bloodTypes = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, inv *BloodInventory) error {
	if strings.TrimSpace(inv.HospitalName) == "" {
		return apperr.Validation("hospital_name is required")
	}
	if !bloodTypes[inv.BloodType] {
		return apperr.Validation("invalid blood type: %s", inv.BloodType)
	}
	if inv.Quantity < 0 {
		return apperr.Validation("quantity cannot be negative")
	}
	if inv.HospitalType == "" {
		inv.HospitalType = TypeGovernment
	}
	if !HospitalTypes[inv.HospitalType] {
		return apperr.Validation("invalid hospital type: %s", inv.HospitalType)
	}
	if inv.ExpiryDate.IsZero() {
		inv.ExpiryDate = time.Now().Add(fabricatedShelfLife)
	}
	return s.repo.Create(ctx, inv)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*BloodInventory, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateInput carries a partial inventory edit.
type UpdateInput struct {
	Quantity   *int       `json:"quantity"`
	ExpiryDate *time.Time `json:"expiry_date"`
	Phone      *string    `json:"phone"`
	Email      *string    `json:"email"`
	Is247      *bool      `json:"is_247"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*BloodInventory, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, apperr.Validation("quantity cannot be negative")
		}
		inv.Quantity = *in.Quantity
	}
	if in.ExpiryDate != nil {
		inv.ExpiryDate = *in.ExpiryDate
	}
	if in.Phone != nil {
		inv.Phone = *in.Phone
	}
	if in.Email != nil {
		inv.Email = *in.Email
	}
	if in.Is247 != nil {
		inv.Is247 = *in.Is247
	}
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*BloodInventory, int, error) {
	if filter.BloodType != "" && !bloodTypes[filter.BloodType] {
		return nil, 0, apperr.Validation("invalid blood type: %s", filter.BloodType)
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// GroupedByHospital folds all rows into one entry per hospital name with the
// per-type stock nested under it.
func (s *Service) GroupedByHospital(ctx context.Context) ([]*HospitalStock, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*HospitalStock)
	var ordered []*HospitalStock
	for _, inv := range rows {
		hs, ok := byName[inv.HospitalName]
		if !ok {
			hs = &HospitalStock{
				HospitalName: inv.HospitalName,
				HospitalType: inv.HospitalType,
				City:         inv.City,
				Division:     inv.Division,
				Phone:        inv.Phone,
				Is247:        inv.Is247,
			}
			byName[inv.HospitalName] = hs
			ordered = append(ordered, hs)
		}
		hs.TotalUnits += inv.Quantity
		hs.Stock = append(hs.Stock, inv)
	}
	return ordered, nil
}

// Reconcile finds or materializes the (hospitalName, bloodType) row and
// applies the unit delta. The fallback chain never fails a completed
// donation over missing hospital metadata:
//
//  1. exact (hospital_name, blood_type) match: increment in place;
//  2. any row for the same hospital: copy its shared metadata into a new row;
//  3. nothing at all: fabricate metadata from the appointment's address.
//
// Returns the resulting row and whether it was created.
func (s *Service) Reconcile(ctx context.Context, hospitalName, address, bloodType string, delta int) (*BloodInventory, bool, error) {
	existing, err := s.repo.FindByHospitalAndType(ctx, hospitalName, bloodType)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		existing.Quantity += delta
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	inv := &BloodInventory{
		HospitalName: hospitalName,
		BloodType:    bloodType,
		Quantity:     1,
		ExpiryDate:   time.Now().Add(fabricatedShelfLife),
	}

	sibling, err := s.repo.FindAnyByHospital(ctx, hospitalName)
	if err != nil {
		return nil, false, err
	}
	if sibling != nil {
		inv.HospitalType = sibling.HospitalType
		inv.City = sibling.City
		inv.Division = sibling.Division
		inv.Phone = sibling.Phone
		inv.Email = sibling.Email
		inv.Is247 = sibling.Is247
	} else {
		inv.HospitalType = TypeGovernment
		inv.City, inv.Division = ParseCityDivision(address)
		inv.Email = "contact@" + Slugify(hospitalName) + ".com"
		inv.Is247 = false
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, false, err
	}
	return inv, true, nil
}
