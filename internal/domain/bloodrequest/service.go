package bloodrequest

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/identity"
	"github.com/bloodlink/bloodlink/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the request payload.
type CreateInput struct {
	HospitalName         string  `json:"hospital_name"`
	BloodGroup           string  `json:"blood_group"`
	UnitsNeeded          int     `json:"units_needed"`
	Urgency              string  `json:"urgency"`
	Lat                  float64 `json:"lat"`
	Lng                  float64 `json:"lng"`
	Address              string  `json:"address"`
	ContactPhone         string  `json:"contact_phone"`
	PatientName          string  `json:"patient_name"`
	Relationship         string  `json:"relationship"`
	IsThalassemiaPatient bool    `json:"is_thalassemia_patient"`
}

// Create opens a request. requesterID may be uuid.Nil: anonymous requests
// are stored with a null requested_by.
func (s *Service) Create(ctx context.Context, requesterID uuid.UUID, in CreateInput) (*BloodRequest, error) {
	if strings.TrimSpace(in.HospitalName) == "" {
		return nil, apperr.Validation("hospital_name is required")
	}
	if !identity.BloodGroups[in.BloodGroup] {
		return nil, apperr.Validation("invalid blood group: %s", in.BloodGroup)
	}
	if in.UnitsNeeded < 1 {
		return nil, apperr.Validation("units_needed must be at least 1")
	}
	if in.Urgency == "" {
		in.Urgency = UrgencyNormal
	}
	if !Urgencies[in.Urgency] {
		return nil, apperr.Validation("invalid urgency: %s", in.Urgency)
	}

	br := &BloodRequest{
		HospitalName:         strings.TrimSpace(in.HospitalName),
		BloodGroup:           in.BloodGroup,
		UnitsNeeded:          in.UnitsNeeded,
		Urgency:              in.Urgency,
		Lat:                  in.Lat,
		Lng:                  in.Lng,
		Address:              in.Address,
		ContactPhone:         in.ContactPhone,
		Status:               StatusOpen,
		PatientName:          in.PatientName,
		Relationship:         in.Relationship,
		IsThalassemiaPatient: in.IsThalassemiaPatient,
	}
	if requesterID != uuid.Nil {
		br.RequestedBy = &requesterID
	}

	if err := s.repo.Create(ctx, br); err != nil {
		return nil, err
	}
	return br, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*BloodRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*BloodRequest, int, error) {
	if filter.Status != "" && filter.Status != StatusOpen && filter.Status != StatusFulfilled && filter.Status != StatusCancelled {
		return nil, 0, apperr.Validation("invalid status: %s", filter.Status)
	}
	if filter.Urgency != "" && !Urgencies[filter.Urgency] {
		return nil, 0, apperr.Validation("invalid urgency: %s", filter.Urgency)
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// Accept fulfills an open request on behalf of a donor.
func (s *Service) Accept(ctx context.Context, id, userID uuid.UUID) (*BloodRequest, error) {
	br, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if br.Status != StatusOpen {
		return nil, apperr.State("only open requests can be accepted (current status: %s)", br.Status)
	}
	br.Status = StatusFulfilled
	br.FulfilledBy = &userID
	if err := s.repo.Update(ctx, br); err != nil {
		return nil, err
	}
	return br, nil
}

// checkOwnership applies the ownership rule: a request with a recorded
// requester may only be touched by that requester. Anonymous requests carry
// no owner, so any authenticated caller passes.
func checkOwnership(br *BloodRequest, userID uuid.UUID) error {
	if br.RequestedBy != nil && *br.RequestedBy != userID {
		return apperr.Forbidden("you can only modify your own requests")
	}
	return nil
}

// UpdateInput carries a partial edit. Status may only move OPEN→CANCELLED.
type UpdateInput struct {
	UnitsNeeded  *int    `json:"units_needed"`
	Urgency      *string `json:"urgency"`
	Address      *string `json:"address"`
	ContactPhone *string `json:"contact_phone"`
	PatientName  *string `json:"patient_name"`
	Status       *string `json:"status"`
}

func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, in UpdateInput) (*BloodRequest, error) {
	br, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(br, userID); err != nil {
		return nil, err
	}
	if br.Status != StatusOpen {
		return nil, apperr.State("only open requests can be edited (current status: %s)", br.Status)
	}

	if in.UnitsNeeded != nil {
		if *in.UnitsNeeded < 1 {
			return nil, apperr.Validation("units_needed must be at least 1")
		}
		br.UnitsNeeded = *in.UnitsNeeded
	}
	if in.Urgency != nil {
		if !Urgencies[*in.Urgency] {
			return nil, apperr.Validation("invalid urgency: %s", *in.Urgency)
		}
		br.Urgency = *in.Urgency
	}
	if in.Address != nil {
		br.Address = *in.Address
	}
	if in.ContactPhone != nil {
		br.ContactPhone = *in.ContactPhone
	}
	if in.PatientName != nil {
		br.PatientName = *in.PatientName
	}
	if in.Status != nil {
		if *in.Status != StatusCancelled {
			return nil, apperr.Validation("status can only be set to CANCELLED")
		}
		br.Status = StatusCancelled
	}

	if err := s.repo.Update(ctx, br); err != nil {
		return nil, err
	}
	return br, nil
}

func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	br, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwnership(br, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
