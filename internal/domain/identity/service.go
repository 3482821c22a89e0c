package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bloodlink/bloodlink/internal/platform/apperr"
	"github.com/bloodlink/bloodlink/internal/platform/auth"
)

type Service struct {
	repo    Repository
	authCfg auth.Config
}

func NewService(repo Repository, authCfg auth.Config) *Service {
	return &Service{repo: repo, authCfg: authCfg}
}

// RegisterInput carries the signup payload.
type RegisterInput struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Phone      string     `json:"phone"`
	BloodGroup string     `json:"blood_group"`
	DOB        *time.Time `json:"dob"`
	District   string     `json:"district"`
	Gender     *string    `json:"gender"`
	WeightKg   float64    `json:"weight_kg"`
	Lat        *float64   `json:"lat"`
	Lng        *float64   `json:"lng"`
}

func (in *RegisterInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return apperr.Validation("email is required")
	}
	if len(in.Password) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}
	if !ValidPhone(in.Phone) {
		return apperr.Validation("phone must be a valid Bangladesh mobile number (+8801XXXXXXXXX)")
	}
	if !BloodGroups[in.BloodGroup] {
		return apperr.Validation("invalid blood group: %s", in.BloodGroup)
	}
	if in.WeightKg < MinWeightKg {
		return apperr.Validation("weight must be at least %d kg to donate", MinWeightKg)
	}
	return nil
}

// Register creates a donor account and issues a token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", apperr.Validation("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal("failed to hash password", err)
	}

	u := &User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		BloodGroup:   in.BloodGroup,
		DOB:          in.DOB,
		District:     strings.TrimSpace(in.District),
		Gender:       in.Gender,
		WeightKg:     in.WeightKg,
		IsAvailable:  true,
		Role:         RoleDonor,
		Lat:          DefaultLat,
		Lng:          DefaultLng,
	}
	if in.Lat != nil && in.Lng != nil {
		u.Lat, u.Lng = *in.Lat, *in.Lng
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(s.authCfg, u.ID, u.Role)
	if err != nil {
		return nil, "", apperr.Internal("failed to issue token", err)
	}
	return u, token, nil
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}
	token, err := auth.GenerateToken(s.authCfg, u.ID, u.Role)
	if err != nil {
		return nil, "", apperr.Internal("failed to issue token", err)
	}
	return u, token, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateInput carries a partial profile edit; nil fields are left untouched.
type UpdateInput struct {
	Name       *string    `json:"name"`
	Phone      *string    `json:"phone"`
	BloodGroup *string    `json:"blood_group"`
	DOB        *time.Time `json:"dob"`
	District   *string    `json:"district"`
	Gender     *string    `json:"gender"`
	WeightKg   *float64   `json:"weight_kg"`
	Lat        *float64   `json:"lat"`
	Lng        *float64   `json:"lng"`
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		if !ValidPhone(*in.Phone) {
			return nil, apperr.Validation("phone must be a valid Bangladesh mobile number (+8801XXXXXXXXX)")
		}
		u.Phone = *in.Phone
	}
	if in.BloodGroup != nil {
		if !BloodGroups[*in.BloodGroup] {
			return nil, apperr.Validation("invalid blood group: %s", *in.BloodGroup)
		}
		u.BloodGroup = *in.BloodGroup
	}
	if in.DOB != nil {
		u.DOB = in.DOB
	}
	if in.District != nil {
		u.District = strings.TrimSpace(*in.District)
	}
	if in.Gender != nil {
		u.Gender = in.Gender
	}
	if in.WeightKg != nil {
		if *in.WeightKg < MinWeightKg {
			return nil, apperr.Validation("weight must be at least %d kg to donate", MinWeightKg)
		}
		u.WeightKg = *in.WeightKg
	}
	if in.Lat != nil {
		u.Lat = *in.Lat
	}
	if in.Lng != nil {
		u.Lng = *in.Lng
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return s.repo.SetAvailability(ctx, id, available)
}

func (s *Service) ListDonors(ctx context.Context, filter DonorFilter, limit, offset int) ([]*User, int, error) {
	if filter.BloodGroup != "" && !BloodGroups[filter.BloodGroup] {
		return nil, 0, apperr.Validation("invalid blood group: %s", filter.BloodGroup)
	}
	return s.repo.ListDonors(ctx, filter, limit, offset)
}

// RecordDonation marks a self-reported donation: stamps last_donation_date
// and credits points. Appointment completion credits through the repository
// instead so the write joins the completion transaction.
func (s *Service) RecordDonation(ctx context.Context, id uuid.UUID) (*User, error) {
	if err := s.repo.CreditDonation(ctx, id, DonationPoints, time.Now()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
