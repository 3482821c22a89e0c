package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	// CreditDonation atomically sets last_donation_date and increments points.
	CreditDonation(ctx context.Context, id uuid.UUID, points int, donatedAt time.Time) error
	ListDonors(ctx context.Context, filter DonorFilter, limit, offset int) ([]*User, int, error)
	CountDonors(ctx context.Context) (int, error)
}
