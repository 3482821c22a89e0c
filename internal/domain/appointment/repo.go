package appointment

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists appointments.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
}
