package bloodrequest

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists blood requests.
type Repository interface {
	Create(ctx context.Context, r *BloodRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*BloodRequest, error)
	Update(ctx context.Context, r *BloodRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*BloodRequest, int, error)
}
