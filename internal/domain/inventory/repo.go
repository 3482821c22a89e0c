package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists inventory rows. Create and Update apply the
// status-derivation invariant before writing. The two Find methods return
// (nil, nil) when no row matches so the reconciliation fallback chain can
// distinguish "absent" from a real failure.
type Repository interface {
	Create(ctx context.Context, inv *BloodInventory) error
	GetByID(ctx context.Context, id uuid.UUID) (*BloodInventory, error)
	Update(ctx context.Context, inv *BloodInventory) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*BloodInventory, int, error)
	ListAll(ctx context.Context) ([]*BloodInventory, error)
	FindByHospitalAndType(ctx context.Context, hospitalName, bloodType string) (*BloodInventory, error)
	FindAnyByHospital(ctx context.Context, hospitalName string) (*BloodInventory, error)
}
