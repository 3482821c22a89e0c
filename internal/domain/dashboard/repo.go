package dashboard

import (
	"context"
	"time"
)

// Repository runs the read-side aggregate queries.
type Repository interface {
	CountDonors(ctx context.Context) (int, error)
	CountOpenRequestsSince(ctx context.Context, since time.Time) (int, error)
	CountFulfilledRequests(ctx context.Context) (int, error)
	MonthlyFulfilledSince(ctx context.Context, since time.Time) ([]MonthCount, error)
	InventoryTotalsByBloodType(ctx context.Context) ([]BloodTypeTotal, error)
}
