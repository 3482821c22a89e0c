package dashboard

import (
	"context"
	"time"
)

const (
	recentRequestWindow = 7 * 24 * time.Hour
	trendMonths         = 6
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	donors, err := s.repo.CountDonors(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.CountOpenRequestsSince(ctx, s.now().Add(-recentRequestWindow))
	if err != nil {
		return nil, err
	}
	fulfilled, err := s.repo.CountFulfilledRequests(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalDonors:         donors,
		RecentRequestsCount: recent,
		LivesSaved:          fulfilled * LivesPerFulfilledRequest,
	}, nil
}

// Trends returns the trailing six calendar months of fulfilled requests,
// oldest first. Every month appears even when its count is zero.
func (s *Service) Trends(ctx context.Context) (*Trends, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(trendMonths - 1), 0)

	raw, err := s.repo.MonthlyFulfilledSince(ctx, start)
	if err != nil {
		return nil, err
	}
	counts := make(map[[2]int]int, len(raw))
	for _, mc := range raw {
		counts[[2]int{mc.Year, mc.Month}] = mc.Count
	}

	t := &Trends{Months: make([]MonthCount, 0, trendMonths)}
	for i := 0; i < trendMonths; i++ {
		m := start.AddDate(0, i, 0)
		count := counts[[2]int{m.Year(), int(m.Month())}]
		t.Months = append(t.Months, MonthCount{Year: m.Year(), Month: int(m.Month()), Count: count})
		if count > 0 {
			t.HasData = true
		}
	}
	return t, nil
}

func (s *Service) InventorySummary(ctx context.Context) ([]BloodTypeTotal, error) {
	totals, err := s.repo.InventoryTotalsByBloodType(ctx)
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []BloodTypeTotal{}
	}
	return totals, nil
}
