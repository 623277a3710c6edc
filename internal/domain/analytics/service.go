package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medscheme/medscheme/internal/platform/events"
	"github.com/medscheme/medscheme/pkg/money"
)

// trendMonths bounds the enrollment trend window.
const trendMonths = 12

// Service computes dashboard statistics. Results are cached in-process and
// the cache is dropped whenever a mutation event arrives on the bus, so a
// re-fetch after any write always sees fresh numbers.
type Service struct {
	repo StatsRepository
	now  func() time.Time

	mu     sync.Mutex
	cached *Statistics
}

func NewService(repo StatsRepository, bus *events.Bus) *Service {
	s := &Service{repo: repo, now: time.Now}
	if bus != nil {
		bus.Subscribe(events.SubscriberFunc(func(events.Event) {
			s.invalidate()
		}), events.TopicScheme, events.TopicSchemeItem, events.TopicMember)
	}
	return s
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Statistics returns the cached dashboard payload, computing it on a miss.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	s.mu.Lock()
	if s.cached != nil {
		cp := *s.cached
		s.mu.Unlock()
		return &cp, nil
	}
	s.mu.Unlock()

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = stats
	s.mu.Unlock()
	cp := *stats
	return &cp, nil
}

func (s *Service) compute(ctx context.Context) (*Statistics, error) {
	counts, err := s.repo.SchemeCounts(ctx)
	if err != nil {
		return nil, err
	}
	coverage, covered, err := s.repo.CoverageTotals(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := s.repo.TotalClaimAmount(ctx)
	if err != nil {
		return nil, err
	}
	trend, err := s.repo.EnrollmentTrend(ctx, trendMonths)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.repo.ClaimBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	for i := range breakdown {
		breakdown[i].AmountDisplay = money.FormatUGX(breakdown[i].Amount)
	}

	average := decimal.Zero
	if covered > 0 {
		average = coverage.Div(decimal.NewFromInt(int64(covered)))
	}

	stats := &Statistics{
		Schemes:                 counts,
		TotalCoverage:           coverage,
		TotalCoverageDisplay:    money.FormatUGX(coverage),
		AverageCoverage:         average,
		AverageCoverageDisplay:  money.FormatUGX(average),
		TotalClaimAmount:        claims,
		TotalClaimAmountDisplay: money.FormatUGX(claims),
		ActiveRate: money.FormatPercent(
			decimal.NewFromInt(int64(counts.Active)),
			decimal.NewFromInt(int64(counts.Total))),
		Utilization:     money.FormatPercent(claims, coverage),
		EnrollmentTrend: trend,
		ClaimBreakdown:  breakdown,
		GeneratedAt:     s.now().UTC(),
	}
	return stats, nil
}
