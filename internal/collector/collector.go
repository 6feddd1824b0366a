package collector

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"FundLens/internal/calendar"
	"FundLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Schemes []model.Scheme
	Details map[int]*model.SchemeDetails
	Err     error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSchemes(_ context.Context) ([]model.Scheme, error) {
	m.count()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Schemes, nil
}

func (m *MockFetcher) FetchScheme(_ context.Context, code int) (*model.SchemeDetails, error) {
	m.count()
	if m.Err != nil {
		return nil, m.Err
	}
	if d, ok := m.Details[code]; ok {
		return d, nil
	}
	return &model.SchemeDetails{Status: "SUCCESS"}, nil
}

// Calls returns how many fetches reached the mock.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) count() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

// Collector turns upstream scheme payloads into price series.
type Collector struct {
	Fetcher Fetcher
	log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, log: log.With().Str("component", "collector").Logger()}
}

// Schemes returns the scheme directory.
func (c *Collector) Schemes(ctx context.Context) ([]model.Scheme, error) {
	return c.Fetcher.FetchSchemes(ctx)
}

// Scheme returns the raw upstream payload for code.
func (c *Collector) Scheme(ctx context.Context, code int) (*model.SchemeDetails, error) {
	return c.Fetcher.FetchScheme(ctx, code)
}

// Series fetches a scheme and converts its NAV history, keeping source order.
func (c *Collector) Series(ctx context.Context, code int) (*model.SchemeDetails, model.PriceSeries, error) {
	details, err := c.Fetcher.FetchScheme(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	series, skipped := ToSeries(details.Data)
	if skipped > 0 {
		c.log.Warn().Int("code", code).Int("skipped", skipped).Int("kept", len(series)).
			Msg("dropped malformed or non-positive NAV points")
	}
	return details, series, nil
}

// ToSeries parses raw NAV points. Points with an unreadable date or a
// non-positive NAV are skipped and counted.
func ToSeries(points []model.NavPoint) (model.PriceSeries, int) {
	series := make(model.PriceSeries, 0, len(points))
	skipped := 0
	for _, p := range points {
		date, err := calendar.Parse(p.Date)
		if err != nil {
			skipped++
			continue
		}
		nav, err := decimal.NewFromString(p.Nav)
		if err != nil || !nav.IsPositive() {
			skipped++
			continue
		}
		series = append(series, model.PriceObservation{Date: date, Price: nav.InexactFloat64()})
	}
	return series, skipped
}
