// Package explorer resolves request parameters into calculator calls over
// scheme NAV histories.
package explorer

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"FundLens/internal/calculator"
	"FundLens/internal/calendar"
	"FundLens/internal/collector"
	"FundLens/internal/model"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// ReturnsQuery selects a returns window either by period or by explicit dates.
// Period wins when both are set. An empty To means today.
type ReturnsQuery struct {
	Period string
	From   string
	To     string
}

// SchemePage is one page of the filtered scheme directory.
type SchemePage struct {
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Schemes  []model.Scheme `json:"schemes"`
}

// Service answers scheme, returns and SIP queries.
type Service struct {
	collector *collector.Collector
	today     func() calendar.Date
	log       zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides how "today" is determined.
func WithClock(today func() calendar.Date) Option {
	return func(s *Service) { s.today = today }
}

// NewService creates a Service reading NAV data through col.
func NewService(col *collector.Collector, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		collector: col,
		today:     calendar.Today,
		log:       log.With().Str("component", "explorer").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the service's notion of the current date.
func (s *Service) Today() calendar.Date { return s.today() }

// SearchSchemes filters the directory by a case-insensitive name substring
// and returns the requested page. Pages start at 1.
func (s *Service) SearchSchemes(ctx context.Context, query string, page, pageSize int) (*SchemePage, error) {
	all, err := s.collector.Schemes(ctx)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matched := all
	if needle != "" {
		matched = make([]model.Scheme, 0)
		for _, sc := range all {
			if strings.Contains(strings.ToLower(sc.SchemeName), needle) {
				matched = append(matched, sc)
			}
		}
	}

	out := &SchemePage{Total: len(matched), Page: page, PageSize: pageSize, Schemes: []model.Scheme{}}
	start := (page - 1) * pageSize
	if start < len(matched) {
		end := start + pageSize
		if end > len(matched) {
			end = len(matched)
		}
		out.Schemes = matched[start:end]
	}
	return out, nil
}

// Scheme returns the upstream details of one scheme.
func (s *Service) Scheme(ctx context.Context, code int) (*model.SchemeDetails, error) {
	return s.collector.Scheme(ctx, code)
}

// Returns computes the point-to-point return for a scheme.
func (s *Service) Returns(ctx context.Context, code int, q ReturnsQuery) (*model.ReturnResult, error) {
	from, to, err := s.window(q)
	if err != nil {
		return nil, err
	}
	_, series, err := s.collector.Series(ctx, code)
	if err != nil {
		return nil, err
	}
	return calculator.ComputeReturn(series, from, to)
}

// ReturnsSummary reports the annualized return (simple below one year) for
// every summary period the history can serve, keyed by period label.
func (s *Service) ReturnsSummary(ctx context.Context, code int) (map[string]float64, error) {
	_, series, err := s.collector.Series(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		_, err := calculator.ComputeReturn(series, s.today(), s.today())
		return nil, err
	}

	today := s.today()
	out := make(map[string]float64, len(SummaryPeriods))
	for _, p := range SummaryPeriods {
		res, err := calculator.ComputeReturn(series, p.From(today), today)
		if err != nil {
			s.log.Debug().Err(err).Int("code", code).Str("period", string(p)).Msg("period skipped")
			continue
		}
		out[p.Label()] = res.AnnualizedReturnPct
	}
	return out, nil
}

// HistoricalSip replays a monthly SIP over the scheme's real NAV history.
func (s *Service) HistoricalSip(ctx context.Context, code int, amount float64, from, to string) (*model.SipResult, error) {
	fromDate, toDate, err := s.window(ReturnsQuery{From: from, To: to})
	if err != nil {
		return nil, err
	}
	_, series, err := s.collector.Series(ctx, code)
	if err != nil {
		return nil, err
	}
	return calculator.ComputeSip(series, amount, fromDate, toDate)
}

// EstimateSip projects a SIP at a constant annual rate; no NAV data is used.
func (s *Service) EstimateSip(amount, years, ratePct float64) (*model.FixedRateSipResult, error) {
	return calculator.EstimateFixedRateSip(amount, years, ratePct)
}

// Range reports NAV extremes for a scheme over a window.
func (s *Service) Range(ctx context.Context, code int, q ReturnsQuery) (*model.NavRange, error) {
	from, to, err := s.window(q)
	if err != nil {
		return nil, err
	}
	_, series, err := s.collector.Series(ctx, code)
	if err != nil {
		return nil, err
	}
	return calculator.RangeBetween(series, from, to)
}

func (s *Service) window(q ReturnsQuery) (from, to calendar.Date, err error) {
	to = s.today()
	if q.To != "" {
		if to, err = parseField("to", q.To); err != nil {
			return from, to, err
		}
	}
	switch {
	case q.Period != "":
		p, err := ParsePeriod(q.Period)
		if err != nil {
			return from, to, err
		}
		from = p.From(s.today())
	case q.From != "":
		if from, err = parseField("from", q.From); err != nil {
			return from, to, err
		}
	default:
		return from, to, &calculator.Error{
			Kind:  calculator.KindInvalidInput,
			Op:    "window",
			Field: "period",
			Msg:   "either period or from is required",
		}
	}
	return from, to, nil
}

func parseField(field, value string) (calendar.Date, error) {
	d, err := calendar.Parse(value)
	if err != nil {
		return d, &calculator.Error{
			Kind:  calculator.KindInvalidInput,
			Op:    "window",
			Field: field,
			Msg:   err.Error(),
		}
	}
	return d, nil
}
