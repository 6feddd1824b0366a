package explorer

import (
	"strings"

	"FundLens/internal/calculator"
	"FundLens/internal/calendar"
)

// Period is a shorthand look-back window ending today.
type Period string

const (
	Period1M Period = "1m"
	Period3M Period = "3m"
	Period6M Period = "6m"
	Period1Y Period = "1y"
	Period3Y Period = "3y"
	Period5Y Period = "5y"
)

// SummaryPeriods are the windows reported by the returns summary, shortest first.
var SummaryPeriods = []Period{Period1M, Period3M, Period6M, Period1Y, Period3Y, Period5Y}

var periodMonths = map[Period]int{
	Period1M: 1,
	Period3M: 3,
	Period6M: 6,
	Period1Y: 12,
	Period3Y: 36,
	Period5Y: 60,
}

// ParsePeriod accepts tokens such as "1m" or "1Y".
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := periodMonths[p]; !ok {
		return "", &calculator.Error{
			Kind:  calculator.KindInvalidInput,
			Op:    "period",
			Field: "period",
			Msg:   "unknown period " + s + ", want one of 1m, 3m, 6m, 1y, 3y, 5y",
		}
	}
	return p, nil
}

// From returns the first day of the window ending on today.
func (p Period) From(today calendar.Date) calendar.Date {
	return today.AddMonths(-periodMonths[p])
}

// Label is the display key used in summaries, e.g. "1M".
func (p Period) Label() string {
	return strings.ToUpper(string(p))
}
