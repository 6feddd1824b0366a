package calculator

import (
	"FundLens/internal/calendar"
	"FundLens/internal/model"
)

// Resolve returns the observation whose date is closest to target. On equal
// distance the earliest element in series order wins. There is no distance
// cap: callers that care about staleness must compare the returned date
// with target themselves.
func Resolve(target calendar.Date, series model.PriceSeries) (model.PriceObservation, error) {
	if len(series) == 0 {
		return model.PriceObservation{}, &Error{
			Kind: KindNotFound,
			Op:   "resolve",
			From: target,
			To:   target,
			Msg:  "price series is empty",
		}
	}
	best := 0
	bestDist := calendar.AbsDays(target, series[0].Date)
	for i := 1; i < len(series); i++ {
		if d := calendar.AbsDays(target, series[i].Date); d < bestDist {
			best, bestDist = i, d
		}
	}
	return series[best], nil
}
