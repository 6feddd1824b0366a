package calculator

import (
	"errors"

	"FundLens/internal/calendar"
	"FundLens/internal/model"
)

// RangeBetween scans the observations dated within [from, to] and returns the
// NAV high, low and latest value. Ties keep the first observation in series order.
func RangeBetween(series model.PriceSeries, from, to calendar.Date) (*model.NavRange, error) {
	const op = "range"

	if to.Before(from) {
		return nil, &Error{Kind: KindInvalidInput, Op: op, Field: "to", From: from, To: to, Msg: "end date is before start date"}
	}

	r := &model.NavRange{From: from, To: to}
	for _, obs := range series {
		if obs.Date.Before(from) || obs.Date.After(to) {
			continue
		}
		if r.Points == 0 {
			r.High, r.HighDate = obs.Price, obs.Date
			r.Low, r.LowDate = obs.Price, obs.Date
			r.Latest, r.LatestDate = obs.Price, obs.Date
		}
		if obs.Price > r.High {
			r.High, r.HighDate = obs.Price, obs.Date
		}
		if obs.Price < r.Low {
			r.Low, r.LowDate = obs.Price, obs.Date
		}
		if obs.Date.After(r.LatestDate) {
			r.Latest, r.LatestDate = obs.Price, obs.Date
		}
		r.Points++
	}
	if r.Points == 0 {
		return nil, &Error{
			Kind:      KindDataUnavailable,
			Op:        op,
			SeriesLen: len(series),
			From:      from,
			To:        to,
			Msg:       "no NAV recorded in this period",
		}
	}

	pos, err := Position(r.Latest, r.High, r.Low)
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Op: op, Msg: err.Error()}
	}
	r.Position = round(pos, 4)
	return r, nil
}

// Position returns where current sits within [low, high] (0.0~1.0).
func Position(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
