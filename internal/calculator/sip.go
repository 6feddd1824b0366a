package calculator

import (
	"math"

	"FundLens/internal/calendar"
	"FundLens/internal/model"
)

// ComputeSip replays one contribution of monthlyAmount on the first day of
// every calendar month touched by [from, to], buying units at the nearest
// NAV, and values the units at the NAV nearest to `to`.
//
// Annualization is CAGR over whole elapsed years. It is an approximation for
// periodic cash flows, not a money-weighted (XIRR) return.
func ComputeSip(series model.PriceSeries, monthlyAmount float64, from, to calendar.Date) (*model.SipResult, error) {
	const op = "sip"

	if len(series) == 0 {
		_, err := Resolve(from, series)
		return nil, unavailable(op, "price", series, from, to, err)
	}
	if !positive(monthlyAmount) {
		return nil, invalidInput(op, "monthlyAmount", monthlyAmount)
	}
	if to.Before(from) {
		return nil, &Error{
			Kind:  KindInvalidInput,
			Op:    op,
			Field: "to",
			From:  from,
			To:    to,
			Msg:   "end date is before start date",
		}
	}

	var units float64
	contributions := 0
	for _, d := range calendar.MonthStarts(from, to) {
		obs, err := Resolve(d, series)
		if err != nil {
			continue
		}
		if obs.Price <= 0 {
			return nil, &Error{
				Kind:      KindDivisionHazard,
				Op:        op,
				Field:     "price",
				SeriesLen: len(series),
				From:      obs.Date,
				To:        obs.Date,
				Msg:       "NAV used for a contribution must be positive",
			}
		}
		units += monthlyAmount / obs.Price
		contributions++
	}
	if contributions == 0 {
		return nil, unavailable(op, "contribution price", series, from, to, nil)
	}
	invested := monthlyAmount * float64(contributions)

	current := units * valuationPrice(series, to)
	absolute := (current - invested) / invested * 100
	annualized := absolute
	if years := calendar.YearsBetween(from, to); years > 0 {
		annualized = (math.Pow(current/invested, 1/float64(years)) - 1) * 100
	}
	if !finite(current, absolute, annualized) {
		return nil, &Error{
			Kind:      KindDivisionHazard,
			Op:        op,
			Field:     "currentValue",
			SeriesLen: len(series),
			From:      from,
			To:        to,
			Msg:       "SIP value is not a finite number",
		}
	}

	return &model.SipResult{
		TotalInvested:       round(invested, 2),
		CurrentValue:        round(current, 2),
		TotalUnits:          round(units, 4),
		AbsoluteReturnPct:   round(absolute, 2),
		AnnualizedReturnPct: round(annualized, 2),
	}, nil
}

// valuationPrice is the NAV nearest to `to`. If that cannot be resolved it
// falls back to the first observation in series order, which is whatever the
// source listed first and not necessarily adjacent to the valuation date.
func valuationPrice(series model.PriceSeries, to calendar.Date) float64 {
	obs, err := Resolve(to, series)
	if err != nil {
		return series[0].Price
	}
	return obs.Price
}
