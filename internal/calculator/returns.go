package calculator

import (
	"math"

	"FundLens/internal/calendar"
	"FundLens/internal/model"
)

// daysPerYear is the Julian year used to turn a day span into years.
const daysPerYear = 365.25

// ComputeReturn computes simple and annualized returns between the NAVs
// nearest to from and to. The resolved dates are reported, not the requested
// ones. Windows shorter than one year report the simple return as the
// annualized one.
func ComputeReturn(series model.PriceSeries, from, to calendar.Date) (*model.ReturnResult, error) {
	const op = "return"

	start, err := Resolve(from, series)
	if err != nil {
		return nil, unavailable(op, "start price", series, from, to, err)
	}
	end, err := Resolve(to, series)
	if err != nil {
		return nil, unavailable(op, "end price", series, from, to, err)
	}
	if start.Price <= 0 {
		return nil, &Error{
			Kind:      KindDivisionHazard,
			Op:        op,
			Field:     "startPrice",
			SeriesLen: len(series),
			From:      start.Date,
			To:        end.Date,
			Msg:       "start NAV must be positive",
		}
	}

	simple := (end.Price - start.Price) / start.Price * 100
	years := float64(start.Date.DaysUntil(end.Date)) / daysPerYear
	annualized := simple
	if years >= 1 {
		annualized = (math.Pow(end.Price/start.Price, 1/years) - 1) * 100
	}
	if !finite(simple, annualized) {
		return nil, &Error{
			Kind:      KindDivisionHazard,
			Op:        op,
			Field:     "endPrice",
			SeriesLen: len(series),
			From:      start.Date,
			To:        end.Date,
			Msg:       "return is not a finite number",
		}
	}

	return &model.ReturnResult{
		StartDate:           start.Date,
		EndDate:             end.Date,
		StartPrice:          start.Price,
		EndPrice:            end.Price,
		SimpleReturnPct:     round(simple, 2),
		AnnualizedReturnPct: round(annualized, 2),
	}, nil
}

func unavailable(op, what string, series model.PriceSeries, from, to calendar.Date, cause error) *Error {
	return &Error{
		Kind:      KindDataUnavailable,
		Op:        op,
		SeriesLen: len(series),
		From:      from,
		To:        to,
		Msg:       "no " + what + " available for this period",
		Err:       cause,
	}
}
