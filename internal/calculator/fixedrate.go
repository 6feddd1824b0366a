package calculator

import (
	"math"

	"FundLens/internal/model"
)

// EstimateFixedRateSip projects monthly contributions under a constant
// annual rate using the future value of an annuity due. All outputs are
// rounded to whole currency units.
func EstimateFixedRateSip(monthlyAmount, years, annualRatePct float64) (*model.FixedRateSipResult, error) {
	const op = "fixed-rate sip"

	if !positive(monthlyAmount) {
		return nil, invalidInput(op, "amount", monthlyAmount)
	}
	if !positive(years) {
		return nil, invalidInput(op, "period", years)
	}
	if !positive(annualRatePct) {
		return nil, invalidInput(op, "rate", annualRatePct)
	}

	monthlyRate := annualRatePct / 12 / 100
	months := years * 12
	futureValue := monthlyAmount * (math.Pow(1+monthlyRate, months) - 1) / monthlyRate * (1 + monthlyRate)
	totalInvestment := monthlyAmount * months
	estimatedReturns := futureValue - totalInvestment
	if !finite(futureValue, estimatedReturns) {
		return nil, &Error{
			Kind:  KindDivisionHazard,
			Op:    op,
			Field: "futureValue",
			Msg:   "projection overflowed",
		}
	}

	return &model.FixedRateSipResult{
		TotalInvestment:  round(totalInvestment, 0),
		EstimatedReturns: round(estimatedReturns, 0),
		FutureValue:      round(futureValue, 0),
	}, nil
}
