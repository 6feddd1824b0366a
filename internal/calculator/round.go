package calculator

import "github.com/shopspring/decimal"

// round rounds half away from zero to the given number of decimal places.
// It is applied once, when a result leaves the package.
func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
