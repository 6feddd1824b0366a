package model

import "FundLens/internal/calendar"

// PriceObservation is one recorded NAV of a fund unit.
type PriceObservation struct {
	Date  calendar.Date `json:"date"`
	Price float64       `json:"price"`
}

// PriceSeries holds the NAV history of one scheme in the order the source
// provided it. It is not required to be sorted or date-unique.
type PriceSeries []PriceObservation
