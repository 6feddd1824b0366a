package model

import "FundLens/internal/calendar"

// ReturnResult is a point-to-point return between two resolved NAV dates.
type ReturnResult struct {
	StartDate           calendar.Date `json:"startDate"`
	EndDate             calendar.Date `json:"endDate"`
	StartPrice          float64       `json:"startNAV"`
	EndPrice            float64       `json:"endNAV"`
	SimpleReturnPct     float64       `json:"simpleReturn"`
	AnnualizedReturnPct float64       `json:"annualizedReturn"`
}

// SipResult is the outcome of monthly contributions replayed over real NAVs.
type SipResult struct {
	TotalInvested       float64 `json:"totalInvested"`
	CurrentValue        float64 `json:"currentValue"`
	TotalUnits          float64 `json:"totalUnits"`
	AbsoluteReturnPct   float64 `json:"absoluteReturn"`
	AnnualizedReturnPct float64 `json:"annualizedReturn"`
}

// FixedRateSipResult is a what-if projection under a constant annual rate.
type FixedRateSipResult struct {
	TotalInvestment  float64 `json:"totalInvestment"`
	EstimatedReturns float64 `json:"estimatedReturns"`
	FutureValue      float64 `json:"futureValue"`
}

// NavRange summarizes the NAV extremes inside a date window.
type NavRange struct {
	From       calendar.Date `json:"from"`
	To         calendar.Date `json:"to"`
	High       float64       `json:"high"`
	HighDate   calendar.Date `json:"highDate"`
	Low        float64       `json:"low"`
	LowDate    calendar.Date `json:"lowDate"`
	Latest     float64       `json:"latest"`
	LatestDate calendar.Date `json:"latestDate"`
	Position   float64       `json:"position"` // 0.0 ~ 1.0
	Points     int           `json:"points"`
}
