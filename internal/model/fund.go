package model

// Scheme is one entry of the upstream scheme directory.
type Scheme struct {
	SchemeCode int    `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
}

// SchemeMeta describes a mutual fund scheme.
type SchemeMeta struct {
	FundHouse      string `json:"fund_house"`
	SchemeType     string `json:"scheme_type"`
	SchemeCategory string `json:"scheme_category"`
	SchemeCode     int    `json:"scheme_code"`
	SchemeName     string `json:"scheme_name"`
}

// NavPoint is a raw NAV record exactly as the upstream API reports it.
type NavPoint struct {
	Date string `json:"date"`
	Nav  string `json:"nav"`
}

// SchemeDetails is the upstream payload for a single scheme.
type SchemeDetails struct {
	Meta   SchemeMeta `json:"meta"`
	Data   []NavPoint `json:"data"`
	Status string     `json:"status"`
}
