package recorder

import "time"

// ReturnSnapshot is one computed return kept for history.
type ReturnSnapshot struct {
	RecordedAt       time.Time
	SchemeCode       int
	SchemeName       string
	Period           string // "1M", "1Y", ...
	StartDate        string
	EndDate          string
	StartNAV         float64
	EndNAV           float64
	SimpleReturn     float64
	AnnualizedReturn float64
}

// DigestEvent records one run of the watchlist digest.
type DigestEvent struct {
	Schemes   int
	Failures  int
	Delivered bool
	Note      string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordReturn(snap *ReturnSnapshot) error
	RecordDigest(evt *DigestEvent) error
	RecentReturns(code int, limit int) ([]ReturnSnapshot, error)
	Close() error
}
