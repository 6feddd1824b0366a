package collector

import (
	"context"

	"FundLens/internal/model"
)

// Fetcher defines the interface for fetching scheme data from the NAV source.
type Fetcher interface {
	FetchSchemes(ctx context.Context) ([]model.Scheme, error)
	FetchScheme(ctx context.Context, code int) (*model.SchemeDetails, error)
	Name() string
}
