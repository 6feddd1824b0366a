package collector

import (
	"context"
	"strconv"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"FundLens/internal/model"
)

const schemesKey = "schemes"

// CacheConfig controls how long upstream answers are reused.
type CacheConfig struct {
	SchemesTTL time.Duration // scheme directory
	SchemeTTL  time.Duration // per-scheme details and NAV history
	MaxEntries int64
}

// DefaultCacheConfig mirrors the upstream refresh cadence: the directory
// daily, NAV histories twice a day.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		SchemesTTL: 24 * time.Hour,
		SchemeTTL:  12 * time.Hour,
		MaxEntries: 512,
	}
}

// CachingFetcher decorates a Fetcher with TTL caches.
type CachingFetcher struct {
	next    Fetcher
	cfg     CacheConfig
	log     zerolog.Logger
	schemes *ristretto.Cache[string, []model.Scheme]
	details *ristretto.Cache[string, *model.SchemeDetails]
}

// NewCachingFetcher wraps next. Zero fields in cfg take their defaults.
func NewCachingFetcher(next Fetcher, cfg CacheConfig, log zerolog.Logger) (*CachingFetcher, error) {
	def := DefaultCacheConfig()
	if cfg.SchemesTTL <= 0 {
		cfg.SchemesTTL = def.SchemesTTL
	}
	if cfg.SchemeTTL <= 0 {
		cfg.SchemeTTL = def.SchemeTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = def.MaxEntries
	}

	schemes, err := ristretto.NewCache(&ristretto.Config[string, []model.Scheme]{
		NumCounters:        10,
		MaxCost:            1,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create scheme directory cache")
	}
	details, err := ristretto.NewCache(&ristretto.Config[string, *model.SchemeDetails]{
		NumCounters:        cfg.MaxEntries * 10,
		MaxCost:            cfg.MaxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		schemes.Close()
		return nil, errors.Wrap(err, "create scheme details cache")
	}

	return &CachingFetcher{
		next:    next,
		cfg:     cfg,
		log:     log.With().Str("component", "cache").Logger(),
		schemes: schemes,
		details: details,
	}, nil
}

func (c *CachingFetcher) Name() string { return c.next.Name() + "+cache" }

// FetchSchemes returns the cached directory or refreshes it.
func (c *CachingFetcher) FetchSchemes(ctx context.Context) ([]model.Scheme, error) {
	if v, ok := c.schemes.Get(schemesKey); ok {
		return v, nil
	}
	v, err := c.next.FetchSchemes(ctx)
	if err != nil {
		return nil, err
	}
	c.schemes.SetWithTTL(schemesKey, v, 1, c.cfg.SchemesTTL)
	c.schemes.Wait()
	c.log.Debug().Int("schemes", len(v)).Dur("ttl", c.cfg.SchemesTTL).Msg("scheme directory cached")
	return v, nil
}

// FetchScheme returns cached details for code or refreshes them.
func (c *CachingFetcher) FetchScheme(ctx context.Context, code int) (*model.SchemeDetails, error) {
	key := strconv.Itoa(code)
	if v, ok := c.details.Get(key); ok {
		return v, nil
	}
	v, err := c.next.FetchScheme(ctx, code)
	if err != nil {
		return nil, err
	}
	c.details.SetWithTTL(key, v, 1, c.cfg.SchemeTTL)
	c.details.Wait()
	c.log.Debug().Int("code", code).Int("points", len(v.Data)).Msg("scheme cached")
	return v, nil
}

// Invalidate drops every cached entry.
func (c *CachingFetcher) Invalidate() {
	c.schemes.Clear()
	c.details.Clear()
}

// Close releases the caches' background goroutines.
func (c *CachingFetcher) Close() {
	c.schemes.Close()
	c.details.Close()
}
