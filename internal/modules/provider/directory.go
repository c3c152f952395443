package provider

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/georgemunganga/printa-console/internal/collection"
)

// Directory is a read-through cache of the full provider list, used to
// resolve product references and fill provider pickers.
//
// Concurrent misses share a single fetch. Invalidate drops the cached list
// and also discards any fetch that was in flight when it was called.
type Directory struct {
	repo   Repository
	limit  int
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	group singleflight.Group

	mu         sync.RWMutex
	providers  []Provider
	loadedAt   time.Time
	loaded     bool
	generation uint64
}

// NewDirectory creates a directory that fetches up to limit providers and
// keeps them for ttl. A zero ttl disables caching.
func NewDirectory(repo Repository, limit int, ttl time.Duration, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{repo: repo, limit: limit, ttl: ttl, now: time.Now, logger: logger}
}

// Providers returns the cached list, fetching it if missing or expired.
func (d *Directory) Providers(ctx context.Context) ([]Provider, error) {
	d.mu.RLock()
	if d.fresh() {
		out := slices.Clone(d.providers)
		d.mu.RUnlock()
		return out, nil
	}
	gen := d.generation
	d.mu.RUnlock()

	// The load is shared by every caller waiting on this key, so one caller
	// going away must not cancel it for the others.
	shared := context.WithoutCancel(ctx)
	v, err, _ := d.group.Do("providers:"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		page, err := d.repo.List(shared, collection.Filters{
			collection.KeyPage:  "1",
			collection.KeyLimit: strconv.Itoa(d.limit),
		})
		if err != nil {
			return nil, err
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.generation == gen {
			d.providers = slices.Clone(page.Items)
			d.loadedAt = d.now()
			d.loaded = true
		}
		d.logger.Debug("provider directory loaded", "count", len(page.Items))
		return page.Items, nil
	})
	if err != nil {
		d.logger.Warn("provider directory unavailable", "error", err)
		return nil, err
	}
	return slices.Clone(v.([]Provider)), nil
}

// Invalidate forces the next Providers call to refetch.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	d.loaded = false
	d.providers = nil
	d.generation++
	d.mu.Unlock()
}

func (d *Directory) fresh() bool {
	if !d.loaded {
		return false
	}
	return d.ttl > 0 && d.now().Sub(d.loadedAt) < d.ttl
}
