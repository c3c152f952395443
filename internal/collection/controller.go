package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/georgemunganga/printa-console/internal/gateway"
)

// ErrUnknownFilter is returned when a patch names a key the collection does
// not recognize.
var ErrUnknownFilter = errors.New("collection: unknown filter key")

// Identifiable is implemented by records held in a Controller.
type Identifiable interface {
	Identity() string
}

// Lister fetches one page of a collection.
type Lister[T any] interface {
	List(ctx context.Context, filters Filters) (*Page[T], error)
}

// ListFunc adapts a function to Lister.
type ListFunc[T any] func(ctx context.Context, filters Filters) (*Page[T], error)

func (fn ListFunc[T]) List(ctx context.Context, filters Filters) (*Page[T], error) {
	return fn(ctx, filters)
}

// State is a snapshot of a collection.
type State[T any] struct {
	Items      []T        `json:"items"`
	Filters    Filters    `json:"filters"`
	Pagination Pagination `json:"pagination"`
	Loading    bool       `json:"loading"`
	LastError  string     `json:"error,omitempty"`
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	keys         map[string]struct{}
	fetchMessage string
	logger       *slog.Logger
}

// WithKeys restricts filter patches to the given keys. page and limit are
// always accepted.
func WithKeys(keys ...string) Option {
	return func(o *options) {
		o.keys = map[string]struct{}{KeyPage: {}, KeyLimit: {}}
		for _, k := range keys {
			o.keys[k] = struct{}{}
		}
	}
}

// WithFetchMessage sets the message recorded when a list fetch fails and the
// server gave no message of its own.
func WithFetchMessage(msg string) Option {
	return func(o *options) { o.fetchMessage = msg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Controller owns the in-memory copy of one paginated, filtered collection
// and keeps it consistent with the server across fetches and mutations.
//
// Every fetch is tagged with a sequence number; a response is applied only
// when no newer fetch was issued after it. Network calls run outside the
// lock, so a Controller is safe for concurrent use.
type Controller[T Identifiable] struct {
	lister  Lister[T]
	initial Filters
	opts    options

	mu     sync.Mutex
	state  State[T]
	seq    uint64
	loaded bool
}

// New creates a controller seeded with initial filters. ResetFilters restores
// exactly this set.
func New[T Identifiable](lister Lister[T], initial Filters, opts ...Option) *Controller[T] {
	o := options{fetchMessage: "Failed to fetch items", logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	initial = Filters{}.Merge(initial)
	return &Controller[T]{
		lister:  lister,
		initial: initial,
		opts:    o,
		state: State[T]{
			Items:      []T{},
			Filters:    initial.Clone(),
			Pagination: Pagination{CurrentPage: 1, TotalPages: 1, ItemsPerPage: initial.Limit(0)},
		},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() State[T] {
	s := c.state
	s.Items = slices.Clone(c.state.Items)
	s.Filters = c.state.Filters.Clone()
	return s
}

// EnsureLoaded performs the first fetch if none has been issued yet.
func (c *Controller[T]) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return nil
	}
	_, err := c.Refresh(ctx)
	return err
}

// SetFilters merges patch into the current filters and refetches. Unless the
// patch sets a valid page itself, the page goes back to 1.
func (c *Controller[T]) SetFilters(ctx context.Context, patch Filters) (*Page[T], error) {
	if err := c.checkKeys(patch); err != nil {
		return nil, err
	}
	return c.fetch(ctx, func(cur Filters) Filters {
		next := cur.Merge(patch)
		if _, ok := patch.positive(KeyPage); !ok {
			next[KeyPage] = "1"
		}
		return next
	})
}

// ResetFilters restores the filters the controller was built with and refetches.
func (c *Controller[T]) ResetFilters(ctx context.Context) (*Page[T], error) {
	return c.fetch(ctx, func(Filters) Filters { return c.initial.Clone() })
}

// ChangePage moves to page n and refetches. n is not clamped.
func (c *Controller[T]) ChangePage(ctx context.Context, n int) (*Page[T], error) {
	return c.fetch(ctx, func(cur Filters) Filters { return cur.WithPage(n) })
}

// Refresh refetches with the current filters.
func (c *Controller[T]) Refresh(ctx context.Context) (*Page[T], error) {
	return c.fetch(ctx, func(cur Filters) Filters { return cur })
}

func (c *Controller[T]) checkKeys(patch Filters) error {
	if c.opts.keys == nil {
		return nil
	}
	for _, k := range patch.Keys() {
		if _, ok := c.opts.keys[k]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFilter, k)
		}
	}
	return nil
}

func (c *Controller[T]) fetch(ctx context.Context, next func(Filters) Filters) (*Page[T], error) {
	c.mu.Lock()
	filters := next(c.state.Filters.Clone())
	c.state.Filters = filters
	c.seq++
	seq := c.seq
	c.loaded = true
	c.state.Loading = true
	c.state.LastError = ""
	c.mu.Unlock()

	page, err := c.lister.List(ctx, filters.Clone())

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.opts.logger.Debug("discarding stale collection response", "seq", seq, "latest", c.seq)
		return page, err
	}
	c.state.Loading = false

	if err != nil {
		c.state.LastError = gateway.Message(err, c.opts.fetchMessage)
		return nil, err
	}
	if page == nil {
		page = &Page[T]{}
	}

	c.state.Items = slices.Clone(page.Items)
	if c.state.Items == nil {
		c.state.Items = []T{}
	}
	if page.Pagination != nil {
		c.state.Pagination = *page.Pagination
	} else {
		c.state.Pagination = DerivePagination(filters.Page(), filters.Limit(0), len(page.Items))
	}
	return page, nil
}

// Insert runs create and prepends the server-returned record, bumping the
// total by one. The page is not refetched, so Items may briefly exceed the
// page size.
func (c *Controller[T]) Insert(ctx context.Context, msg string, create func(context.Context) (T, error)) (T, error) {
	c.ClearError()
	item, err := create(ctx)
	if err != nil {
		c.fail(err, msg)
		return item, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = append([]T{item}, c.state.Items...)
	c.state.Pagination.TotalItems++
	return item, nil
}

// Swap runs update and replaces the record with the same id in place.
// Pagination is untouched.
func (c *Controller[T]) Swap(ctx context.Context, id, msg string, update func(context.Context) (T, error)) (T, error) {
	c.ClearError()
	item, err := update(ctx)
	if err != nil {
		c.fail(err, msg)
		return item, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.state.Items {
		if existing.Identity() == id {
			c.state.Items[i] = item
		}
	}
	return item, nil
}

// Remove runs del and drops the record from Items, lowering the total by one.
func (c *Controller[T]) Remove(ctx context.Context, id, msg string, del func(context.Context) error) error {
	c.ClearError()
	if err := del(ctx); err != nil {
		c.fail(err, msg)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = slices.DeleteFunc(c.state.Items, func(item T) bool { return item.Identity() == id })
	if c.state.Pagination.TotalItems > 0 {
		c.state.Pagination.TotalItems--
	}
	return nil
}

// Track runs a call that does not change the collection but whose failure
// should still be shown, such as fetching one record.
func (c *Controller[T]) Track(ctx context.Context, msg string, call func(context.Context) error) error {
	c.ClearError()
	if err := call(ctx); err != nil {
		c.fail(err, msg)
		return err
	}
	return nil
}

// ClearError dismisses the recorded error.
func (c *Controller[T]) ClearError() {
	c.mu.Lock()
	c.state.LastError = ""
	c.mu.Unlock()
}

func (c *Controller[T]) fail(err error, msg string) {
	c.mu.Lock()
	c.state.LastError = gateway.Message(err, msg)
	c.mu.Unlock()
	c.opts.logger.Error(msg, "error", err)
}
