package product

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/printa-console/internal/collection"
	"github.com/georgemunganga/printa-console/internal/modules/provider"
	"github.com/georgemunganga/printa-console/internal/validation"
)

const (
	msgFetchAll      = "Failed to fetch products"
	msgFetchOne      = "Failed to fetch product"
	msgFetchScoped   = "Failed to fetch products by provider"
	msgCreate        = "Failed to create product"
	msgUpdate        = "Failed to update product"
	msgReplace       = "Failed to replace product"
	msgDelete        = "Failed to delete product"
	unknownProvider  = "Unknown"
	defaultScopedLim = 20
)

// FilterKeys are the list parameters the products resource understands.
var FilterKeys = []string{"sortBy", "sort", "order", "search", "status", "provider", "minPrice", "maxPrice", "fields"}

// DefaultFilters seed the product list.
func DefaultFilters() collection.Filters {
	return collection.Filters{
		collection.KeyPage:  "1",
		collection.KeyLimit: "10",
		"sort":              "desc",
	}
}

var formMessages = validation.Messages{
	"name":        "Product name is required",
	"description": "Description is required",
	"price":       "Price must be greater than 0",
	"provider":    "Provider is required",
	"stock":       "Stock cannot be negative",
	"status":      "Status must be active, inactive or discontinued",
}

// ProviderDirectory supplies the provider list used to resolve references.
type ProviderDirectory interface {
	Providers(ctx context.Context) ([]provider.Provider, error)
}

// View is the product list screen: the current page reconciled against the
// provider directory.
type View struct {
	Items                []EnrichedProduct     `json:"items"`
	Anomalies            Anomalies             `json:"anomalies"`
	Integrity            IntegrityReport       `json:"integrity"`
	Filters              collection.Filters    `json:"filters"`
	Pagination           collection.Pagination `json:"pagination"`
	Pages                []collection.PageLink `json:"pages,omitempty"`
	Loading              bool                  `json:"loading"`
	Error                string                `json:"error,omitempty"`
	NeedsReview          bool                  `json:"needsReview"`
	ProvidersUnavailable bool                  `json:"providersUnavailable,omitempty"`
	Providers            []provider.Provider   `json:"providers"`
}

// ProviderView lists the products of a single provider.
type ProviderView struct {
	Provider    provider.Provider     `json:"provider"`
	Items       []EnrichedProduct     `json:"items"`
	Anomalies   Anomalies             `json:"anomalies"`
	Integrity   IntegrityReport       `json:"integrity"`
	NeedsReview bool                  `json:"needsReview"`
	Filters     collection.Filters    `json:"filters"`
	Pagination  collection.Pagination `json:"pagination"`
}

// Detail is a single product with the display name of its provider.
type Detail struct {
	Product      Product `json:"product"`
	ProviderName string  `json:"providerName"`
}

// Service drives the product screens.
type Service interface {
	View(ctx context.Context) (View, error)
	SetFilters(ctx context.Context, patch collection.Filters) (View, error)
	ResetFilters(ctx context.Context) (View, error)
	ChangePage(ctx context.Context, page int) (View, error)
	Refresh(ctx context.Context) (View, error)
	Get(ctx context.Context, id, fields string) (*Detail, error)
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	Replace(ctx context.Context, id string, req CreateProductRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
	ListByProvider(ctx context.Context, providerID string, params collection.Filters) (*ProviderView, error)
	ClearError()
}

// Option configures the service.
type Option func(*service)

// WithScopedLimit sets the page size of provider-scoped listings.
func WithScopedLimit(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.scopedLimit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *service) { s.logger = l }
}

type service struct {
	repo        Repository
	providers   ProviderDirectory
	collection  *collection.Controller[Product]
	scopedLimit int
	logger      *slog.Logger
}

func NewService(repo Repository, providers ProviderDirectory, opts ...Option) Service {
	s := &service{
		repo:        repo,
		providers:   providers,
		scopedLimit: defaultScopedLim,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.collection = collection.New[Product](repo, DefaultFilters(),
		collection.WithKeys(FilterKeys...),
		collection.WithFetchMessage(msgFetchAll),
		collection.WithLogger(s.logger.With("collection", "products")),
	)
	return s
}

func (s *service) View(ctx context.Context) (View, error) {
	return s.view(ctx, s.collection.EnsureLoaded)
}

func (s *service) SetFilters(ctx context.Context, patch collection.Filters) (View, error) {
	return s.view(ctx, func(ctx context.Context) error {
		_, err := s.collection.SetFilters(ctx, patch)
		return err
	})
}

func (s *service) ResetFilters(ctx context.Context) (View, error) {
	return s.view(ctx, func(ctx context.Context) error {
		_, err := s.collection.ResetFilters(ctx)
		return err
	})
}

func (s *service) ChangePage(ctx context.Context, page int) (View, error) {
	return s.view(ctx, func(ctx context.Context) error {
		_, err := s.collection.ChangePage(ctx, page)
		return err
	})
}

func (s *service) Refresh(ctx context.Context) (View, error) {
	return s.view(ctx, func(ctx context.Context) error {
		_, err := s.collection.Refresh(ctx)
		return err
	})
}

// view runs the list operation and the directory lookup concurrently, then
// reconciles the resulting page. A directory failure degrades the view
// instead of failing it.
func (s *service) view(ctx context.Context, load func(context.Context) error) (View, error) {
	var (
		g         errgroup.Group
		providers []provider.Provider
		dirErr    error
	)
	g.Go(func() error { return load(ctx) })
	g.Go(func() error {
		providers, dirErr = s.providers.Providers(ctx)
		return nil
	})
	err := g.Wait()

	state := s.collection.Snapshot()
	rec := Reconcile(state.Items, providers)
	report := rec.Anomalies.Report()
	if providers == nil {
		providers = []provider.Provider{}
	}
	v := View{
		Items:                rec.Enriched,
		Anomalies:            rec.Anomalies,
		Integrity:            report,
		NeedsReview:          !report.Clean(),
		Filters:              state.Filters,
		Pagination:           state.Pagination,
		Pages:                collection.VisiblePages(state.Pagination.CurrentPage, state.Pagination.TotalPages),
		Loading:              state.Loading,
		Error:                state.LastError,
		ProvidersUnavailable: dirErr != nil,
		Providers:            providers,
	}
	return v, err
}

func (s *service) Get(ctx context.Context, id, fields string) (*Detail, error) {
	var p *Product
	err := s.collection.Track(ctx, msgFetchOne, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id, fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	name := s.providerName(ctx, p.Provider)
	if name == unknownProvider {
		s.logger.Debug("product provider unresolved", "product", p.ID, "ref", p.Provider.Kind().String(), "provider", p.Provider.ID())
	}
	return &Detail{Product: *p, ProviderName: name}, nil
}

func (s *service) providerName(ctx context.Context, ref ProviderRef) string {
	switch ref.Kind() {
	case RefEmbedded:
		p, _ := ref.Embedded()
		return p.Name
	case RefUnresolved:
		providers, err := s.providers.Providers(ctx)
		if err != nil {
			return unknownProvider
		}
		for _, p := range providers {
			if p.ID == ref.ID() {
				return p.Name
			}
		}
	}
	return unknownProvider
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := validation.Check(req, formMessages); err != nil {
		return nil, err
	}
	p, err := s.collection.Insert(ctx, msgCreate, func(ctx context.Context) (Product, error) {
		return deref(s.repo.Create(ctx, req))
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	if err := validation.Check(req, formMessages); err != nil {
		return nil, err
	}
	p, err := s.collection.Swap(ctx, id, msgUpdate, func(ctx context.Context) (Product, error) {
		return deref(s.repo.Update(ctx, id, req))
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *service) Replace(ctx context.Context, id string, req CreateProductRequest) (*Product, error) {
	if err := validation.Check(req, formMessages); err != nil {
		return nil, err
	}
	p, err := s.collection.Swap(ctx, id, msgReplace, func(ctx context.Context) (Product, error) {
		return deref(s.repo.Replace(ctx, id, req))
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.collection.Remove(ctx, id, msgDelete, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

func (s *service) ClearError() { s.collection.ClearError() }

// ListByProvider fetches one provider's products and reconciles them. The
// provider itself is looked up in the directory, falling back to a
// placeholder when it is not there.
func (s *service) ListByProvider(ctx context.Context, providerID string, params collection.Filters) (*ProviderView, error) {
	filters := collection.Filters{
		collection.KeyPage:  "1",
		collection.KeyLimit: strconv.Itoa(s.scopedLimit),
		"sortBy":            "createdAt",
		"order":             "desc",
	}.Merge(params)

	var (
		page      *collection.Page[Product]
		providers []provider.Provider
	)
	err := s.collection.Track(ctx, msgFetchScoped, func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			page, err = s.repo.ListByProvider(gctx, providerID, filters)
			return err
		})
		g.Go(func() error {
			ps, err := s.providers.Providers(gctx)
			if err != nil {
				s.logger.Warn("provider directory unavailable for scoped view", "provider", providerID, "error", err)
				return nil
			}
			providers = ps
			return nil
		})
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}
	if page == nil {
		page = &collection.Page[Product]{}
	}

	rec := Reconcile(page.Items, providers)
	owner := provider.Provider{ID: providerID, Name: unknownProviderName(providerID)}
	for _, p := range providers {
		if p.ID == providerID {
			owner = p
			break
		}
	}
	pagination := collection.DerivePagination(filters.Page(), filters.Limit(s.scopedLimit), len(page.Items))
	if page.Pagination != nil {
		pagination = *page.Pagination
	}
	report := rec.Anomalies.Report()
	return &ProviderView{
		Provider:    owner,
		Items:       rec.Enriched,
		Anomalies:   rec.Anomalies,
		Integrity:   report,
		Filters:     filters,
		Pagination:  pagination,
		NeedsReview: !report.Clean(),
	}, nil
}

func deref(p *Product, err error) (Product, error) {
	if err != nil {
		return Product{}, err
	}
	return *p, nil
}
