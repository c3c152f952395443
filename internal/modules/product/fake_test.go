package product

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-console/internal/collection"
	"github.com/georgemunganga/printa-console/internal/gateway"
	"github.com/georgemunganga/printa-console/internal/modules/provider"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func providerFixture() provider.Provider {
	return provider.Provider{ID: "p1", Name: "Acme", Phone: "1", Address: "a", Description: "d"}
}

// fakeDirectory serves a fixed provider list.
type fakeDirectory struct {
	providers []provider.Provider
	err       error
}

func (d *fakeDirectory) Providers(context.Context) ([]provider.Provider, error) {
	if d.err != nil {
		return nil, d.err
	}
	return append([]provider.Provider(nil), d.providers...), nil
}

// fakeRepo serves products from memory.
type fakeRepo struct {
	mu        sync.Mutex
	items     []Product
	lastQuery collection.Filters
	scopedID  string
	created   int
	listErr   error
	listCalls int
	scopedErr error
}

func (f *fakeRepo) List(ctx context.Context, filters collection.Filters) (*collection.Page[Product], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastQuery = filters
	if f.listErr != nil {
		return nil, f.listErr
	}
	items := append([]Product(nil), f.items...)
	return &collection.Page[Product]{
		Items: items,
		Pagination: &collection.Pagination{
			CurrentPage: filters.Page(), TotalPages: 1, TotalItems: len(items), ItemsPerPage: filters.Limit(10),
		},
	}, nil
}

func (f *fakeRepo) ListByProvider(ctx context.Context, providerID string, filters collection.Filters) (*collection.Page[Product], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopedID = providerID
	f.lastQuery = filters
	if f.scopedErr != nil {
		return nil, f.scopedErr
	}
	out := []Product{}
	for _, p := range f.items {
		if p.Provider.ID() == providerID {
			out = append(out, p)
		}
	}
	return &collection.Page[Product]{Items: out}, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id, fields string) (*Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &gateway.ServerError{Status: 404, Message: "Product not found"}
}

func (f *fakeRepo) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	p := Product{
		ID:          "new",
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Provider:    ProviderID(req.Provider),
		Stock:       req.Stock,
		Status:      req.Status,
	}
	f.items = append([]Product{p}, f.items...)
	return &p, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID != id {
			continue
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if req.Provider != nil {
			p.Provider = ProviderID(*req.Provider)
		}
		f.items[i] = p
		return &p, nil
	}
	return nil, &gateway.ServerError{Status: 404}
}

func (f *fakeRepo) Replace(ctx context.Context, id string, req CreateProductRequest) (*Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID != id {
			continue
		}
		p = Product{ID: id, Name: req.Name, Price: req.Price, Description: req.Description, Provider: ProviderID(req.Provider), Stock: req.Stock, Status: req.Status}
		f.items[i] = p
		return &p, nil
	}
	return nil, &gateway.ServerError{Status: 404}
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return &gateway.ServerError{Status: 409, Message: "Product is locked"}
}

func seededRepo() *fakeRepo {
	return &fakeRepo{items: []Product{
		{ID: "x1", Name: "Anvil", Price: decimal.NewFromInt(10), Description: "heavy", Provider: ProviderID("p1"), Stock: 3},
		{ID: "x2", Name: "Rocket", Price: decimal.NewFromInt(99), Description: "fast", Provider: ProviderID("ghost123"), Stock: 1},
		{ID: "x3", Name: "Spring", Price: decimal.NewFromInt(2), Description: "bouncy", Provider: NoProvider()},
	}}
}

var errDirectoryDown = errors.New("directory down")
