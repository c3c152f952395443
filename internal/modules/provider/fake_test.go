package provider

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/georgemunganga/printa-console/internal/collection"
	"github.com/georgemunganga/printa-console/internal/gateway"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// fakeRepo serves providers from memory.
type fakeRepo struct {
	mu        sync.Mutex
	items     []Provider
	listCalls atomic.Int32
	listErr   error
	gate      chan struct{}
	lastQuery collection.Filters
	created   int
}

func (f *fakeRepo) List(ctx context.Context, filters collection.Filters) (*collection.Page[Provider], error) {
	f.listCalls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = filters
	if f.listErr != nil {
		return nil, f.listErr
	}
	items := append([]Provider(nil), f.items...)
	return &collection.Page[Provider]{
		Items: items,
		Pagination: &collection.Pagination{
			CurrentPage: filters.Page(), TotalPages: 1, TotalItems: len(items), ItemsPerPage: filters.Limit(10),
		},
	}, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id, fields string) (*Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &gateway.ServerError{Status: 404, Message: "Provider not found"}
}

func (f *fakeRepo) Create(ctx context.Context, req CreateProviderRequest) (*Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	p := Provider{ID: "new", Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address, Description: req.Description}
	f.items = append([]Provider{p}, f.items...)
	return &p, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, req UpdateProviderRequest) (*Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID != id {
			continue
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Phone != nil {
			p.Phone = *req.Phone
		}
		f.items[i] = p
		return &p, nil
	}
	return nil, &gateway.ServerError{Status: 404}
}

func (f *fakeRepo) Replace(ctx context.Context, id string, req CreateProviderRequest) (*Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id {
			p = Provider{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address, Description: req.Description, Status: req.Status}
			f.items[i] = p
			return &p, nil
		}
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
	return &gateway.ServerError{Status: 404}
}

func seededRepo() *fakeRepo {
	return &fakeRepo{items: []Provider{
		{ID: "p1", Name: "Acme", Phone: "1", Address: "a", Description: "d"},
		{ID: "p2", Name: "Globex", Phone: "2", Address: "b", Description: "e"},
	}}
}
