package provider

import (
	"context"
	"log/slog"

	"github.com/georgemunganga/printa-console/internal/collection"
	"github.com/georgemunganga/printa-console/internal/validation"
)

const (
	msgFetchAll = "Failed to fetch providers"
	msgFetchOne = "Failed to fetch provider"
	msgCreate   = "Failed to create provider"
	msgUpdate   = "Failed to update provider"
	msgReplace  = "Failed to replace provider"
	msgDelete   = "Failed to delete provider"
)

// FilterKeys are the list parameters the providers resource understands.
var FilterKeys = []string{"sortBy", "order", "search", "name", "status", "fields"}

// DefaultFilters seed the provider list.
func DefaultFilters() collection.Filters {
	return collection.Filters{
		collection.KeyPage:  "1",
		collection.KeyLimit: "10",
		"sortBy":            "createdAt",
		"order":             "desc",
	}
}

var formMessages = validation.Messages{
	"name":        "Name is required",
	"email":       "Please enter a valid email address",
	"phone":       "Phone is required",
	"address":     "Address is required",
	"description": "Description is required",
	"status":      "Status must be active, inactive or discontinued",
}

// Service drives the provider list screen.
type Service interface {
	State(ctx context.Context) (collection.State[Provider], error)
	SetFilters(ctx context.Context, patch collection.Filters) (collection.State[Provider], error)
	ResetFilters(ctx context.Context) (collection.State[Provider], error)
	ChangePage(ctx context.Context, page int) (collection.State[Provider], error)
	Refresh(ctx context.Context) (collection.State[Provider], error)
	Get(ctx context.Context, id, fields string) (*Provider, error)
	Create(ctx context.Context, req CreateProviderRequest) (*Provider, error)
	Update(ctx context.Context, id string, req UpdateProviderRequest) (*Provider, error)
	Replace(ctx context.Context, id string, req CreateProviderRequest) (*Provider, error)
	Delete(ctx context.Context, id string) error
	ClearError()
	Directory(ctx context.Context) ([]Provider, error)
}

type service struct {
	repo       Repository
	directory  *Directory
	collection *collection.Controller[Provider]
}

// NewService wires the provider list controller to repo. Every mutation
// invalidates directory.
func NewService(repo Repository, directory *Directory, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:      repo,
		directory: directory,
		collection: collection.New[Provider](repo, DefaultFilters(),
			collection.WithKeys(FilterKeys...),
			collection.WithFetchMessage(msgFetchAll),
			collection.WithLogger(logger.With("collection", "providers")),
		),
	}
}

func (s *service) State(ctx context.Context) (collection.State[Provider], error) {
	err := s.collection.EnsureLoaded(ctx)
	return s.collection.Snapshot(), err
}

func (s *service) SetFilters(ctx context.Context, patch collection.Filters) (collection.State[Provider], error) {
	_, err := s.collection.SetFilters(ctx, patch)
	return s.collection.Snapshot(), err
}

func (s *service) ResetFilters(ctx context.Context) (collection.State[Provider], error) {
	_, err := s.collection.ResetFilters(ctx)
	return s.collection.Snapshot(), err
}

func (s *service) ChangePage(ctx context.Context, page int) (collection.State[Provider], error) {
	_, err := s.collection.ChangePage(ctx, page)
	return s.collection.Snapshot(), err
}

func (s *service) Refresh(ctx context.Context) (collection.State[Provider], error) {
	_, err := s.collection.Refresh(ctx)
	return s.collection.Snapshot(), err
}

func (s *service) Get(ctx context.Context, id, fields string) (*Provider, error) {
	var p *Provider
	err := s.collection.Track(ctx, msgFetchOne, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id, fields)
		return err
	})
	return p, err
}

func (s *service) Create(ctx context.Context, req CreateProviderRequest) (*Provider, error) {
	if err := validation.Check(req, formMessages); err != nil {
		return nil, err
	}
	p, err := s.collection.Insert(ctx, msgCreate, func(ctx context.Context) (Provider, error) {
		return deref(s.repo.Create(ctx, req))
	})
	if err != nil {
		return nil, err
	}
	s.directory.Invalidate()
	return &p, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateProviderRequest) (*Provider, error) {
	if err := validation.Check(req, formMessages); err != nil {
		return nil, err
	}
	p, err := s.collection.Swap(ctx, id, msgUpdate, func(ctx context.Context) (Provider, error) {
		return deref(s.repo.Update(ctx, id, req))
	})
	if err != nil {
		return nil, err
	}
	s.directory.Invalidate()
	return &p, nil
}

func (s *service) Replace(ctx context.Context, id string, req CreateProviderRequest) (*Provider, error) {
	if err := validation.Check(req, formMessages); err != nil {
		return nil, err
	}
	p, err := s.collection.Swap(ctx, id, msgReplace, func(ctx context.Context) (Provider, error) {
		return deref(s.repo.Replace(ctx, id, req))
	})
	if err != nil {
		return nil, err
	}
	s.directory.Invalidate()
	return &p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	err := s.collection.Remove(ctx, id, msgDelete, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.directory.Invalidate()
	return nil
}

func (s *service) ClearError() { s.collection.ClearError() }

func (s *service) Directory(ctx context.Context) ([]Provider, error) {
	return s.directory.Providers(ctx)
}

func deref(p *Provider, err error) (Provider, error) {
	if err != nil {
		return Provider{}, err
	}
	return *p, nil
}
