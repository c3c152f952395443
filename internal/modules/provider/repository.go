package provider

import (
	"context"

	"github.com/georgemunganga/printa-console/internal/collection"
)

// Repository defines the operations on the remote provider resource.
type Repository interface {
	List(ctx context.Context, filters collection.Filters) (*collection.Page[Provider], error)
	GetByID(ctx context.Context, id, fields string) (*Provider, error)
	Create(ctx context.Context, req CreateProviderRequest) (*Provider, error)
	Update(ctx context.Context, id string, req UpdateProviderRequest) (*Provider, error)
	Replace(ctx context.Context, id string, req CreateProviderRequest) (*Provider, error)
	Delete(ctx context.Context, id string) error
}
