package product

import (
	"context"

	"github.com/georgemunganga/printa-console/internal/collection"
)

// Repository defines the operations on the remote product resource.
type Repository interface {
	List(ctx context.Context, filters collection.Filters) (*collection.Page[Product], error)
	ListByProvider(ctx context.Context, providerID string, filters collection.Filters) (*collection.Page[Product], error)
	GetByID(ctx context.Context, id, fields string) (*Product, error)
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	Replace(ctx context.Context, id string, req CreateProductRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
}
