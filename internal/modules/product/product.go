package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-console/internal/modules/provider"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Status reuses the provider lifecycle states.
type Status = provider.Status

// Product is a catalog entry supplied by exactly one provider.
type Product struct {
	ID          string          `json:"_id,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Provider    ProviderRef     `json:"provider"`
	Stock       int             `json:"stock"`
	Status      Status          `json:"status,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitzero"`
	UpdatedAt   time.Time       `json:"updatedAt,omitzero"`
}

// Identity returns the product id.
func (p Product) Identity() string { return p.ID }

// CreateProductRequest holds the data for creating or fully replacing a product.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"notblank"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Description string          `json:"description" validate:"notblank"`
	Provider    string          `json:"provider" validate:"notblank"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Status      Status          `json:"status,omitempty" validate:"omitempty,known"`
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,notblank"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gt=0"`
	Description *string          `json:"description,omitempty" validate:"omitempty,notblank"`
	Provider    *string          `json:"provider,omitempty" validate:"omitempty,notblank"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Status      *Status          `json:"status,omitempty" validate:"omitempty,known"`
}
