package provider

import "time"

// Status is the lifecycle state shared by providers and products.
type Status string

const (
	StatusActive       Status = "active"
	StatusInactive     Status = "inactive"
	StatusDiscontinued Status = "discontinued"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDiscontinued:
		return true
	}
	return false
}

// Provider is a supplier referenced by products.
// Email and Status are optional on the wire.
type Provider struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Status      Status    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Identity returns the provider id.
func (p Provider) Identity() string { return p.ID }

// CreateProviderRequest holds the data for creating or fully replacing a provider.
type CreateProviderRequest struct {
	Name        string `json:"name" validate:"notblank"`
	Email       string `json:"email,omitempty" validate:"contact_email"`
	Phone       string `json:"phone" validate:"notblank"`
	Address     string `json:"address" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Status      Status `json:"status,omitempty" validate:"omitempty,known"`
}

// UpdateProviderRequest is a partial update; nil fields are left unchanged.
type UpdateProviderRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank"`
	Email       *string `json:"email,omitempty" validate:"omitempty,contact_email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,notblank"`
	Address     *string `json:"address,omitempty" validate:"omitempty,notblank"`
	Description *string `json:"description,omitempty" validate:"omitempty,notblank"`
	Status      *Status `json:"status,omitempty" validate:"omitempty,known"`
}
