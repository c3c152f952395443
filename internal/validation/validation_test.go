package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

func (l level) Valid() bool { return l == "low" || l == "high" }

type form struct {
	Name  string          `json:"name" validate:"notblank"`
	Email string          `json:"email,omitempty" validate:"contact_email"`
	Price decimal.Decimal `json:"price" validate:"gt=0"`
	Stock int             `json:"stock" validate:"gte=0"`
	Note  *string         `json:"note,omitempty" validate:"omitempty,notblank"`
	Level level           `json:"level,omitempty" validate:"omitempty,known"`
}

var formMessages = Messages{
	"name":     "Name is required",
	"email":    "Please enter a valid email address",
	"price.gt": "Price must be greater than 0",
	"stock":    "Stock cannot be negative",
	"note":     "Note cannot be blank",
	"level":    "Level must be low or high",
}

func validForm() form {
	return form{Name: "Drill", Price: decimal.RequireFromString("19.99"), Stock: 3}
}

func TestCheck_Valid(t *testing.T) {
	assert.NoError(t, Check(validForm(), formMessages))
}

func TestCheck_ZeroPriceFlagsOnlyPrice(t *testing.T) {
	f := validForm()
	f.Price = decimal.Zero

	err := Check(f, formMessages)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldErrors{"price": "Price must be greater than 0"}, fe)
}

func TestCheck_Violations(t *testing.T) {
	blank := "   "
	tests := []struct {
		name  string
		edit  func(*form)
		field string
		msg   string
	}{
		{"blank name", func(f *form) { f.Name = "  " }, "name", "Name is required"},
		{"bad email", func(f *form) { f.Email = "not-an-email" }, "email", "Please enter a valid email address"},
		{"negative price", func(f *form) { f.Price = decimal.NewFromInt(-1) }, "price", "Price must be greater than 0"},
		{"negative stock", func(f *form) { f.Stock = -1 }, "stock", "Stock cannot be negative"},
		{"blank optional", func(f *form) { f.Note = &blank }, "note", "Note cannot be blank"},
		{"unknown enum value", func(f *form) { f.Level = "medium" }, "level", "Level must be low or high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.edit(&f)
			err := Check(f, formMessages)
			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Len(t, fe, 1)
			assert.Equal(t, tt.msg, fe[tt.field])
		})
	}
}

func TestCheck_EmptyEmailAllowed(t *testing.T) {
	f := validForm()
	f.Email = ""
	assert.NoError(t, Check(f, formMessages))
	f.Email = "ops@acme.io"
	assert.NoError(t, Check(f, formMessages))
}

func TestCheck_DefaultMessage(t *testing.T) {
	f := validForm()
	f.Name = ""
	err := Check(f, nil)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name is invalid", fe["name"])
	assert.Contains(t, fe.Error(), "name: name is invalid")
}
