package product

import (
	"bytes"
	"encoding/json"

	"github.com/georgemunganga/printa-console/internal/modules/provider"
)

// RefKind tells which form a product's provider reference takes.
type RefKind int

const (
	// RefNone is a null or empty reference.
	RefNone RefKind = iota
	// RefUnresolved is a bare provider id.
	RefUnresolved
	// RefEmbedded is a provider record the server inlined.
	RefEmbedded
)

func (k RefKind) String() string {
	switch k {
	case RefUnresolved:
		return "unresolved"
	case RefEmbedded:
		return "embedded"
	default:
		return "none"
	}
}

// ProviderRef is the provider field of a product: nothing, an id, or an
// embedded provider. The zero value is RefNone.
type ProviderRef struct {
	kind     RefKind
	id       string
	embedded provider.Provider
}

// NoProvider returns an empty reference.
func NoProvider() ProviderRef { return ProviderRef{} }

// ProviderID returns a reference by id. An empty id yields NoProvider.
func ProviderID(id string) ProviderRef {
	if id == "" {
		return ProviderRef{}
	}
	return ProviderRef{kind: RefUnresolved, id: id}
}

// EmbeddedProvider returns a reference carrying the full provider.
func EmbeddedProvider(p provider.Provider) ProviderRef {
	return ProviderRef{kind: RefEmbedded, id: p.ID, embedded: p}
}

func (r ProviderRef) Kind() RefKind { return r.kind }

// ID is the referenced provider id, empty for RefNone.
func (r ProviderRef) ID() string { return r.id }

// Embedded returns the inlined provider when Kind is RefEmbedded.
func (r ProviderRef) Embedded() (provider.Provider, bool) {
	return r.embedded, r.kind == RefEmbedded
}

func (r ProviderRef) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case RefUnresolved:
		return json.Marshal(r.id)
	case RefEmbedded:
		return json.Marshal(r.embedded)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON never fails: values that are neither a string nor a provider
// object decode to RefNone so one bad record cannot break a whole list.
func (r *ProviderRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = ProviderRef{}
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if json.Unmarshal(data, &id) == nil {
			*r = ProviderID(id)
		}
	case '{':
		var p provider.Provider
		if json.Unmarshal(data, &p) == nil {
			*r = EmbeddedProvider(p)
		}
	}
	return nil
}
