package product

import (
	"fmt"

	"github.com/georgemunganga/printa-console/internal/modules/provider"
)

// Resolution records how an enriched product obtained its provider.
type Resolution string

const (
	ResolvedEmbedded Resolution = "embedded"
	ResolvedByID     Resolution = "resolved"
	ResolvedUnknown  Resolution = "unknown"
	ResolvedMissing  Resolution = "missing"
)

// NullProviderID is the id given to the placeholder of a product with no
// provider reference.
const NullProviderID = "null"

const (
	missingProviderName = "No Provider (Database Issue)"
	shortIDLen          = 8
	previewNames        = 3
)

// EnrichedProduct is a product whose provider reference has been resolved to
// a concrete provider, real or placeholder. It is never persisted.
type EnrichedProduct struct {
	Product
	Provider   provider.Provider `json:"provider"`
	Resolution Resolution        `json:"resolution"`
}

// Anomalies lists the integrity problems found while reconciling.
type Anomalies struct {
	NullRefs       []Product `json:"nullRefs"`
	DanglingRefIDs []string  `json:"danglingRefIds"`
}

// Reconciliation is the result of Reconcile.
type Reconciliation struct {
	Enriched  []EnrichedProduct `json:"enriched"`
	Anomalies Anomalies         `json:"anomalies"`
}

// Reconcile resolves every product's provider reference against providers.
// Embedded providers are used as is, ids are looked up, unknown ids get an
// "Unknown Provider" placeholder and empty references a "No Provider" one.
// The output has one entry per product, in order, and depends only on the
// inputs.
func Reconcile(products []Product, providers []provider.Provider) Reconciliation {
	index := make(map[string]provider.Provider, len(providers))
	for _, p := range providers {
		if _, dup := index[p.ID]; !dup {
			index[p.ID] = p
		}
	}

	out := Reconciliation{
		Enriched: make([]EnrichedProduct, 0, len(products)),
		Anomalies: Anomalies{
			NullRefs:       []Product{},
			DanglingRefIDs: []string{},
		},
	}
	dangling := map[string]struct{}{}

	for _, prod := range products {
		e := EnrichedProduct{Product: prod}

		switch prod.Provider.Kind() {
		case RefEmbedded:
			e.Provider, _ = prod.Provider.Embedded()
			e.Resolution = ResolvedEmbedded
		case RefUnresolved:
			id := prod.Provider.ID()
			if p, ok := index[id]; ok {
				e.Provider = p
				e.Resolution = ResolvedByID
				break
			}
			e.Provider = provider.Provider{ID: id, Name: unknownProviderName(id)}
			e.Resolution = ResolvedUnknown
			if _, seen := dangling[id]; !seen {
				dangling[id] = struct{}{}
				out.Anomalies.DanglingRefIDs = append(out.Anomalies.DanglingRefIDs, id)
			}
		case RefNone:
			e.Provider = provider.Provider{ID: NullProviderID, Name: missingProviderName}
			e.Resolution = ResolvedMissing
			out.Anomalies.NullRefs = append(out.Anomalies.NullRefs, prod)
		}

		out.Enriched = append(out.Enriched, e)
	}
	return out
}

func unknownProviderName(id string) string {
	return fmt.Sprintf("Unknown Provider (ID: %s)", ShortID(id))
}

// ShortID returns the last eight characters of id, or id itself when shorter.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) <= shortIDLen {
		return id
	}
	return string(r[len(r)-shortIDLen:])
}

// IntegrityReport summarizes reconciliation anomalies for display.
type IntegrityReport struct {
	NullRefCount     int      `json:"nullRefCount"`
	AffectedProducts []string `json:"affectedProducts,omitempty"`
	MoreAffected     int      `json:"moreAffected,omitempty"`
	MissingProviders []string `json:"missingProviders,omitempty"`
}

// Clean reports whether no anomaly was found.
func (r IntegrityReport) Clean() bool {
	return r.NullRefCount == 0 && len(r.MissingProviders) == 0
}

// Report builds the display summary: the null-reference count with the first
// three affected product names, and the dangling ids shortened to eight
// characters.
func (a Anomalies) Report() IntegrityReport {
	r := IntegrityReport{NullRefCount: len(a.NullRefs)}
	for i, p := range a.NullRefs {
		if i == previewNames {
			r.MoreAffected = len(a.NullRefs) - previewNames
			break
		}
		r.AffectedProducts = append(r.AffectedProducts, p.Name)
	}
	for _, id := range a.DanglingRefIDs {
		r.MissingProviders = append(r.MissingProviders, ShortID(id))
	}
	return r
}
