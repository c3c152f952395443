package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Recognized keys shared by every collection.
const (
	KeyPage  = "page"
	KeyLimit = "limit"
)

// Filters maps recognized filter keys to values. An absent or empty value
// means "no constraint".
type Filters map[string]string

// Clone returns an independent copy.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge returns a copy of f with patch applied. Empty values in patch remove
// the key.
func (f Filters) Merge(patch Filters) Filters {
	out := f.Clone()
	for k, v := range patch {
		v = strings.TrimSpace(v)
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Page returns the requested page, 1 when absent or malformed.
func (f Filters) Page() int {
	n, ok := f.positive(KeyPage)
	if !ok {
		return 1
	}
	return n
}

// Limit returns the page size, or def when absent or malformed.
func (f Filters) Limit(def int) int {
	n, ok := f.positive(KeyLimit)
	if !ok {
		return def
	}
	return n
}

// WithPage returns a copy of f pointing at page n.
func (f Filters) WithPage(n int) Filters {
	out := f.Clone()
	out[KeyPage] = strconv.Itoa(n)
	return out
}

// Query renders the filters as query parameters, one per non-empty key.
func (f Filters) Query() url.Values {
	q := url.Values{}
	for k, v := range f {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	return q
}

// Keys returns the set keys in sorted order.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f Filters) positive(key string) (int, bool) {
	raw, ok := f[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// UnmarshalJSON accepts string, number and boolean values so that
// {"page": 2, "minPrice": 9.5} decodes the same as its quoted form. null
// decodes to an empty value.
func (f *Filters) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Filters, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		switch {
		case bytes.Equal(v, []byte("null")):
			out[k] = ""
		case len(v) > 0 && v[0] == '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("filter %q: %w", k, err)
			}
			out[k] = s
		case bytes.Equal(v, []byte("true")), bytes.Equal(v, []byte("false")):
			out[k] = string(v)
		default:
			var n json.Number
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("filter %q: unsupported value %s", k, v)
			}
			out[k] = n.String()
		}
	}
	*f = out
	return nil
}
