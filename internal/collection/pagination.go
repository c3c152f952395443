package collection

import "github.com/georgemunganga/printa-console/internal/gateway"

// Pagination is the paging state of a collection.
type Pagination = gateway.Pagination

// Page is one fetched slice of a collection. Pagination is nil when the
// server did not send one.
type Page[T any] struct {
	Items      []T
	Pagination *Pagination
}

// DerivePagination builds paging state from local counts, used when the
// server response carries no pagination block. count is the number of items
// on the current page.
func DerivePagination(page, limit, count int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = max(count, 1)
	}
	total := (page-1)*limit + count
	pages := max((total+limit-1)/limit, 1)
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNext:      page < pages,
		HasPrevious:  page > 1,
	}
}

// PageLink is one entry of a pagination widget. Ellipsis entries carry no
// number.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

const pageWindow = 2

// VisiblePages lists the page links to render around current: the first and
// last page always, a window of two pages on each side, and an ellipsis for
// each gap. A single page needs no widget, so nil is returned.
func VisiblePages(current, total int) []PageLink {
	if total <= 1 {
		return nil
	}

	links := []PageLink{{Number: 1, Current: current == 1}}
	if current-pageWindow > 2 {
		links = append(links, PageLink{Ellipsis: true})
	}
	lo := max(2, current-pageWindow)
	hi := min(total-1, current+pageWindow)
	for i := lo; i <= hi; i++ {
		links = append(links, PageLink{Number: i, Current: i == current})
	}
	if current+pageWindow < total-1 {
		links = append(links, PageLink{Ellipsis: true})
	}
	links = append(links, PageLink{Number: total, Current: current == total})
	return links
}
