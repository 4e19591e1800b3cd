// Package listing derives the visible product page from the full product set
// of the selected category, a free-text query and the current page.
package listing

import (
	"strings"

	"storefront/internal/domain"
)

// AllCategories bypasses category filtering. It is never sent to the server.
const AllCategories = "all"

const DefaultItemsPerPage = 12

// Filter keeps products whose title, description or category contains query,
// ignoring case. Whitespace in query is significant. Source order is
// preserved; an empty query returns products.
func Filter(products []domain.Product, query string) []domain.Product {
	q := strings.ToLower(query)
	if q == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// Paginate returns products[(page-1)*perPage : page*perPage], clipped to the
// available length. Pages below 1 are treated as 1.
func Paginate(products []domain.Product, page, perPage int) []domain.Product {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(products) {
		return []domain.Product{}
	}
	end := min(start+perPage, len(products))
	return products[start:end]
}

func TotalPages(n, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	return (n + perPage - 1) / perPage
}

// PageLink is one entry of the pager: a page number or an ellipsis.
type PageLink struct {
	Number   int
	Ellipsis bool
	Current  bool
}

// PageNumbers lists every page when there are at most seven. Otherwise it
// shows the first page, the current page with its neighbours and the last
// page, with an ellipsis standing in for each skipped run.
func PageNumbers(totalPages, current int) []PageLink {
	if totalPages <= 0 {
		return nil
	}
	link := func(n int) PageLink { return PageLink{Number: n, Current: n == current} }

	var out []PageLink
	if totalPages <= 7 {
		for i := 1; i <= totalPages; i++ {
			out = append(out, link(i))
		}
		return out
	}

	out = append(out, link(1))
	if current > 3 {
		out = append(out, PageLink{Ellipsis: true})
	}
	for i := max(2, current-1); i <= min(totalPages-1, current+1); i++ {
		out = append(out, link(i))
	}
	if current < totalPages-2 {
		out = append(out, PageLink{Ellipsis: true})
	}
	out = append(out, link(totalPages))
	return out
}
