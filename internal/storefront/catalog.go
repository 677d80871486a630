package storefront

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed catalog.json
var catalogJSON []byte

// Sort orders accepted by Sort.
const (
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortRatingDesc = "rating-desc"
	SortNameAsc    = "name-asc"
)

type catalogPage struct {
	Category string    `json:"category"`
	Title    string    `json:"title"`
	Products []Product `json:"products"`
}

// Catalog holds the fixed per-category product pages. Nothing here talks
// to the server.
type Catalog struct {
	pages []catalogPage
	index map[string]int
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	var pages []catalogPage
	if err := json.Unmarshal(catalogJSON, &pages); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := &Catalog{pages: pages, index: make(map[string]int, len(pages))}
	for i, p := range pages {
		c.index[p.Category] = i
	}
	return c, nil
}

// Categories lists page slugs in display order.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.pages))
	for _, p := range c.pages {
		out = append(out, p.Category)
	}
	return out
}

// Title is the heading of a category page.
func (c *Catalog) Title(category string) string {
	if i, ok := c.index[category]; ok {
		return c.pages[i].Title
	}
	return ""
}

// Page returns a copy of the products on a category page.
func (c *Catalog) Page(category string) []Product {
	i, ok := c.index[category]
	if !ok {
		return nil
	}
	return append([]Product(nil), c.pages[i].Products...)
}

// All returns every product across pages.
func (c *Catalog) All() []Product {
	var out []Product
	for _, p := range c.pages {
		out = append(out, p.Products...)
	}
	return out
}

// Browse applies Search then Sort to a page, the way a category page renders.
func (c *Catalog) Browse(category, query, by string) []Product {
	return Sort(Search(c.Page(category), query), by)
}

// Search keeps products whose name contains q, ignoring case. An empty q
// keeps everything.
func Search(products []Product, q string) []Product {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy. Unknown orders keep the page order.
func Sort(products []Product, by string) []Product {
	out := append([]Product(nil), products...)
	var less func(a, b Product) bool
	switch by {
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.UnitPrice() < b.UnitPrice() }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.UnitPrice() > b.UnitPrice() }
	case SortRatingDesc:
		less = func(a, b Product) bool { return a.rating() > b.rating() }
	case SortNameAsc:
		less = func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
