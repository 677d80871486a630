// Package category holds the fixed set of product categories.
package category

import "strings"

// Category is the public DTO returned by the category API.
type Category struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

var all = []Category{
	{Slug: "electronics", Name: "Electronics", Image: "/images/categories/electronics.jpg"},
	{Slug: "fashion", Name: "Fashion", Image: "/images/categories/fashion.jpg"},
	{Slug: "home-kitchen", Name: "Home & Kitchen", Image: "/images/categories/home-kitchen.jpg"},
	{Slug: "beauty", Name: "Beauty", Image: "/images/categories/beauty.jpg"},
	{Slug: "sports", Name: "Sports", Image: "/images/categories/sports.jpg"},
	{Slug: "books", Name: "Books", Image: "/images/categories/books.jpg"},
	{Slug: "toys", Name: "Toys", Image: "/images/categories/toys.jpg"},
	{Slug: "groceries", Name: "Groceries", Image: "/images/categories/groceries.jpg"},
}

// All returns a copy of the category list in display order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Normalize maps a slug or display name to its slug. ok is false for
// unknown categories.
func Normalize(s string) (slug string, ok bool) {
	s = strings.TrimSpace(s)
	for _, c := range all {
		if strings.EqualFold(c.Slug, s) || strings.EqualFold(c.Name, s) {
			return c.Slug, true
		}
	}
	return "", false
}
