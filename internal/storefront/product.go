package storefront

import (
	"errors"
	"strings"

	"github.com/intellibazar/intellibazar/internal/money"
)

// ErrIncompleteProduct is returned for products missing a field the cart
// and wishlist endpoints require.
var ErrIncompleteProduct = errors.New("product is missing name, price, image or category")

// Product is what a catalog page shows and what the managers send to the
// server. Price stays a display string; UnitPrice parses it.
type Product struct {
	Name     string   `json:"productName"`
	Price    string   `json:"productPrice"`
	Image    string   `json:"productImage"`
	Category string   `json:"productCategory"`
	Rating   *float64 `json:"productRating,omitempty"`
	Reviews  int      `json:"reviews,omitempty"`
}

func (p Product) validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Price) == "" ||
		strings.TrimSpace(p.Image) == "" || strings.TrimSpace(p.Category) == "" {
		return ErrIncompleteProduct
	}
	return nil
}

// UnitPrice is the parsed price, zero when it does not parse.
func (p Product) UnitPrice() money.Amount {
	a, err := money.Parse(p.Price)
	if err != nil {
		return 0
	}
	return a
}

func (p Product) rating() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// addRequest is the body of POST /api/cart and POST /api/wishlist.
type addRequest struct {
	ProductName     string   `json:"productName"`
	ProductPrice    string   `json:"productPrice"`
	ProductImage    string   `json:"productImage"`
	ProductCategory string   `json:"productCategory"`
	ProductRating   *float64 `json:"productRating,omitempty"`
	Quantity        int      `json:"quantity,omitempty"`
}

func newAddRequest(p Product, qty int) addRequest {
	return addRequest{
		ProductName:     p.Name,
		ProductPrice:    p.Price,
		ProductImage:    p.Image,
		ProductCategory: p.Category,
		ProductRating:   p.Rating,
		Quantity:        qty,
	}
}
