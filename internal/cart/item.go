package cart

import (
	"strings"
	"time"

	"github.com/intellibazar/intellibazar/internal/money"
)

// Item is one cart line. (UserID, ProductName) is unique; adding the same
// product name again raises Quantity instead of creating a second line.
type Item struct {
	ID              string       `json:"id" bson:"_id"`
	UserID          string       `json:"userId" bson:"user_id"`
	ProductName     string       `json:"productName" bson:"product_name"`
	ProductPrice    string       `json:"productPrice" bson:"product_price"`
	UnitPrice       money.Amount `json:"unitPrice" bson:"unit_price"`
	ProductImage    string       `json:"productImage" bson:"product_image"`
	ProductCategory string       `json:"productCategory" bson:"product_category"`
	ProductRating   *float64     `json:"productRating,omitempty" bson:"product_rating,omitempty"`
	Quantity        int          `json:"quantity" bson:"quantity"`
	CreatedAt       time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" bson:"updated_at"`
}

// AddInput is the body of POST /api/cart.
type AddInput struct {
	ProductName     string   `json:"productName"`
	ProductPrice    string   `json:"productPrice"`
	ProductImage    string   `json:"productImage"`
	ProductCategory string   `json:"productCategory"`
	ProductRating   *float64 `json:"productRating,omitempty"`
	Quantity        int      `json:"quantity"`
}

// Validate returns field errors. A zero quantity means one.
func (in AddInput) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(in.ProductName) == "" {
		errs["productName"] = "productName is required"
	}
	if _, err := money.Parse(in.ProductPrice); err != nil {
		errs["productPrice"] = "productPrice must be a price"
	}
	if strings.TrimSpace(in.ProductImage) == "" {
		errs["productImage"] = "productImage is required"
	}
	if strings.TrimSpace(in.ProductCategory) == "" {
		errs["productCategory"] = "productCategory is required"
	}
	if r := in.ProductRating; r != nil && (*r < 0 || *r > 5) {
		errs["productRating"] = "productRating must be between 0 and 5"
	}
	if in.Quantity < 0 {
		errs["quantity"] = "quantity must be positive"
	}
	return errs
}

// Total is Σ(unit price × quantity).
func Total(items []Item) money.Amount {
	var sum money.Amount
	for _, it := range items {
		sum += it.UnitPrice.Mul(it.Quantity)
	}
	return sum
}

// Count is the number of units across all lines.
func Count(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
