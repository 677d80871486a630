package wishlist

import (
	"strings"
	"time"

	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/intellibazar/intellibazar/internal/money"
)

// Item is a saved product. Unlike cart lines there is no quantity and a
// second add of the same ProductName is rejected.
type Item struct {
	ID              string       `json:"id" bson:"_id"`
	UserID          string       `json:"userId" bson:"user_id"`
	ProductName     string       `json:"productName" bson:"product_name"`
	ProductPrice    string       `json:"productPrice" bson:"product_price"`
	UnitPrice       money.Amount `json:"unitPrice" bson:"unit_price"`
	ProductImage    string       `json:"productImage" bson:"product_image"`
	ProductCategory string       `json:"productCategory" bson:"product_category"`
	ProductRating   *float64     `json:"productRating,omitempty" bson:"product_rating,omitempty"`
	CreatedAt       time.Time    `json:"createdAt" bson:"created_at"`
}

type AddInput struct {
	ProductName     string   `json:"productName"`
	ProductPrice    string   `json:"productPrice"`
	ProductImage    string   `json:"productImage"`
	ProductCategory string   `json:"productCategory"`
	ProductRating   *float64 `json:"productRating,omitempty"`
}

func (in AddInput) Validate() map[string]string {
	return in.cartInput().Validate()
}

func (in AddInput) cartInput() cart.AddInput {
	return cart.AddInput{
		ProductName:     strings.TrimSpace(in.ProductName),
		ProductPrice:    in.ProductPrice,
		ProductImage:    in.ProductImage,
		ProductCategory: in.ProductCategory,
		ProductRating:   in.ProductRating,
		Quantity:        1,
	}
}

func (it Item) cartInput() cart.AddInput {
	return cart.AddInput{
		ProductName:     it.ProductName,
		ProductPrice:    it.ProductPrice,
		ProductImage:    it.ProductImage,
		ProductCategory: it.ProductCategory,
		ProductRating:   it.ProductRating,
		Quantity:        1,
	}
}

// MoveResult reports a bulk move. Moved counts items now in the cart;
// Failed counts items that stayed in the wishlist only.
type MoveResult struct {
	Moved  int `json:"moved"`
	Failed int `json:"failed"`
}
