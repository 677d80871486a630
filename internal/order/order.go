package order

import (
	"time"

	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/intellibazar/intellibazar/internal/money"
)

const (
	SourceCart   = "cart"
	SourceBuyNow = "buy-now"

	StatusPlaced = "placed"
)

// Line is a snapshot of one purchased product at checkout time.
type Line struct {
	ProductName     string       `json:"productName" bson:"product_name"`
	ProductPrice    string       `json:"productPrice" bson:"product_price"`
	UnitPrice       money.Amount `json:"unitPrice" bson:"unit_price"`
	ProductImage    string       `json:"productImage" bson:"product_image"`
	ProductCategory string       `json:"productCategory" bson:"product_category"`
	Quantity        int          `json:"quantity" bson:"quantity"`
}

// Order represents a purchase made by a user.
type Order struct {
	ID           string       `json:"id" bson:"_id"`
	UserID       string       `json:"userId" bson:"user_id"`
	Source       string       `json:"source" bson:"source"`
	Items        []Line       `json:"items" bson:"items"`
	Total        money.Amount `json:"total" bson:"total"`
	DisplayTotal string       `json:"displayTotal" bson:"-"`
	Status       string       `json:"status" bson:"status"`
	CreatedAt    time.Time    `json:"createdAt" bson:"created_at"`
}

// Quantity is the number of units across all lines.
func (o Order) Quantity() int {
	n := 0
	for _, l := range o.Items {
		n += l.Quantity
	}
	return n
}

func lineFromCart(it cart.Item) Line {
	return Line{
		ProductName:     it.ProductName,
		ProductPrice:    it.ProductPrice,
		UnitPrice:       it.UnitPrice,
		ProductImage:    it.ProductImage,
		ProductCategory: it.ProductCategory,
		Quantity:        it.Quantity,
	}
}

func total(lines []Line) money.Amount {
	var sum money.Amount
	for _, l := range lines {
		sum += l.UnitPrice.Mul(l.Quantity)
	}
	return sum
}

func withDisplay(o Order) Order {
	o.DisplayTotal = o.Total.String()
	return o
}
