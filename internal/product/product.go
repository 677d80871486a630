package product

import (
	"time"

	"github.com/intellibazar/intellibazar/internal/money"
)

// Specifications are the free-form technical details shown on the product page.
type Specifications struct {
	Brand    string   `json:"brand,omitempty" bson:"brand,omitempty"`
	Model    string   `json:"model,omitempty" bson:"model,omitempty"`
	Color    string   `json:"color,omitempty" bson:"color,omitempty"`
	Size     string   `json:"size,omitempty" bson:"size,omitempty"`
	Weight   string   `json:"weight,omitempty" bson:"weight,omitempty"`
	Warranty string   `json:"warranty,omitempty" bson:"warranty,omitempty"`
	Features []string `json:"features,omitempty" bson:"features,omitempty"`
}

// Product is a catalog entry managed through the seller panel. Prices are
// minor units; DisplayPrice is filled in on the way out.
type Product struct {
	ID                 string         `json:"id" bson:"_id"`
	Name               string         `json:"name" bson:"name"`
	Description        string         `json:"description" bson:"description"`
	Price              money.Amount   `json:"price" bson:"price"`
	OriginalPrice      money.Amount   `json:"originalPrice" bson:"original_price"`
	DiscountPercentage int            `json:"discountPercentage" bson:"discount_percentage"`
	DisplayPrice       string         `json:"displayPrice" bson:"-"`
	Category           string         `json:"category" bson:"category"`
	Stock              int            `json:"stock" bson:"stock"`
	Specifications     Specifications `json:"specifications" bson:"specifications"`
	Tags               []string       `json:"tags" bson:"tags"`
	Images             []string       `json:"images" bson:"images"`
	SellerID           string         `json:"sellerId" bson:"seller_id"`
	CreatedAt          time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time      `json:"updatedAt" bson:"updated_at"`
}

// Input is the seller-facing payload. Prices arrive as display strings
// ("₹1,299") and are parsed with money.Parse.
type Input struct {
	Name               string         `json:"name" form:"name"`
	Description        string         `json:"description" form:"description"`
	Price              string         `json:"price" form:"price"`
	OriginalPrice      string         `json:"originalPrice" form:"originalPrice"`
	DiscountPercentage int            `json:"discountPercentage" form:"discountPercentage"`
	Category           string         `json:"category" form:"category"`
	Stock              int            `json:"stock" form:"stock"`
	Specifications     Specifications `json:"specifications" form:"-"`
	Tags               []string       `json:"tags" form:"-"`
	Images             []string       `json:"images" form:"-"`
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	Category string
	Query    string
	SellerID string
	Sort     string
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
)

func withDisplay(p Product) Product {
	p.DisplayPrice = p.Price.String()
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}
