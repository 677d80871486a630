package product

import "github.com/intellibazar/intellibazar/internal/money"

// SampleProducts is the development catalog written by Service.Seed.
func SampleProducts(sellerID string) []Product {
	return []Product{
		{
			Name:               "Wireless Noise Cancelling Headphones",
			Description:        "Over-ear headphones with 30 hour battery life",
			Price:              money.FromMajor(4999),
			OriginalPrice:      money.FromMajor(7999),
			DiscountPercentage: 37,
			Category:           "electronics",
			Stock:              25,
			Specifications:     Specifications{Brand: "SoundMax", Color: "Black", Warranty: "1 year", Features: []string{"ANC", "Bluetooth 5.3"}},
			Tags:               []string{"audio", "wireless"},
			Images:             []string{"/images/products/headphones.jpg"},
			SellerID:           sellerID,
		},
		{
			Name:           "Cotton Kurta",
			Description:    "Hand block printed cotton kurta",
			Price:          money.FromMajor(1299),
			OriginalPrice:  money.FromMajor(1299),
			Category:       "fashion",
			Stock:          40,
			Specifications: Specifications{Size: "M", Color: "Indigo"},
			Tags:           []string{"ethnic"},
			Images:         []string{"/images/products/kurta.jpg"},
			SellerID:       sellerID,
		},
		{
			Name:               "Non-stick Cookware Set",
			Description:        "Three piece induction friendly set",
			Price:              money.FromMajor(2499),
			OriginalPrice:      money.FromMajor(3199),
			DiscountPercentage: 22,
			Category:           "home-kitchen",
			Stock:              15,
			Specifications:     Specifications{Brand: "ChefPro", Weight: "3.2 kg"},
			Images:             []string{"/images/products/cookware.jpg"},
			SellerID:           sellerID,
		},
		{
			Name:          "Yoga Mat",
			Description:   "6mm anti-slip exercise mat",
			Price:         money.FromMajor(799),
			OriginalPrice: money.FromMajor(999),
			Category:      "sports",
			Stock:         60,
			Images:        []string{"/images/products/yoga-mat.jpg"},
			SellerID:      sellerID,
		},
	}
}
