package models

import "github.com/google/uuid"

// Product is a digital subscription product (streaming plan, gaming
// credit pack). Description is rich text supplied by the admin editor
// and served as-is.
type Product struct {
	BaseModel
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Image        string      `json:"image"`
	Category     string      `json:"category"`
	SoldOut      bool        `json:"sold_out"`
	Active       bool        `json:"active"`
	DisplayOrder int         `json:"display_order"`
	Variations   []Variation `json:"variations,omitempty"`
}

// Variation is a purchasable plan of a product ("1 Month", "3 Months").
// Prices are major currency units (rupees) as entered by the admin;
// orders convert them to paisa at submission time.
type Variation struct {
	BaseModel
	ProductID     uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	DisplayOrder  int       `json:"display_order"`
}

// Bundle groups several products at a combined price. The discount
// percentage is derived from the two prices and never negative.
type Bundle struct {
	BaseModel
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Image              string   `json:"image"`
	Products           []string `gorm:"serializer:json" json:"products"`
	OriginalPrice      float64  `json:"original_price"`
	BundlePrice        float64  `json:"bundle_price"`
	DiscountPercentage int      `json:"discount_percentage"`
	Active             bool     `json:"active"`
}
