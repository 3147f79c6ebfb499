package models

import (
	"time"
)

// ProductCategory is the enum for the 'category' column on 'products'.
type ProductCategory string

const (
	CategoryCleanser    ProductCategory = "cleanser"
	CategorySerum       ProductCategory = "serum"
	CategoryToner       ProductCategory = "toner"
	CategoryMoisturizer ProductCategory = "moisturizer"
	CategoryMask        ProductCategory = "mask"
	CategorySunscreen   ProductCategory = "sunscreen"
)

// ProductCategories lists every valid category, in display order.
var ProductCategories = []ProductCategory{
	CategoryCleanser,
	CategorySerum,
	CategoryToner,
	CategoryMoisturizer,
	CategoryMask,
	CategorySunscreen,
}

func (c ProductCategory) IsValid() bool {
	for _, known := range ProductCategories {
		if c == known {
			return true
		}
	}
	return false
}

// SkinType is the enum for entries of the 'skin_type' set on 'products'.
type SkinType string

const (
	SkinNormal      SkinType = "normal"
	SkinDry         SkinType = "dry"
	SkinOily        SkinType = "oily"
	SkinCombination SkinType = "combination"
	SkinSensitive   SkinType = "sensitive"
)

var SkinTypes = []SkinType{SkinNormal, SkinDry, SkinOily, SkinCombination, SkinSensitive}

func (s SkinType) IsValid() bool {
	for _, known := range SkinTypes {
		if s == known {
			return true
		}
	}
	return false
}

// Product is the model for the 'products' table.
// The catalog is the system of record for price and stock_quantity; the
// order pipeline only ever touches stock through the conditional
// decrement/increment operations on the catalog store.
type Product struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`

	Price         float64 `json:"price" db:"price"`
	StockQuantity int     `json:"stockQuantity" db:"stock_quantity"`

	Category  ProductCategory `json:"category" db:"category"`
	SkinTypes []SkinType      `json:"skinTypes" db:"skin_types"` // stored as JSON in DB
	Featured  bool            `json:"featured" db:"featured"`

	ImageURL *string `json:"imageUrl,omitempty" db:"image_url"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductFilter holds the optional filters for catalog listing.
// Zero values mean "no filter".
type ProductFilter struct {
	Category     ProductCategory
	SkinType     SkinType
	FeaturedOnly bool
	Query        string // substring match on name/description
}
