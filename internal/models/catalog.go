package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices and totals go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"       json:"id"`
	Name        string    `gorm:"size:150;uniqueIndex;not null"  json:"name"`
	NameKey     string    `gorm:"size:150;uniqueIndex"           json:"-"`
	Slug        string    `gorm:"size:180;uniqueIndex;not null"  json:"slug"`
	Description string    `gorm:"type:text"                      json:"description"`
	ImageURL    string    `gorm:"size:500"                       json:"imageUrl"`
	Active      bool      `gorm:"not null;index"                 json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryKey is the case-folded form of a category name. Folding happens in
// Go because SQLite's LOWER only handles ASCII.
func CategoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type Product struct {
	ID               uint                `gorm:"primaryKey;autoIncrement"       json:"id"`
	Name             string              `gorm:"size:255;not null"              json:"name"`
	Slug             string              `gorm:"size:255;uniqueIndex;not null"  json:"slug"`
	ShortDescription string              `gorm:"size:500"                       json:"shortDescription"`
	Description      string              `gorm:"type:text"                      json:"description"`
	VolumeWeight     string              `gorm:"size:100"                       json:"volumeWeight"`
	Price            decimal.Decimal     `gorm:"type:numeric(12,2);not null"    json:"price"`
	OldPrice         decimal.NullDecimal `gorm:"type:numeric(12,2)"             json:"oldPrice"`
	Stock            int                 `gorm:"not null;check:stock >= 0"      json:"stock"`
	MainImage        string              `gorm:"size:500"                       json:"mainImage"`
	Active           bool                `gorm:"not null;index"                 json:"active"`
	CategoryID       *uint               `gorm:"index"                          json:"categoryId"`
	Category         *Category           `json:"category,omitempty"`
	ExternalID       *string             `gorm:"size:100;uniqueIndex"           json:"externalId"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}
