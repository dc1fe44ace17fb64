package domain

import (
	"fmt"
	"strings"
	"time"
)

// PackSize is the number of pieces in one pack; pack price derives from it.
const PackSize = 6

// Product is the application-shape catalog record. Field names follow the
// storefront JSON contract (camelCase); remote rows use ProductRow.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ProductCode string    `json:"productCode"`
	BoxQuantity int       `json:"boxQuantity"`
	PiecePrice  float64   `json:"piecePrice"`
	ImageURL    string    `json:"imageUrl"`
	IsNew       bool      `json:"isNew"`
	CategoryID  string    `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PackPrice is derived at read time and never stored.
func (p *Product) PackPrice() float64 {
	return p.PiecePrice * PackSize
}

// BoxPrice is derived at read time and never stored.
func (p *Product) BoxPrice() float64 {
	return p.PiecePrice * float64(p.BoxQuantity)
}

// Validate rejects bad input before it ever reaches the reconciler.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if p.PiecePrice < 0 {
		return fmt.Errorf("piece price must not be negative")
	}
	if p.BoxQuantity < 0 {
		return fmt.Errorf("box quantity must not be negative")
	}
	return nil
}

// IsNewWithin reports whether the record should appear in the new-arrivals
// view given the configured window in days.
func (p *Product) IsNewWithin(days int, now time.Time) bool {
	if !p.IsNew || days < 1 {
		return false
	}
	return now.Sub(p.CreatedAt) <= time.Duration(days)*24*time.Hour
}

// ProductRow is the remote store row shape for the products table.
// piece_price maps to a numeric column and is scanned as text to avoid
// float drift; the remote client coerces it on the way in.
type ProductRow struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"index" json:"name"`
	ProductCode string    `gorm:"column:product_code;size:64" json:"product_code"`
	BoxQuantity int       `gorm:"column:box_quantity" json:"box_quantity"`
	PiecePrice  string    `gorm:"column:piece_price;type:numeric(12,2)" json:"piece_price"`
	ImageURL    string    `gorm:"column:image_url;size:1024" json:"image_url"`
	IsNew       *bool     `gorm:"column:is_new" json:"is_new"`
	CategoryID  string    `gorm:"column:category_id;size:64;index" json:"category_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (ProductRow) TableName() string {
	return "products"
}
