package domain

import (
	"fmt"
	"time"
)

// SettingsID keys the single settings record in every dataset store.
const SettingsID = "app"

// Settings controls storefront behavior; a single record per deployment.
type Settings struct {
	ID             string    `json:"id"`
	NewProductDays int       `json:"newProductDays"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func DefaultSettings() Settings {
	return Settings{ID: SettingsID, NewProductDays: 14}
}

func (s *Settings) Validate() error {
	if s.NewProductDays < 1 {
		return fmt.Errorf("newProductDays must be at least 1")
	}
	return nil
}

// AppSettingsRow is the remote store row shape for the app_settings table.
type AppSettingsRow struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	NewProductDays int       `gorm:"column:new_product_days" json:"new_product_days"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName Specify table name
func (AppSettingsRow) TableName() string {
	return "app_settings"
}
