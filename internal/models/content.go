package models

import "time"

type SliderImage struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Title        string    `gorm:"size:255"                  json:"title"`
	Description  string    `gorm:"type:text"                 json:"description"`
	ImageURL     string    `gorm:"size:500;not null"         json:"imageUrl"`
	DisplayOrder int       `gorm:"not null;index"            json:"displayOrder"`
	Active       bool      `gorm:"not null"                  json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AppSetting struct {
	Key       string    `gorm:"primaryKey;size:100"  json:"key"`
	Value     string    `gorm:"type:text"            json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Category{},
		&Product{},
		&User{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&SliderImage{},
		&AppSetting{},
	}
}
