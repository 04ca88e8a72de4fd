package models

import "time"

// Product represents a product in the store.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255);index"`
	Price       float64   `json:"price"`
	Category    string    `json:"category" gorm:"type:varchar(100)"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
