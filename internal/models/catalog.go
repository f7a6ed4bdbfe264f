package models

import (
	"fmt"
	"time"
)

// Category groups products inside one organization's menu.
type Category struct {
	ID             string    `json:"id" gorm:"primary_key;size:36"`
	OrganizationID string    `json:"organization_id" gorm:"size:36;index;not null"`
	Name           string    `json:"name" gorm:"size:120;not null"`
	Icon           string    `json:"icon" gorm:"size:16"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Label renders the category the way it is frozen onto order snapshots,
// e.g. "🍕 Pizzas".
func (c Category) Label() string {
	if c.Icon == "" {
		return c.Name
	}
	return fmt.Sprintf("%s %s", c.Icon, c.Name)
}

// Ingredient is a stock-tracked supply item of an organization.
type Ingredient struct {
	ID             string    `json:"id" gorm:"primary_key;size:36"`
	OrganizationID string    `json:"organization_id" gorm:"size:36;index;not null"`
	Name           string    `json:"name" gorm:"size:120;not null"`
	Unit           string    `json:"unit" gorm:"size:20"`
	Stock          float64   `json:"stock"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Product is a sellable menu item. Price and discount state are live
// catalog values; orders copy them into snapshots at creation time.
type Product struct {
	ID             string    `json:"id" gorm:"primary_key;size:36"`
	OrganizationID string    `json:"organization_id" gorm:"size:36;index;not null"`
	CategoryID     string    `json:"category_id" gorm:"size:36;index;not null"`
	Category       Category  `json:"category,omitempty"`
	Name           string    `json:"name" gorm:"size:120;not null"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"image_url"`
	Price          float64   `json:"price"`
	DiscountPrice  float64   `json:"discount_price"`
	DiscountActive bool      `json:"discount_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EffectivePrice is the price an order placed right now would freeze.
func (p Product) EffectivePrice() float64 {
	if p.DiscountActive {
		return p.DiscountPrice
	}
	return p.Price
}

// ValidateProduct checks the fields a catalog write must provide.
func ValidateProduct(p *Product) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("product price must be greater than 0")
	}
	if p.DiscountActive && p.DiscountPrice <= 0 {
		return fmt.Errorf("discounted price must be greater than 0 when the discount is active")
	}
	if p.CategoryID == "" {
		return fmt.Errorf("product category is required")
	}
	return nil
}
