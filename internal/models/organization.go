package models

import "time"

// Organization represents a restaurant tenant. Every catalog entity and
// every order is partitioned by its organization id.
type Organization struct {
	ID        string    `json:"id" gorm:"primary_key;size:36"`
	Name      string    `json:"name" gorm:"size:120;not null"`
	OwnerID   string    `json:"owner_id" gorm:"size:36;index"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRole determines which routes an authenticated user may reach.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// User represents a staff member or the owner of an organization.
type User struct {
	ID             string    `json:"id" gorm:"primary_key;size:36"`
	Name           string    `json:"name" gorm:"size:120;not null"`
	Email          string    `json:"email" gorm:"size:180;unique_index"`
	Role           UserRole  `json:"role" gorm:"size:20;not null"`
	OrganizationID string    `json:"organization_id" gorm:"size:36;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
