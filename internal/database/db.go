package database

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/mattn/go-sqlite3"              // SQLite driver

	"github.com/rafaapcode/waitery-backend-sub000/internal/config"
	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
)

// Open connects to the configured database and prepares the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(cfg.Database.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.LogMode(cfg.Database.Debug)

	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.DB().SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates and updates all required tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Category{},
		&models.Ingredient{},
		&models.Product{},
		&models.Order{},
		&models.OrderProduct{},
	).Error
}

// Seed ensures a demo organization with a small catalog exists. It is a
// no-op once any organization has been created.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Organization{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	owner := models.User{
		ID:    "5c1f2a60-0000-4000-8000-000000000001",
		Name:  "Demo Owner",
		Email: "owner@demo.waitery.dev",
		Role:  models.RoleAdmin,
	}
	org := models.Organization{
		ID:      "5c1f2a60-0000-4000-8000-000000000002",
		Name:    "Demo Restaurant",
		OwnerID: owner.ID,
	}
	owner.OrganizationID = org.ID

	pizzas := models.Category{
		ID:             "5c1f2a60-0000-4000-8000-000000000003",
		OrganizationID: org.ID,
		Name:           "Pizzas",
		Icon:           "🍕",
	}
	drinks := models.Category{
		ID:             "5c1f2a60-0000-4000-8000-000000000004",
		OrganizationID: org.ID,
		Name:           "Drinks",
		Icon:           "🥤",
	}

	products := []models.Product{
		{
			ID:             "5c1f2a60-0000-4000-8000-000000000005",
			OrganizationID: org.ID,
			CategoryID:     pizzas.ID,
			Name:           "Margherita",
			Price:          10,
		},
		{
			ID:             "5c1f2a60-0000-4000-8000-000000000006",
			OrganizationID: org.ID,
			CategoryID:     drinks.ID,
			Name:           "Lemonade",
			Price:          4,
			DiscountPrice:  3,
			DiscountActive: true,
		},
	}

	if err := db.Create(&org).Error; err != nil {
		return err
	}
	if err := db.Create(&owner).Error; err != nil {
		return err
	}
	for _, c := range []models.Category{pizzas, drinks} {
		if err := db.Create(&c).Error; err != nil {
			return err
		}
	}
	for _, p := range products {
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
