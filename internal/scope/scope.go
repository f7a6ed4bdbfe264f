// Package scope verifies tenant and user ownership before any order
// read or mutation proceeds. Every lifecycle operation goes through this
// checker so the not-found/conflict distinction stays consistent across
// the whole backend.
package scope

import (
	"github.com/jinzhu/gorm"

	"github.com/rafaapcode/waitery-backend-sub000/internal/apperr"
	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
)

// Checker resolves ownership questions against the store.
type Checker struct {
	db *gorm.DB
}

// NewChecker creates a scoping checker on the given connection.
func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

// Organization returns the organization or a not-found error.
func (c *Checker) Organization(orgID string) (*models.Organization, error) {
	var org models.Organization
	err := c.db.Where("id = ?", orgID).First(&org).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("organization %s not found", orgID)
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// OrderInOrganization returns the order only when it belongs to the
// organization. A missing order and an order owned by another tenant are
// both reported as not-found, so cross-tenant existence never leaks.
// Soft-canceled orders still resolve.
func (c *Checker) OrderInOrganization(orderID, orgID string) (*models.Order, error) {
	var order models.Order
	err := c.db.Unscoped().
		Preload("Products").
		Where("id = ? AND organization_id = ?", orderID, orgID).
		First(&order).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderOwnedByUser is the user-scoped analogue of OrderInOrganization.
func (c *Checker) OrderOwnedByUser(orderID, userID string) (*models.Order, error) {
	var order models.Order
	err := c.db.Unscoped().
		Preload("Products").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ActorInOrganization verifies that the user operates the organization.
// The organization does exist here, so a mismatch is a conflict rather
// than a not-found: the actor simply lacks standing.
func (c *Checker) ActorInOrganization(userID, orgID string) error {
	var user models.User
	err := c.db.Where("id = ?", userID).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return apperr.Conflict("user %s is not associated with organization %s", userID, orgID)
	}
	if err != nil {
		return err
	}
	if user.OrganizationID != orgID {
		return apperr.Conflict("user %s is not associated with organization %s", userID, orgID)
	}
	return nil
}
