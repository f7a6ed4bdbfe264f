package orders

import (
	"time"

	"github.com/jinzhu/gorm"

	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
	"github.com/rafaapcode/waitery-backend-sub000/internal/pagination"
)

// OrderRepositoryInterface is the persistence contract of the order
// lifecycle. Soft-canceled rows stay in the store; only HardDelete
// removes them.
type OrderRepositoryInterface interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	ListByOrganization(orgID string, page pagination.Params) ([]models.Order, error)
	ListByUser(userID string, page pagination.Params) ([]models.Order, error)
	ListTodayByOrganization(orgID string, since time.Time, includeCanceled bool) ([]models.Order, error)
	UpdateStatusWhereDifferent(id string, status models.OrderStatus) (int64, error)
	SoftCancel(id string, at time.Time) error
	HardDelete(id string) error
	CancelTodayByOrganization(orgID string, since, at time.Time) (int64, error)
}

// OrderRepository is the gorm-backed order store.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order. The snapshot lines ride along as an
// association save, keyed by the order id.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID fetches an order by id regardless of tenant and soft-delete
// state. Callers are responsible for scoping.
func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Unscoped().
		Preload("Products").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByOrganization fetches one over-fetched page of the tenant's order
// history, soft-canceled rows included, in stable creation order.
func (r *OrderRepository) ListByOrganization(orgID string, page pagination.Params) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Unscoped().
		Preload("Products").
		Where("organization_id = ?", orgID).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.FetchLimit()).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser is the user-scoped analogue of ListByOrganization.
func (r *OrderRepository) ListByUser(userID string, page pagination.Params) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Unscoped().
		Preload("Products").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.FetchLimit()).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListTodayByOrganization fetches the tenant's orders created since the
// given instant. Soft-canceled rows are excluded unless asked for; no
// upper time bound is applied.
func (r *OrderRepository) ListTodayByOrganization(orgID string, since time.Time, includeCanceled bool) ([]models.Order, error) {
	q := r.db
	if includeCanceled {
		q = q.Unscoped()
	}
	var orders []models.Order
	err := q.Preload("Products").
		Where("organization_id = ? AND created_at >= ?", orgID, since).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatusWhereDifferent performs the status transition as a single
// conditional write and reports the affected row count. Zero rows means
// the order already carried the target status (or is soft-canceled), so
// the read-then-write race window of a separate check is closed.
func (r *OrderRepository) UpdateStatusWhereDifferent(id string, status models.OrderStatus) (int64, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status <> ?", id, status).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// SoftCancel marks the order canceled and stamps deleted_at, keeping the
// row in place.
func (r *OrderRepository) SoftCancel(id string, at time.Time) error {
	return r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusCanceled,
			"deleted_at": at,
		}).Error
}

// HardDelete removes the order row and its snapshot lines permanently.
func (r *OrderRepository) HardDelete(id string) error {
	if err := r.db.Unscoped().Where("id = ?", id).Delete(&models.Order{}).Error; err != nil {
		return err
	}
	return r.db.Where("order_id = ?", id).Delete(&models.OrderProduct{}).Error
}

// CancelTodayByOrganization soft-cancels all of the tenant's active
// orders created since the given instant in one set-based update.
func (r *OrderRepository) CancelTodayByOrganization(orgID string, since, at time.Time) (int64, error) {
	res := r.db.Model(&models.Order{}).
		Where("organization_id = ? AND created_at >= ?", orgID, since).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusCanceled,
			"deleted_at": at,
		})
	return res.RowsAffected, res.Error
}
