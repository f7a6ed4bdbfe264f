package orders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"github.com/rafaapcode/waitery-backend-sub000/internal/apperr"
	"github.com/rafaapcode/waitery-backend-sub000/internal/catalog"
	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
	"github.com/rafaapcode/waitery-backend-sub000/internal/monitoring"
	"github.com/rafaapcode/waitery-backend-sub000/internal/notify"
	"github.com/rafaapcode/waitery-backend-sub000/internal/pagination"
	"github.com/rafaapcode/waitery-backend-sub000/internal/scope"
)

// CreateOrderRequest carries the input of the Create operation.
type CreateOrderRequest struct {
	TableLabel string          `json:"table_label"`
	Items      []RequestedItem `json:"items"`
}

// OrderPage is the page wrapper returned by the order listings.
type OrderPage struct {
	Items   []models.Order `json:"items"`
	HasNext bool           `json:"has_next"`
}

// Notifier publishes an event to a named channel, best effort. A failed
// or dropped delivery must never surface to the order's caller.
type Notifier interface {
	Publish(channel string, event notify.Event)
}

// ServiceInterface exposes the nine order lifecycle operations.
type ServiceInterface interface {
	Create(orgID, userID string, req CreateOrderRequest) (*models.Order, error)
	Get(orgID, orderID string) (*models.Order, error)
	ListByOrganization(orgID string, page int) (*OrderPage, error)
	ListByUser(userID string, page int) (*OrderPage, error)
	ListToday(orgID, actorID string, actorRole models.UserRole, includeCanceled bool) ([]models.Order, error)
	UpdateStatus(orgID, orderID string, target models.OrderStatus) (*models.Order, error)
	Cancel(orgID, orderID string) (*models.Order, error)
	Delete(orgID, orderID string) error
	RestartDay(orgID string) (int64, error)
}

// Service drives the order lifecycle. All scoping checks run before any
// state change; notification emission is fire-and-forget.
type Service struct {
	orders   OrderRepositoryInterface
	products catalog.ProductRepositoryInterface
	scope    *scope.Checker
	notifier Notifier
}

// NewService creates the order service.
func NewService(
	orders OrderRepositoryInterface,
	products catalog.ProductRepositoryInterface,
	checker *scope.Checker,
	notifier Notifier,
) *Service {
	return &Service{
		orders:   orders,
		products: products,
		scope:    checker,
		notifier: notifier,
	}
}

// Create builds an immutable snapshot from the tenant's catalog,
// persists the order as WAITING and announces it on the tenant's
// realtime channel.
func (s *Service) Create(orgID, userID string, req CreateOrderRequest) (*models.Order, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	if _, err := s.scope.Organization(orgID); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDsForOrganization(orgID, ids)
	if err != nil {
		return nil, err
	}

	snap, err := buildSnapshot(req.Items, products)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		UserID:         userID,
		TableLabel:     req.TableLabel,
		Status:         models.OrderStatusWaiting,
		Quantity:       snap.quantity,
		TotalPrice:     snap.totalPrice,
		Products:       snap.lines,
		CreatedAt:      time.Now(),
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	monitoring.OrdersCreated.WithLabelValues(orgID).Inc()
	log.Printf("order %s created for organization %s (total %.2f)", order.ID, orgID, order.TotalPrice)

	if s.notifier != nil {
		go s.notifier.Publish(notify.OrderChannel(orgID), notify.Event{
			Action: notify.ActionNewOrder,
			Data:   order,
		})
	}
	return order, nil
}

// Get returns the order when it belongs to the organization.
func (s *Service) Get(orgID, orderID string) (*models.Order, error) {
	return s.scope.OrderInOrganization(orderID, orgID)
}

// ListByOrganization returns one page of the tenant's order history.
func (s *Service) ListByOrganization(orgID string, page int) (*OrderPage, error) {
	if _, err := s.scope.Organization(orgID); err != nil {
		return nil, err
	}
	params := pagination.New(page)
	rows, err := s.orders.ListByOrganization(orgID, params)
	if err != nil {
		return nil, err
	}
	return &OrderPage{
		Items:   rows[:params.Cut(len(rows))],
		HasNext: params.HasNext(len(rows)),
	}, nil
}

// ListByUser returns one page of the requesting user's own orders. No
// scoping beyond the caller's identity applies.
func (s *Service) ListByUser(userID string, page int) (*OrderPage, error) {
	params := pagination.New(page)
	rows, err := s.orders.ListByUser(userID, params)
	if err != nil {
		return nil, err
	}
	return &OrderPage{
		Items:   rows[:params.Cut(len(rows))],
		HasNext: params.HasNext(len(rows)),
	}, nil
}

// ListToday returns the tenant's orders created since local midnight.
// Owning-role actors must be associated with the tenant; a mismatch is a
// conflict since the tenant itself does exist. Soft-canceled orders are
// included only on explicit request.
func (s *Service) ListToday(orgID, actorID string, actorRole models.UserRole, includeCanceled bool) ([]models.Order, error) {
	if _, err := s.scope.Organization(orgID); err != nil {
		return nil, err
	}
	if actorRole == models.RoleAdmin {
		if err := s.scope.ActorInOrganization(actorID, orgID); err != nil {
			return nil, err
		}
	}
	return s.orders.ListTodayByOrganization(orgID, startOfToday(), includeCanceled)
}

// UpdateStatus transitions the order to target. The target has to differ
// from the current status; asking for the transition the order already
// took is a caller error, reported as conflict. CANCELED is not a legal
// target here.
func (s *Service) UpdateStatus(orgID, orderID string, target models.OrderStatus) (*models.Order, error) {
	if !target.Progression() {
		return nil, apperr.Validation("invalid status %q", string(target))
	}
	if _, err := s.scope.OrderInOrganization(orderID, orgID); err != nil {
		return nil, err
	}

	affected, err := s.orders.UpdateStatusWhereDifferent(orderID, target)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperr.Conflict("order %s already has status %s", orderID, string(target))
	}
	return s.orders.GetByID(orderID)
}

// Cancel soft-cancels the order: status becomes CANCELED, deleted_at is
// stamped and the row stays fetchable by id.
func (s *Service) Cancel(orgID, orderID string) (*models.Order, error) {
	if _, err := s.scope.OrderInOrganization(orderID, orgID); err != nil {
		return nil, err
	}
	if err := s.orders.SoftCancel(orderID, time.Now()); err != nil {
		return nil, err
	}
	monitoring.OrdersCanceled.WithLabelValues(orgID).Inc()
	return s.orders.GetByID(orderID)
}

// Delete removes the order permanently, independent of its status. An
// order that exists under another tenant than the one named in the
// request is a conflict, not a not-found.
func (s *Service) Delete(orgID, orderID string) error {
	if _, err := s.scope.Organization(orgID); err != nil {
		return err
	}
	order, err := s.orders.GetByID(orderID)
	if gorm.IsRecordNotFoundError(err) {
		return apperr.NotFound("order %s not found", orderID)
	}
	if err != nil {
		return err
	}
	if order.OrganizationID != orgID {
		return apperr.Conflict("order %s does not belong to organization %s", orderID, orgID)
	}
	return s.orders.HardDelete(orderID)
}

// RestartDay soft-cancels all of the tenant's active orders created
// since local midnight and reports how many were affected.
func (s *Service) RestartDay(orgID string) (int64, error) {
	if _, err := s.scope.Organization(orgID); err != nil {
		return 0, err
	}
	affected, err := s.orders.CancelTodayByOrganization(orgID, startOfToday(), time.Now())
	if err != nil {
		return 0, err
	}
	log.Printf("restart-day canceled %d orders for organization %s", affected, orgID)
	return affected, nil
}

// startOfToday is 00:00:00 of the current date in server local time. No
// upper bound is paired with it, so clock-skewed future orders match.
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
