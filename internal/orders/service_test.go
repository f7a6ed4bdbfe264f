package orders

import (
	"fmt"
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaapcode/waitery-backend-sub000/internal/apperr"
	"github.com/rafaapcode/waitery-backend-sub000/internal/catalog"
	"github.com/rafaapcode/waitery-backend-sub000/internal/database"
	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
	"github.com/rafaapcode/waitery-backend-sub000/internal/notify"
	"github.com/rafaapcode/waitery-backend-sub000/internal/scope"
)

const (
	orgID      = "org-1"
	otherOrgID = "org-2"
	adminID    = "user-admin"
	waiterID   = "user-waiter"
	productA   = "prod-a" // $10, no discount
	productB   = "prod-b" // $20, discounted to $15
	productX   = "prod-x" // belongs to the other organization
)

type published struct {
	channel string
	event   notify.Event
}

type fakeNotifier struct {
	ch chan published
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan published, 16)}
}

func (f *fakeNotifier) Publish(channel string, event notify.Event) {
	f.ch <- published{channel: channel, event: event}
}

func newTestService(t *testing.T) (*Service, *fakeNotifier, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A second connection would see an empty in-memory database.
	db.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	fixtures := []interface{}{
		&models.Organization{ID: orgID, Name: "Trattoria", OwnerID: adminID},
		&models.Organization{ID: otherOrgID, Name: "Elsewhere", OwnerID: "user-other"},
		&models.User{ID: adminID, Name: "Ana", Email: "ana@t.dev", Role: models.RoleAdmin, OrganizationID: orgID},
		&models.User{ID: waiterID, Name: "Rui", Email: "rui@t.dev", Role: models.RoleUser, OrganizationID: orgID},
		&models.User{ID: "user-other", Name: "Eve", Email: "eve@e.dev", Role: models.RoleAdmin, OrganizationID: otherOrgID},
		&models.Category{ID: "cat-pizzas", OrganizationID: orgID, Name: "Pizzas", Icon: "🍕"},
		&models.Category{ID: "cat-other", OrganizationID: otherOrgID, Name: "Burgers", Icon: "🍔"},
		&models.Product{ID: productA, OrganizationID: orgID, CategoryID: "cat-pizzas", Name: "Margherita", Price: 10},
		&models.Product{ID: productB, OrganizationID: orgID, CategoryID: "cat-pizzas", Name: "Calabresa", Price: 20, DiscountPrice: 15, DiscountActive: true},
		&models.Product{ID: productX, OrganizationID: otherOrgID, CategoryID: "cat-other", Name: "Smash", Price: 12},
	}
	for _, f := range fixtures {
		require.NoError(t, db.Create(f).Error)
	}

	notifier := newFakeNotifier()
	svc := NewService(
		NewOrderRepository(db),
		catalog.NewProductRepository(db),
		scope.NewChecker(db),
		notifier,
	)
	return svc, notifier, db
}

func createOrder(t *testing.T, svc *Service, items ...RequestedItem) *models.Order {
	t.Helper()
	order, err := svc.Create(orgID, waiterID, CreateOrderRequest{TableLabel: "T1", Items: items})
	require.NoError(t, err)
	return order
}

func TestCreateOrderFreezesSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t)

	order := createOrder(t, svc,
		RequestedItem{ProductID: productA, Quantity: 2},
		RequestedItem{ProductID: productB, Quantity: 1},
	)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.OrderStatusWaiting, order.Status)
	assert.Equal(t, 3, order.Quantity)
	assert.Equal(t, 35.0, order.TotalPrice)
	assert.Nil(t, order.DeletedAt)
	require.Len(t, order.Products, 2)

	byName := map[string]models.OrderProduct{}
	for _, line := range order.Products {
		byName[line.Name] = line
	}
	assert.Equal(t, 10.0, byName["Margherita"].UnitPrice)
	assert.False(t, byName["Margherita"].DiscountApplied)
	assert.Equal(t, 15.0, byName["Calabresa"].UnitPrice)
	assert.True(t, byName["Calabresa"].DiscountApplied)
	assert.Equal(t, "🍕 Pizzas", byName["Calabresa"].CategoryLabel)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(orgID, waiterID, CreateOrderRequest{})
	assert.True(t, apperr.IsValidation(err), "empty item list: got %v", err)

	_, err = svc.Create(orgID, waiterID, CreateOrderRequest{
		Items: []RequestedItem{{ProductID: productA, Quantity: 0}},
	})
	assert.True(t, apperr.IsValidation(err), "zero quantity: got %v", err)
}

func TestCreateOrderUnresolvableProducts(t *testing.T) {
	svc, _, _ := newTestService(t)

	// A partially valid set fails the same way a fully unknown one does.
	_, err := svc.Create(orgID, waiterID, CreateOrderRequest{
		Items: []RequestedItem{
			{ProductID: productA, Quantity: 1},
			{ProductID: "prod-ghost", Quantity: 1},
		},
	})
	assert.True(t, apperr.IsValidation(err), "got %v", err)

	// A product that exists under another tenant does not resolve.
	_, err = svc.Create(orgID, waiterID, CreateOrderRequest{
		Items: []RequestedItem{{ProductID: productX, Quantity: 1}},
	})
	assert.True(t, apperr.IsValidation(err), "got %v", err)
}

func TestCreateOrderUnknownOrganization(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create("org-ghost", waiterID, CreateOrderRequest{
		Items: []RequestedItem{{ProductID: productA, Quantity: 1}},
	})
	assert.True(t, apperr.IsNotFound(err), "got %v", err)
}

func TestCreateOrderNotifiesTenantChannel(t *testing.T) {
	svc, notifier, _ := newTestService(t)

	order := createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})

	select {
	case got := <-notifier.ch:
		assert.Equal(t, notify.OrderChannel(orgID), got.channel)
		assert.Equal(t, notify.ActionNewOrder, got.event.Action)
		assert.Equal(t, order.ID, got.event.Data.(*models.Order).ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification published")
	}
}

func TestSnapshotSurvivesCatalogEdits(t *testing.T) {
	svc, _, db := newTestService(t)

	order := createOrder(t, svc,
		RequestedItem{ProductID: productA, Quantity: 2},
		RequestedItem{ProductID: productB, Quantity: 1},
	)

	// Rewrite the catalog after the fact.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", productA).
		Updates(map[string]interface{}{"price": 99.0, "name": "Renamed"}).Error)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", productB).
		Update("discount_active", false).Error)
	require.NoError(t, db.Where("id = ?", productA).Delete(&models.Product{}).Error)

	got, err := svc.Get(orgID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, 35.0, got.TotalPrice)
	require.Len(t, got.Products, 2)
	for _, line := range got.Products {
		assert.NotEqual(t, "Renamed", line.Name)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	order := createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})

	got, err := svc.UpdateStatus(orgID, order.ID, models.OrderStatusInProduction)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProduction, got.Status)

	// Repeating the same transition is a caller error.
	_, err = svc.UpdateStatus(orgID, order.ID, models.OrderStatusInProduction)
	assert.True(t, apperr.IsConflict(err), "got %v", err)

	got, err = svc.Get(orgID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProduction, got.Status)

	// Backward moves are not validated; only the no-op is rejected.
	got, err = svc.UpdateStatus(orgID, order.ID, models.OrderStatusWaiting)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusWaiting, got.Status)
}

func TestUpdateStatusRejectsNonProgressionTargets(t *testing.T) {
	svc, _, _ := newTestService(t)
	order := createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})

	_, err := svc.UpdateStatus(orgID, order.ID, models.OrderStatusCanceled)
	assert.True(t, apperr.IsValidation(err), "CANCELED target: got %v", err)

	_, err = svc.UpdateStatus(orgID, order.ID, models.OrderStatus("SHIPPED"))
	assert.True(t, apperr.IsValidation(err), "unknown target: got %v", err)
}

func TestTenantIsolation(t *testing.T) {
	svc, _, _ := newTestService(t)
	order := createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})

	_, err := svc.Get(otherOrgID, order.ID)
	assert.True(t, apperr.IsNotFound(err), "get: got %v", err)

	_, err = svc.UpdateStatus(otherOrgID, order.ID, models.OrderStatusDone)
	assert.True(t, apperr.IsNotFound(err), "update-status: got %v", err)

	_, err = svc.Cancel(otherOrgID, order.ID)
	assert.True(t, apperr.IsNotFound(err), "cancel: got %v", err)

	// Delete can tell: the tenant exists, the order is real, but scoped
	// elsewhere.
	err = svc.Delete(otherOrgID, order.ID)
	assert.True(t, apperr.IsConflict(err), "delete: got %v", err)

	got, err := svc.Get(orgID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusWaiting, got.Status)
	assert.Nil(t, got.DeletedAt)
}

func TestCancelKeepsTheRow(t *testing.T) {
	svc, _, _ := newTestService(t)
	order := createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})

	canceled, err := svc.Cancel(orgID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, canceled.Status)
	require.NotNil(t, canceled.DeletedAt)

	got, err := svc.Get(orgID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, got.Status)
}

func TestDeleteRemovesTheRow(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})

	require.NoError(t, svc.Delete(orgID, order.ID))

	_, err := svc.Get(orgID, order.ID)
	assert.True(t, apperr.IsNotFound(err), "got %v", err)

	var lines int64
	require.NoError(t, db.Model(&models.OrderProduct{}).Where("order_id = ?", order.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestDeleteUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Delete(orgID, "order-ghost")
	assert.True(t, apperr.IsNotFound(err), "got %v", err)

	err = svc.Delete("org-ghost", "order-ghost")
	assert.True(t, apperr.IsNotFound(err), "got %v", err)
}

func TestRestartDay(t *testing.T) {
	svc, _, _ := newTestService(t)

	first := createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})
	createOrder(t, svc, RequestedItem{ProductID: productB, Quantity: 2})
	createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 3})

	_, err := svc.Cancel(orgID, first.ID)
	require.NoError(t, err)

	affected, err := svc.RestartDay(orgID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	rows, err := svc.ListToday(orgID, adminID, models.RoleAdmin, false)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = svc.ListToday(orgID, adminID, models.RoleAdmin, true)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, models.OrderStatusCanceled, row.Status)
		assert.NotNil(t, row.DeletedAt)
	}
}

func TestListTodayBoundary(t *testing.T) {
	svc, _, db := newTestService(t)

	today := createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})
	old := createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, 0, -2)).Error)

	rows, err := svc.ListToday(orgID, adminID, models.RoleAdmin, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, today.ID, rows[0].ID)
}

func TestListTodayActorStanding(t *testing.T) {
	svc, _, _ := newTestService(t)

	// An owning-role actor from another organization has no standing;
	// the tenant exists, so this is a conflict rather than a not-found.
	_, err := svc.ListToday(orgID, "user-other", models.RoleAdmin, false)
	assert.True(t, apperr.IsConflict(err), "got %v", err)

	_, err = svc.ListToday("org-ghost", adminID, models.RoleAdmin, false)
	assert.True(t, apperr.IsNotFound(err), "got %v", err)
}

func TestListByUserScopesToIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)

	createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})
	_, err := svc.Create(orgID, adminID, CreateOrderRequest{
		TableLabel: "T9",
		Items:      []RequestedItem{{ProductID: productB, Quantity: 1}},
	})
	require.NoError(t, err)

	page, err := svc.ListByUser(waiterID, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, waiterID, page.Items[0].UserID)
	assert.False(t, page.HasNext)
}

func TestPaginationAcrossPages(t *testing.T) {
	svc, _, _ := newTestService(t)

	for i := 0; i < 67; i++ {
		_, err := svc.Create(orgID, waiterID, CreateOrderRequest{
			TableLabel: fmt.Sprintf("T%d", i),
			Items:      []RequestedItem{{ProductID: productA, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	wantLens := []int{25, 25, 17, 0}
	wantNext := []bool{true, true, false, false}
	seen := map[string]bool{}

	for page := range wantLens {
		got, err := svc.ListByOrganization(orgID, page)
		require.NoError(t, err)
		assert.Len(t, got.Items, wantLens[page], "page %d", page)
		assert.Equal(t, wantNext[page], got.HasNext, "page %d", page)
		for _, order := range got.Items {
			assert.False(t, seen[order.ID], "order %s repeated across pages", order.ID)
			seen[order.ID] = true
		}
	}
	assert.Len(t, seen, 67)
}

func TestNegativePageBehavesLikeFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	createOrder(t, svc, RequestedItem{ProductID: productA, Quantity: 1})

	page, err := svc.ListByOrganization(orgID, -4)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasNext)
}
