package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaapcode/waitery-backend-sub000/internal/auth"
	"github.com/rafaapcode/waitery-backend-sub000/internal/catalog"
	"github.com/rafaapcode/waitery-backend-sub000/internal/database"
	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
	"github.com/rafaapcode/waitery-backend-sub000/internal/notify"
	"github.com/rafaapcode/waitery-backend-sub000/internal/orders"
	"github.com/rafaapcode/waitery-backend-sub000/internal/scope"
)

var testSecret = []byte("test-secret")

type testServer struct {
	router     *gin.Engine
	adminToken string
	userToken  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	fixtures := []interface{}{
		&models.Organization{ID: "org-1", Name: "Trattoria", OwnerID: "user-admin"},
		&models.User{ID: "user-admin", Name: "Ana", Email: "ana@t.dev", Role: models.RoleAdmin, OrganizationID: "org-1"},
		&models.User{ID: "user-waiter", Name: "Rui", Email: "rui@t.dev", Role: models.RoleUser, OrganizationID: "org-1"},
		&models.Category{ID: "cat-pizzas", OrganizationID: "org-1", Name: "Pizzas", Icon: "🍕"},
		&models.Product{ID: "prod-a", OrganizationID: "org-1", CategoryID: "cat-pizzas", Name: "Margherita", Price: 10},
		&models.Product{ID: "prod-b", OrganizationID: "org-1", CategoryID: "cat-pizzas", Name: "Calabresa", Price: 20, DiscountPrice: 15, DiscountActive: true},
	}
	for _, f := range fixtures {
		require.NoError(t, db.Create(f).Error)
	}

	enforcer, err := auth.NewEnforcer("../../config/rbac_model.conf", "../../config/rbac_policy.csv")
	require.NoError(t, err)

	checker := scope.NewChecker(db)
	hub := notify.NewHub()
	catalogService := catalog.NewService(
		catalog.NewProductRepository(db),
		catalog.NewCategoryRepository(db),
		catalog.NewIngredientRepository(db),
		checker,
	)
	orderService := orders.NewService(
		orders.NewOrderRepository(db),
		catalog.NewProductRepository(db),
		checker,
		hub,
	)
	server := NewServer(orderService, catalogService, hub, testSecret, enforcer)

	adminToken, err := auth.SignToken(testSecret, auth.Actor{
		UserID: "user-admin", Role: models.RoleAdmin, OrganizationID: "org-1", Fingerprint: "dev",
	}, time.Hour)
	require.NoError(t, err)

	userToken, err := auth.SignToken(testSecret, auth.Actor{
		UserID: "user-waiter", Role: models.RoleUser, OrganizationID: "org-1", Fingerprint: "dev",
	}, time.Hour)
	require.NoError(t, err)

	return &testServer{router: server.Router(), adminToken: adminToken, userToken: userToken}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHealthNeedsNoToken(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/v1/orgs/org-1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGate(t *testing.T) {
	ts := newTestServer(t)

	// Waiters cannot reset the day.
	w := ts.do(t, http.MethodPost, "/api/v1/orgs/org-1/orders/restart-day", ts.userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/orgs/org-1/orders/restart-day", ts.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrderRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/orgs/org-1/orders", ts.userToken, orders.CreateOrderRequest{
		TableLabel: "T1",
		Items: []orders.RequestedItem{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 3, created.Quantity)
	assert.Equal(t, 35.0, created.TotalPrice)
	assert.Equal(t, models.OrderStatusWaiting, created.Status)
	assert.Equal(t, "user-waiter", created.UserID)

	w = ts.do(t, http.MethodGet, "/api/v1/orgs/org-1/orders/"+created.ID, ts.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The creator sees it in the personal history.
	w = ts.do(t, http.MethodGet, "/api/v1/me/orders", ts.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page orders.OrderPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.False(t, page.HasNext)
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer(t)

	// Validation → 400
	w := ts.do(t, http.MethodPost, "/api/v1/orgs/org-1/orders", ts.userToken, orders.CreateOrderRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Not-found → 404
	w = ts.do(t, http.MethodGet, "/api/v1/orgs/org-1/orders/order-ghost", ts.userToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Conflict → 409 (same-status transition)
	w = ts.do(t, http.MethodPost, "/api/v1/orgs/org-1/orders", ts.userToken, orders.CreateOrderRequest{
		TableLabel: "T2",
		Items:      []orders.RequestedItem{{ProductID: "prod-a", Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = ts.do(t, http.MethodPatch, "/api/v1/orgs/org-1/orders/"+created.ID+"/status", ts.adminToken,
		map[string]string{"status": "WAITING"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogRequiresAdmin(t *testing.T) {
	ts := newTestServer(t)

	body := catalog.CreateProductRequest{CategoryID: "cat-pizzas", Name: "Quattro", Price: 14}

	w := ts.do(t, http.MethodPost, "/api/v1/orgs/org-1/products", ts.userToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/orgs/org-1/products", ts.adminToken, body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
