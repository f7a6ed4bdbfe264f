// Package api is the HTTP front end: route wiring, input binding and the
// mapping of domain error kinds onto HTTP statuses.
package api

import (
	"log"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/rafaapcode/waitery-backend-sub000/internal/apperr"
	"github.com/rafaapcode/waitery-backend-sub000/internal/auth"
	"github.com/rafaapcode/waitery-backend-sub000/internal/catalog"
	"github.com/rafaapcode/waitery-backend-sub000/internal/monitoring"
	"github.com/rafaapcode/waitery-backend-sub000/internal/notify"
	"github.com/rafaapcode/waitery-backend-sub000/internal/orders"
)

// Server owns the router and the services it exposes.
type Server struct {
	router  *gin.Engine
	orders  orders.ServiceInterface
	catalog *catalog.Service
	hub     *notify.Hub
}

// NewServer wires the routes.
func NewServer(
	orderService orders.ServiceInterface,
	catalogService *catalog.Service,
	hub *notify.Hub,
	jwtSecret []byte,
	enforcer *casbin.Enforcer,
) *Server {
	s := &Server{
		router:  gin.Default(),
		orders:  orderService,
		catalog: catalogService,
		hub:     hub,
	}
	s.setupRoutes(jwtSecret, enforcer)
	return s
}

// Router returns the gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes(jwtSecret []byte, enforcer *casbin.Enforcer) {
	s.router.Use(monitoring.RequestDuration())

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Realtime order feed; browsers cannot set an Authorization header
	// on websocket connects, so the feed carries no order payload a
	// catalog listing would not expose anyway.
	s.router.GET("/ws/orders/:orgId", func(c *gin.Context) {
		s.hub.ServeWS(c, notify.OrderChannel(c.Param("orgId")))
	})

	v1 := s.router.Group("/api/v1")
	v1.Use(auth.Middleware(jwtSecret))
	v1.Use(auth.Authorize(enforcer))
	{
		v1.GET("/orgs/:orgId", s.getOrganization)

		// Order lifecycle
		v1.POST("/orgs/:orgId/orders", s.createOrder)
		v1.GET("/orgs/:orgId/orders", s.listOrganizationOrders)
		v1.GET("/orgs/:orgId/orders/today", s.listTodayOrders)
		v1.GET("/orgs/:orgId/orders/:orderId", s.getOrder)
		v1.PATCH("/orgs/:orgId/orders/:orderId/status", s.updateOrderStatus)
		v1.PATCH("/orgs/:orgId/orders/:orderId/cancel", s.cancelOrder)
		v1.DELETE("/orgs/:orgId/orders/:orderId", s.deleteOrder)
		v1.POST("/orgs/:orgId/orders/restart-day", s.restartDay)
		v1.GET("/me/orders", s.listMyOrders)

		// Catalog
		v1.POST("/orgs/:orgId/products", s.createProduct)
		v1.GET("/orgs/:orgId/products", s.listProducts)
		v1.GET("/orgs/:orgId/products/:productId", s.getProduct)
		v1.PUT("/orgs/:orgId/products/:productId", s.updateProduct)
		v1.DELETE("/orgs/:orgId/products/:productId", s.deleteProduct)

		v1.POST("/orgs/:orgId/categories", s.createCategory)
		v1.GET("/orgs/:orgId/categories", s.listCategories)
		v1.DELETE("/orgs/:orgId/categories/:categoryId", s.deleteCategory)

		v1.POST("/orgs/:orgId/ingredients", s.createIngredient)
		v1.GET("/orgs/:orgId/ingredients", s.listIngredients)
		v1.PATCH("/orgs/:orgId/ingredients/:ingredientId/stock", s.updateIngredientStock)
		v1.DELETE("/orgs/:orgId/ingredients/:ingredientId", s.deleteIngredient)
	}
}

func (s *Server) getOrganization(c *gin.Context) {
	org, err := s.catalog.GetOrganization(c.Param("orgId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

// writeError maps the three domain error kinds to HTTP statuses.
// Anything else is a persistence or infrastructure failure.
func writeError(c *gin.Context, err error) {
	switch {
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
