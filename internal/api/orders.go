package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafaapcode/waitery-backend-sub000/internal/auth"
	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
	"github.com/rafaapcode/waitery-backend-sub000/internal/orders"
)

func (s *Server) createOrder(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	var req orders.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.orders.Create(c.Param("orgId"), actor.UserID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.orders.Get(c.Param("orgId"), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) listOrganizationOrders(c *gin.Context) {
	page, err := s.orders.ListByOrganization(c.Param("orgId"), pageParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) listMyOrders(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	page, err := s.orders.ListByUser(actor.UserID, pageParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) listTodayOrders(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)
	includeCanceled := c.Query("includeCanceled") == "true"

	rows, err := s.orders.ListToday(c.Param("orgId"), actor.UserID, actor.Role, includeCanceled)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.orders.UpdateStatus(c.Param("orgId"), c.Param("orderId"), models.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) cancelOrder(c *gin.Context) {
	order, err := s.orders.Cancel(c.Param("orgId"), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) deleteOrder(c *gin.Context) {
	if err := s.orders.Delete(c.Param("orgId"), c.Param("orderId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func (s *Server) restartDay(c *gin.Context) {
	affected, err := s.orders.RestartDay(c.Param("orgId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canceled": affected})
}

// pageParam reads the requested page number; anything unparsable counts
// as page zero.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 0
	}
	return page
}
