package api

import (
	"net/http"

	"example.com/bistro/services/restaurant/internal/metrics"
	"example.com/bistro/services/restaurant/internal/models"
	"example.com/bistro/services/restaurant/internal/services"
	"example.com/bistro/services/restaurant/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrdersHandler handles order HTTP requests
type OrdersHandler struct {
	orderService *services.OrderService
	tracer       tracing.Tracer
	metrics      *metrics.Metrics
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(orderService *services.OrderService, tracer tracing.Tracer, m *metrics.Metrics) *OrdersHandler {
	return &OrdersHandler{
		orderService: orderService,
		tracer:       tracer,
		metrics:      m,
	}
}

// CreateOrder handles POST /api/orders
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-order")
	defer h.tracer.EndTransaction(txn)

	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		h.tracer.RecordError(txn, err)
		WriteError(c, err)
		return
	}

	h.metrics.IncrementCounter(metrics.OrdersCreated)
	c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /api/orders
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/:id
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListByStatus handles GET /api/orders/status/:status
func (h *OrdersHandler) ListByStatus(c *gin.Context) {
	status := models.OrderStatus(c.Param("status"))

	orders, err := h.orderService.ListOrdersByStatus(c.Request.Context(), status)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// TrackOrder handles GET /api/orders/track/:orderNumber
func (h *OrdersHandler) TrackOrder(c *gin.Context) {
	order, err := h.orderService.Track(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// RecentOrders handles GET /api/orders/recent
func (h *OrdersHandler) RecentOrders(c *gin.Context) {
	orders, err := h.orderService.RecentOrders(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// MyOrders handles GET /api/orders/my-orders for delivery staff
func (h *OrdersHandler) MyOrders(c *gin.Context) {
	identity := CallerIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required", Code: "UNAUTHORIZED"})
		return
	}

	orders, err := h.orderService.MyOrders(c.Request.Context(), identity.UserID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// StatusOverview handles GET /api/orders/overview
func (h *OrdersHandler) StatusOverview(c *gin.Context) {
	overview, err := h.orderService.StatusOverview(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// TotalRevenue handles GET /api/orders/revenue
func (h *OrdersHandler) TotalRevenue(c *gin.Context) {
	revenue, err := h.orderService.TotalRevenue(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue_cents": revenue})
}

// UpdateStatusRequest is the payload for a status transition
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/orders/:id/status
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-update-order-status")
	defer h.tracer.EndTransaction(txn)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.tracer.RecordError(txn, err)
		WriteError(c, err)
		return
	}

	switch order.Status {
	case models.StatusDelivered:
		h.metrics.IncrementCounter(metrics.OrdersDelivered)
	case models.StatusCancelled:
		h.metrics.IncrementCounter(metrics.OrdersCancelled)
	}

	c.JSON(http.StatusOK, order)
}

// AssignDeliveryRequest is the payload for assigning delivery staff
type AssignDeliveryRequest struct {
	StaffID uuid.UUID `json:"staff_id" binding:"required"`
}

// AssignDelivery handles PATCH /api/orders/:id/assign-delivery
func (h *OrdersHandler) AssignDelivery(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-assign-delivery")
	defer h.tracer.EndTransaction(txn)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	var req AssignDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	order, err := h.orderService.AssignDelivery(c.Request.Context(), id, req.StaffID)
	if err != nil {
		h.tracer.RecordError(txn, err)
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteAll handles DELETE /api/orders/all
func (h *OrdersHandler) DeleteAll(c *gin.Context) {
	deleted, err := h.orderService.DeleteAllOrders(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
