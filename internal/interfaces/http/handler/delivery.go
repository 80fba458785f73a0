package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apporder "github.com/ims/backend/internal/application/order"
	"github.com/ims/backend/internal/interfaces/http/middleware"
)

// DeliveryHandler handles delivery status API endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *apporder.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *apporder.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// RegisterRoutes registers delivery routes on the given router group
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("/:id/deliveries", h.ListByOrder)
		orders.POST("/:id/deliveries/delivered", h.MarkDelivered)
		orders.POST("/:id/deliveries/returned", h.MarkReturned)
		orders.POST("/:id/deliveries/return-order", h.ReturnOrder)
	}

	deliveries := rg.Group("/deliveries")
	{
		deliveries.GET("/pending", h.ListPending)
		deliveries.GET("/delivered", h.ListDelivered)
		deliveries.GET("/returned", h.ListReturned)
	}
}

// ListByOrder retrieves all delivery rows for an order
func (h *DeliveryHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	deliveries, err := h.deliveryService.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deliveries)
}

// MarkDelivered flags an order's pending deliveries as delivered and rolls
// the order status up once every line is delivered
func (h *DeliveryHandler) MarkDelivered(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req apporder.MarkDeliveredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.deliveryService.MarkDelivered(c.Request.Context(), getActor(c), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkReturned flags an order's undelivered deliveries as returned
func (h *DeliveryHandler) MarkReturned(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req apporder.MarkReturnedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.deliveryService.MarkReturned(c.Request.Context(), getActor(c), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ReturnOrder records a return override on every delivery row of an order
// without touching the order status
func (h *DeliveryHandler) ReturnOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req apporder.ReturnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	deliveries, err := h.deliveryService.ReturnOrder(c.Request.Context(), getActor(c), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deliveries)
}

// ListPending retrieves pending deliveries grouped by order
func (h *DeliveryHandler) ListPending(c *gin.Context) {
	groups, err := h.deliveryService.ListPending(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, groups)
}

// ListDelivered retrieves completed deliveries grouped by order
func (h *DeliveryHandler) ListDelivered(c *gin.Context) {
	groups, err := h.deliveryService.ListDelivered(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, groups)
}

// ListReturned retrieves returned deliveries grouped by order
func (h *DeliveryHandler) ListReturned(c *gin.Context) {
	groups, err := h.deliveryService.ListReturned(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, groups)
}
