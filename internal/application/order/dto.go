package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerID uuid.UUID              `json:"customer_id" binding:"required"`
	Status     string                 `json:"status"`
	Lines      []CreateOrderLineInput `json:"lines" binding:"required,min=1,dive"`
}

// CreateOrderLineInput represents a line in the create order request. The
// product name is resolved from the catalog. UnitPrice is the price snapshot
// to store on the line; when omitted the current catalog price is used.
type CreateOrderLineInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// priceOr returns the caller-supplied unit price, or the fallback when the
// caller did not send one.
func (in CreateOrderLineInput) priceOr(fallback decimal.Decimal) decimal.Decimal {
	if in.UnitPrice != nil {
		return *in.UnitPrice
	}
	return fallback
}

// UpdateOrderRequest represents a request to edit an order. The line set in
// the request fully replaces the existing lines.
type UpdateOrderRequest struct {
	CustomerID uuid.UUID              `json:"customer_id" binding:"required"`
	Status     string                 `json:"status" binding:"required"`
	Lines      []CreateOrderLineInput `json:"lines" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest represents a request to change an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DispatchRequest selects the lines of an order to send for delivery
type DispatchRequest struct {
	LineIDs []uuid.UUID `json:"line_ids"`
	Notes   string      `json:"notes"`
}

// MarkDeliveredRequest represents a request to mark an order's pending lines delivered
type MarkDeliveredRequest struct {
	DeliveryDate *time.Time `json:"delivery_date"`
}

// MarkReturnedRequest represents a request to mark an order's undelivered lines returned
type MarkReturnedRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ReturnOrderRequest represents a whole-order return override
type ReturnOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     *string    `form:"status"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	OrderDate   time.Time           `json:"order_date"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      string              `json:"status"`
	Lines       []OrderLineResponse `json:"lines"`
	LineCount   int                 `json:"line_count"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	CreatedBy   string              `json:"created_by"`
	UpdatedBy   string              `json:"updated_by"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderListItemResponse represents an order in list responses (less detail)
type OrderListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	LineCount   int             `json:"line_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SplitResult reports the outcome of a partial dispatch
type SplitResult struct {
	Split         bool           `json:"split"`
	Order         OrderResponse  `json:"order"`
	DispatchOrder *OrderResponse `json:"dispatch_order,omitempty"`
}

// DeleteLineResult reports whether removing a line removed the whole order
type DeleteLineResult struct {
	OrderDeleted bool           `json:"order_deleted"`
	Order        *OrderResponse `json:"order,omitempty"`
}

// ==================== Delivery DTOs ====================

// DeliveryResponse represents a delivery row in API responses
type DeliveryResponse struct {
	ID           uuid.UUID  `json:"id"`
	OrderID      uuid.UUID  `json:"order_id"`
	OrderLineID  uuid.UUID  `json:"order_line_id"`
	Delivered    bool       `json:"delivered"`
	Returned     bool       `json:"returned"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	ReturnReason string     `json:"return_reason,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// OrderDeliveryGroup represents the delivery rows of one order grouped
// together with customer context for the dispatch views.
type OrderDeliveryGroup struct {
	OrderID      uuid.UUID          `json:"order_id"`
	CustomerID   uuid.UUID          `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	OrderStatus  string             `json:"order_status"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	Deliveries   []DeliveryResponse `json:"deliveries"`
}

// ==================== Mappers ====================

// ToOrderResponse converts a domain order to an OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
		})
	}

	return OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount,
		Status:      o.Status.String(),
		Lines:       lines,
		LineCount:   o.LineCount(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		CreatedBy:   o.CreatedBy,
		UpdatedBy:   o.UpdatedBy,
	}
}

// ToOrderListItemResponses converts domain orders to list item responses
func ToOrderListItemResponses(orders []*order.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, OrderListItemResponse{
			ID:          o.ID,
			CustomerID:  o.CustomerID,
			OrderDate:   o.OrderDate,
			TotalAmount: o.TotalAmount,
			Status:      o.Status.String(),
			LineCount:   o.LineCount(),
			CreatedAt:   o.CreatedAt,
		})
	}
	return responses
}

// ToDeliveryResponse converts a domain delivery to a DeliveryResponse
func ToDeliveryResponse(d *order.Delivery) DeliveryResponse {
	resp := DeliveryResponse{
		ID:           d.ID,
		OrderID:      d.OrderID,
		OrderLineID:  d.OrderLineID,
		Delivered:    d.Delivered,
		Returned:     d.Returned,
		ReturnReason: d.ReturnReason,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if !d.DeliveryDate.IsZero() {
		date := d.DeliveryDate
		resp.DeliveryDate = &date
	}
	return resp
}

// ToDeliveryResponses converts domain deliveries to responses
func ToDeliveryResponses(ds []*order.Delivery) []DeliveryResponse {
	responses := make([]DeliveryResponse, 0, len(ds))
	for _, d := range ds {
		responses = append(responses, ToDeliveryResponse(d))
	}
	return responses
}
