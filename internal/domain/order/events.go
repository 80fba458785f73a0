package order

import (
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
	EventOrderSplit     = "order.split"
	EventOrderDelivered = "order.delivered"
	EventOrderReturned  = "order.returned"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID
	TotalAmount decimal.Decimal
	Status      Status
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderCreated, "Order", o.ID),
		CustomerID:      o.CustomerID,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
	}
}

// OrderCancelledEvent is raised when an order enters the cancelled status
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	CustomerID    uuid.UUID
	StockRestored bool
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, stockRestored bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderCancelled, "Order", o.ID),
		CustomerID:      o.CustomerID,
		StockRestored:   stockRestored,
	}
}

// OrderSplitEvent is raised when a partial dispatch moves lines into a new order
type OrderSplitEvent struct {
	shared.BaseDomainEvent
	NewOrderID uuid.UUID
	LineCount  int
}

// NewOrderSplitEvent creates a new OrderSplitEvent
func NewOrderSplitEvent(original *Order, newOrder *Order) *OrderSplitEvent {
	return &OrderSplitEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderSplit, "Order", original.ID),
		NewOrderID:      newOrder.ID,
		LineCount:       newOrder.LineCount(),
	}
}

// OrderDeliveredEvent is raised when every line of an order has been delivered
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderDelivered, "Order", o.ID),
		CustomerID:      o.CustomerID,
	}
}

// OrderReturnedEvent is raised when every line of an order has been returned
type OrderReturnedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID
	Reason     string
}

// NewOrderReturnedEvent creates a new OrderReturnedEvent
func NewOrderReturnedEvent(o *Order, reason string) *OrderReturnedEvent {
	return &OrderReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderReturned, "Order", o.ID),
		CustomerID:      o.CustomerID,
		Reason:          reason,
	}
}
