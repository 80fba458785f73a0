package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// Delivery tracks the shipment state of a single order line. A row is created
// when the line is sent for delivery and then flipped to delivered or returned
// by the dispatch flow.
type Delivery struct {
	shared.BaseEntity
	OrderID      uuid.UUID
	OrderLineID  uuid.UUID
	Delivered    bool
	Returned     bool
	DeliveryDate time.Time
	ReturnReason string
	Notes        string
}

// NewDelivery creates a pending delivery row for an order line
func NewDelivery(actor string, orderID, orderLineID uuid.UUID, notes string) (*Delivery, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if orderLineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_LINE", "Order line ID cannot be empty")
	}

	return &Delivery{
		BaseEntity:  shared.NewBaseEntity(actor),
		OrderID:     orderID,
		OrderLineID: orderLineID,
		Notes:       notes,
	}, nil
}

// IsPending reports whether the row has neither been delivered nor returned
func (d *Delivery) IsPending() bool {
	return !d.Delivered && d.ReturnReason == ""
}

// MarkDelivered records a successful delivery
func (d *Delivery) MarkDelivered(actor string, deliveryDate time.Time) {
	if deliveryDate.IsZero() {
		deliveryDate = time.Now()
	}
	d.Delivered = true
	d.DeliveryDate = deliveryDate
	d.Touch(actor)
}

// MarkReturned records the line as returned with a reason. The return moment
// is stamped into DeliveryDate.
func (d *Delivery) MarkReturned(actor string, reason string, returnDate time.Time) {
	if returnDate.IsZero() {
		returnDate = time.Now()
	}
	d.Returned = true
	d.Delivered = false
	d.ReturnReason = reason
	d.DeliveryDate = returnDate
	d.Touch(actor)
}

// OverrideReturn forces the row back to an undelivered state with the given
// reason, regardless of its current state. Used by the whole-order return.
func (d *Delivery) OverrideReturn(actor string, reason string, returnDate time.Time) {
	if returnDate.IsZero() {
		returnDate = time.Now()
	}
	d.Delivered = false
	d.ReturnReason = reason
	d.DeliveryDate = returnDate
	d.Touch(actor)
}
