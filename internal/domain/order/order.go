package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the status of an order
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusInDelivery Status = "IN_DELIVERY"
	StatusDelivered  Status = "DELIVERED"
	StatusReturned   Status = "RETURNED"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusInDelivery, StatusDelivered, StatusReturned, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Line represents a line item in an order. The unit price is a snapshot taken
// at order time; TotalPrice is always UnitPrice * Quantity.
type Line struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewLine creates a new order line
func NewLine(orderID, productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (*Line, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &Line{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Copy returns a fresh line carrying the same product, quantity and price
// snapshot but a new identity, attached to the given order. Used when a split
// moves lines into a newly created order.
func (l *Line) Copy(orderID uuid.UUID) Line {
	now := time.Now()
	return Line{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		TotalPrice:  l.TotalPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Order represents a customer order aggregate root. It owns its lines and the
// invariant that TotalAmount equals the sum of the line totals after every
// successful mutation.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Status      Status
	Lines       []Line
}

// NewOrder creates a new order for a customer
func NewOrder(actor string, customerID uuid.UUID, status Status) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor),
		CustomerID:        customerID,
		OrderDate:         time.Now(),
		TotalAmount:       decimal.Zero,
		Status:            status,
		Lines:             make([]Line, 0),
	}

	return o, nil
}

// RaiseCreatedEvent records the creation event. Call it once the lines are in
// place so the payload carries the computed total.
func (o *Order) RaiseCreatedEvent() {
	o.AddDomainEvent(NewOrderCreatedEvent(o))
}

// AddLine adds a new line to the order and recalculates the total
func (o *Order) AddLine(actor string, productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (*Line, error) {
	line, err := NewLine(o.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotal()
	o.Touch(actor)

	return line, nil
}

// ReplaceLines swaps the full line set for a new one and recalculates the
// total. Used by order edits, which reverse and re-apply stock separately.
func (o *Order) ReplaceLines(actor string, lines []Line) {
	for i := range lines {
		lines[i].OrderID = o.ID
	}
	o.Lines = lines
	o.recalculateTotal()
	o.Touch(actor)
}

// RemoveLine removes a line from the order and recalculates the total
func (o *Order) RemoveLine(actor string, lineID uuid.UUID) error {
	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.recalculateTotal()
			o.Touch(actor)
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// TakeLines removes the identified lines from the order and returns them,
// recalculating the remaining total. Fails when any ID does not belong to
// this order.
func (o *Order) TakeLines(actor string, lineIDs []uuid.UUID) ([]Line, error) {
	taken := make([]Line, 0, len(lineIDs))
	remaining := make([]Line, 0, len(o.Lines))

	wanted := make(map[uuid.UUID]bool, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = true
	}

	for _, line := range o.Lines {
		if wanted[line.ID] {
			taken = append(taken, line)
			delete(wanted, line.ID)
		} else {
			remaining = append(remaining, line)
		}
	}
	if len(wanted) > 0 {
		return nil, shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
	}

	o.Lines = remaining
	o.recalculateTotal()
	o.Touch(actor)

	return taken, nil
}

// ChangeCustomer reassigns the order to another customer
func (o *Order) ChangeCustomer(actor string, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	o.CustomerID = customerID
	o.Touch(actor)
	return nil
}

// ChangeStatus sets a new order status. Transitions are deliberately
// unrestricted; stock side effects of entering CANCELLED are handled by the
// application service, which checks the prior status.
func (o *Order) ChangeStatus(actor string, status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	o.Status = status
	o.Touch(actor)
	return nil
}

// GetLine returns a line by its ID
func (o *Order) GetLine(lineID uuid.UUID) *Line {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// HasLine reports whether the order contains the given line
func (o *Order) HasLine(lineID uuid.UUID) bool {
	return o.GetLine(lineID) != nil
}

// LineCount returns the number of lines in the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// recalculateTotal recomputes TotalAmount from the line totals
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.TotalPrice)
	}
	o.TotalAmount = total
}

// NewOrderFromLines creates a new order carrying copies of the given lines.
// The copies get fresh identities; quantity and price snapshots are preserved
// so already-committed stock deductions simply change owner.
func NewOrderFromLines(actor string, customerID uuid.UUID, status Status, lines []Line) (*Order, error) {
	o, err := NewOrder(actor, customerID, status)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		o.Lines = append(o.Lines, line.Copy(o.ID))
	}
	o.recalculateTotal()
	o.RaiseCreatedEvent()
	return o, nil
}
