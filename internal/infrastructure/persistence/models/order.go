package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/order"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	CustomerID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	OrderDate   time.Time        `gorm:"not null"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Status      order.Status     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Lines       []OrderLineModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		CustomerID:        m.CustomerID,
		OrderDate:         m.OrderDate,
		TotalAmount:       m.TotalAmount,
		Status:            m.Status,
		Lines:             make([]order.Line, len(m.Lines)),
	}
	for i, line := range m.Lines {
		o.Lines[i] = *line.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.CustomerID = o.CustomerID
	m.OrderDate = o.OrderDate
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		m.Lines[i] = *OrderLineModelFromDomain(&line)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for order lines.
type OrderLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain Line entity.
func (m *OrderLineModel) ToDomain() *order.Line {
	return &order.Line{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TotalPrice:  m.TotalPrice,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// OrderLineModelFromDomain creates a new persistence model from a domain Line entity.
func OrderLineModelFromDomain(line *order.Line) *OrderLineModel {
	return &OrderLineModel{
		ID:          line.ID,
		OrderID:     line.OrderID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		TotalPrice:  line.TotalPrice,
		CreatedAt:   line.CreatedAt,
		UpdatedAt:   line.UpdatedAt,
	}
}

// DeliveryModel is the persistence model for delivery rows.
type DeliveryModel struct {
	BaseModel
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderLineID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Delivered    bool       `gorm:"not null;default:false;index"`
	Returned     bool       `gorm:"not null;default:false;index"`
	DeliveryDate *time.Time `gorm:"index"`
	ReturnReason string     `gorm:"type:varchar(500)"`
	Notes        string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "deliveries"
}

// ToDomain converts the persistence model to a domain Delivery entity.
func (m *DeliveryModel) ToDomain() *order.Delivery {
	d := &order.Delivery{
		BaseEntity:   m.BaseModel.ToDomain(),
		OrderID:      m.OrderID,
		OrderLineID:  m.OrderLineID,
		Delivered:    m.Delivered,
		Returned:     m.Returned,
		ReturnReason: m.ReturnReason,
		Notes:        m.Notes,
	}
	if m.DeliveryDate != nil {
		d.DeliveryDate = *m.DeliveryDate
	}
	return d
}

// FromDomain populates the persistence model from a domain Delivery entity.
func (m *DeliveryModel) FromDomain(d *order.Delivery) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.OrderID = d.OrderID
	m.OrderLineID = d.OrderLineID
	m.Delivered = d.Delivered
	m.Returned = d.Returned
	m.ReturnReason = d.ReturnReason
	m.Notes = d.Notes
	if d.DeliveryDate.IsZero() {
		m.DeliveryDate = nil
	} else {
		date := d.DeliveryDate
		m.DeliveryDate = &date
	}
}

// DeliveryModelFromDomain creates a new persistence model from a domain Delivery entity.
func DeliveryModelFromDomain(d *order.Delivery) *DeliveryModel {
	m := &DeliveryModel{}
	m.FromDomain(d)
	return m
}
