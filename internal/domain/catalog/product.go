package catalog

import (
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item tracked in stock.
// Stock quantity is never allowed to go negative: every deduction is checked
// against the available quantity before it is applied.
type Product struct {
	shared.BaseAggregateRoot
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	CategoryID    uuid.UUID
	SupplierID    uuid.UUID
}

// NewProduct creates a new product
func NewProduct(actor, name, description string, price decimal.Decimal, stockQuantity int, categoryID, supplierID uuid.UUID) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if stockQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor),
		Name:              name,
		Description:       description,
		Price:             price,
		StockQuantity:     stockQuantity,
		CategoryID:        categoryID,
		SupplierID:        supplierID,
	}, nil
}

// CanFulfill reports whether the requested quantity is available in stock.
func (p *Product) CanFulfill(quantity int) bool {
	return quantity <= p.StockQuantity
}

// DeductStock removes quantity from stock. Fails with INSUFFICIENT_STOCK,
// naming the product, when the requested quantity exceeds what is available.
func (p *Product) DeductStock(actor string, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > p.StockQuantity {
		return shared.NewInsufficientStockError(p.Name)
	}
	p.StockQuantity -= quantity
	p.Touch(actor)
	return nil
}

// RestoreStock adds previously deducted quantity back to stock.
func (p *Product) RestoreStock(actor string, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.StockQuantity += quantity
	p.Touch(actor)
	return nil
}

// UpdatePrice sets a new unit price
func (p *Product) UpdatePrice(actor string, price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	p.Price = price
	p.Touch(actor)
	return nil
}
