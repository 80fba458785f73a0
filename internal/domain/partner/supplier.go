package partner

import "github.com/ims/backend/internal/domain/shared"

// Supplier is plain reference data linked from products.
type Supplier struct {
	shared.BaseEntity
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// NewSupplier creates a new supplier
func NewSupplier(actor, name, contactPerson, email, phone, address string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		BaseEntity:    shared.NewBaseEntity(actor),
		Name:          name,
		ContactPerson: contactPerson,
		Email:         email,
		Phone:         phone,
		Address:       address,
	}, nil
}
