package partner

import "github.com/ims/backend/internal/domain/shared"

// Customer is plain reference data: the order core only uses it as a foreign
// key and for read-side display names.
type Customer struct {
	shared.BaseEntity
	Name    string
	Email   string
	Phone   string
	Address string
}

// NewCustomer creates a new customer
func NewCustomer(actor, name, email, phone, address string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(actor),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Address:    address,
	}, nil
}
