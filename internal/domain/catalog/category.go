package catalog

import "github.com/ims/backend/internal/domain/shared"

// Category groups products for the catalog views.
type Category struct {
	shared.BaseEntity
	Name        string
	Description string
}

// NewCategory creates a new category
func NewCategory(actor, name, description string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	return &Category{
		BaseEntity:  shared.NewBaseEntity(actor),
		Name:        name,
		Description: description,
	}, nil
}
