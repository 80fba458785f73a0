package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
)

// ReferenceHandler exposes the category and supplier lookups the catalog
// views need. Both are plain reference data with no write surface here.
type ReferenceHandler struct {
	BaseHandler
	categoryRepo catalog.CategoryRepository
	supplierRepo partner.SupplierRepository
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(categoryRepo catalog.CategoryRepository, supplierRepo partner.SupplierRepository) *ReferenceHandler {
	return &ReferenceHandler{categoryRepo: categoryRepo, supplierRepo: supplierRepo}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RegisterRoutes registers category and supplier routes on the given router group
func (h *ReferenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategoryByID)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplierByID)
	}
}

// ListCategories retrieves categories matching an optional search term
func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	filter := shared.Filter{Search: c.Query("search")}

	categories, err := h.categoryRepo.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = toCategoryResponse(&categories[i])
	}
	h.Success(c, responses)
}

// GetCategoryByID retrieves a category by its ID
func (h *ReferenceHandler) GetCategoryByID(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	category, err := h.categoryRepo.FindByID(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toCategoryResponse(category))
}

// ListSuppliers retrieves suppliers matching an optional search term
func (h *ReferenceHandler) ListSuppliers(c *gin.Context) {
	filter := shared.Filter{Search: c.Query("search")}

	suppliers, err := h.supplierRepo.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = toSupplierResponse(&suppliers[i])
	}
	h.Success(c, responses)
}

// GetSupplierByID retrieves a supplier by its ID
func (h *ReferenceHandler) GetSupplierByID(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	supplier, err := h.supplierRepo.FindByID(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toSupplierResponse(supplier))
}

func toCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

func toSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            supplier.ID,
		Name:          supplier.Name,
		ContactPerson: supplier.ContactPerson,
		Email:         supplier.Email,
		Phone:         supplier.Phone,
		Address:       supplier.Address,
		CreatedAt:     supplier.CreatedAt,
	}
}
