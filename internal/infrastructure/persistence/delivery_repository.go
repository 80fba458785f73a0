package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/order"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDeliveryRepository implements order.DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID finds a delivery by its ID
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Delivery, error) {
	var model models.DeliveryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrder finds all deliveries for an order
func (r *GormDeliveryRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*order.Delivery, error) {
	var deliveryModels []models.DeliveryModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&deliveryModels).Error; err != nil {
		return nil, err
	}
	return toDeliveries(deliveryModels), nil
}

// FindPending finds deliveries that are neither delivered nor returned
func (r *GormDeliveryRepository) FindPending(ctx context.Context) ([]*order.Delivery, error) {
	var deliveryModels []models.DeliveryModel
	if err := r.db.WithContext(ctx).
		Where("delivered = ? AND return_reason = ''", false).
		Order("created_at ASC").
		Find(&deliveryModels).Error; err != nil {
		return nil, err
	}
	return toDeliveries(deliveryModels), nil
}

// FindDelivered finds completed deliveries
func (r *GormDeliveryRepository) FindDelivered(ctx context.Context) ([]*order.Delivery, error) {
	var deliveryModels []models.DeliveryModel
	if err := r.db.WithContext(ctx).
		Where("delivered = ?", true).
		Order("delivery_date DESC").
		Find(&deliveryModels).Error; err != nil {
		return nil, err
	}
	return toDeliveries(deliveryModels), nil
}

// FindReturned finds deliveries with a recorded return
func (r *GormDeliveryRepository) FindReturned(ctx context.Context) ([]*order.Delivery, error) {
	var deliveryModels []models.DeliveryModel
	if err := r.db.WithContext(ctx).
		Where("returned = ? OR return_reason <> ''", true).
		Order("updated_at DESC").
		Find(&deliveryModels).Error; err != nil {
		return nil, err
	}
	return toDeliveries(deliveryModels), nil
}

// Save creates or updates a delivery
func (r *GormDeliveryRepository) Save(ctx context.Context, d *order.Delivery) error {
	model := models.DeliveryModelFromDomain(d)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll creates or updates multiple deliveries
func (r *GormDeliveryRepository) SaveAll(ctx context.Context, ds []*order.Delivery) error {
	if len(ds) == 0 {
		return nil
	}
	deliveryModels := make([]*models.DeliveryModel, len(ds))
	for i, d := range ds {
		deliveryModels[i] = models.DeliveryModelFromDomain(d)
	}
	return r.db.WithContext(ctx).Save(deliveryModels).Error
}

func toDeliveries(deliveryModels []models.DeliveryModel) []*order.Delivery {
	deliveries := make([]*order.Delivery, len(deliveryModels))
	for i := range deliveryModels {
		deliveries[i] = deliveryModels[i].ToDomain()
	}
	return deliveries
}

// Ensure GormDeliveryRepository implements order.DeliveryRepository
var _ order.DeliveryRepository = (*GormDeliveryRepository)(nil)
