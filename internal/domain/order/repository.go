package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// Repository defines persistence operations for the order aggregate. FindByID
// and FindByLine load the aggregate with its lines.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByLine(ctx context.Context, lineID uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*Order, error)
	Save(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// DeliveryRepository defines persistence operations for delivery rows
type DeliveryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Delivery, error)
	FindPending(ctx context.Context) ([]*Delivery, error)
	FindDelivered(ctx context.Context) ([]*Delivery, error)
	FindReturned(ctx context.Context) ([]*Delivery, error)
	Save(ctx context.Context, d *Delivery) error
	SaveAll(ctx context.Context, ds []*Delivery) error
}
