package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/order"
	"github.com/ims/backend/internal/domain/shared"
)

// DispatchService sends orders or subsets of their lines out for delivery.
// Dispatching never touches stock: the quantities were deducted when the
// lines were created, and a split only changes which order owns them.
type DispatchService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(txScope TransactionScope) *DispatchService {
	return &DispatchService{txScope: txScope}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *DispatchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SendForDelivery dispatches the selected lines of an order. Selecting every
// line moves the order itself to IN_DELIVERY; selecting a subset splits the
// order, moving the selected lines into a new IN_DELIVERY order and leaving
// the rest behind. A pending delivery row is created for each dispatched line.
func (s *DispatchService) SendForDelivery(ctx context.Context, actor string, orderID uuid.UUID, req DispatchRequest) (*SplitResult, error) {
	lineIDs := dedupe(req.LineIDs)
	if len(lineIDs) == 0 {
		return nil, shared.ErrEmptySelection
	}

	result := &SplitResult{}
	var original, dispatched *order.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		for _, id := range lineIDs {
			if !o.HasLine(id) {
				return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
			}
		}

		if len(lineIDs) == o.LineCount() {
			// Full dispatch: the order itself goes out
			if err := o.ChangeStatus(actor, order.StatusInDelivery); err != nil {
				return err
			}
			if err := createDeliveryRows(ctx, repos.DeliveryRepo(), actor, o, req.Notes); err != nil {
				return err
			}
			if err := repos.OrderRepo().Save(ctx, o); err != nil {
				return err
			}
			original = o
			return nil
		}

		// Partial dispatch: split the selected lines into a new order
		taken, err := o.TakeLines(actor, lineIDs)
		if err != nil {
			return err
		}

		newOrder, err := order.NewOrderFromLines(actor, o.CustomerID, order.StatusInDelivery, taken)
		if err != nil {
			return err
		}
		if err := createDeliveryRows(ctx, repos.DeliveryRepo(), actor, newOrder, req.Notes); err != nil {
			return err
		}

		o.AddDomainEvent(order.NewOrderSplitEvent(o, newOrder))

		if err := repos.OrderRepo().Save(ctx, newOrder); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}

		result.Split = true
		original = o
		dispatched = newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, original)
	s.publishEvents(ctx, dispatched)

	result.Order = ToOrderResponse(original)
	if dispatched != nil {
		resp := ToOrderResponse(dispatched)
		result.DispatchOrder = &resp
	}
	return result, nil
}

// createDeliveryRows opens a pending delivery row for every line of the order
func createDeliveryRows(ctx context.Context, deliveries order.DeliveryRepository, actor string, o *order.Order, notes string) error {
	rows := make([]*order.Delivery, 0, len(o.Lines))
	for _, line := range o.Lines {
		d, err := order.NewDelivery(actor, o.ID, line.ID, notes)
		if err != nil {
			return err
		}
		rows = append(rows, d)
	}
	return deliveries.SaveAll(ctx, rows)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *DispatchService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil || o == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}
