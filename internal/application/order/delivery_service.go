package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/order"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
)

// DeliveryService progresses delivery rows and rolls their state up to the
// owning order. An order becomes DELIVERED only when every one of its lines
// has a delivered row, and RETURNED only when every line has a returned row.
type DeliveryService struct {
	txScope        TransactionScope
	orderRepo      order.Repository
	deliveryRepo   order.DeliveryRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(
	txScope TransactionScope,
	orderRepo order.Repository,
	deliveryRepo order.DeliveryRepository,
	customerRepo partner.CustomerRepository,
) *DeliveryService {
	return &DeliveryService{
		txScope:      txScope,
		orderRepo:    orderRepo,
		deliveryRepo: deliveryRepo,
		customerRepo: customerRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *DeliveryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// MarkDelivered marks the order's pending delivery rows as delivered. When
// every line of the order then has a delivered row, the order rolls up to
// DELIVERED.
func (s *DeliveryService) MarkDelivered(ctx context.Context, actor string, orderID uuid.UUID, req MarkDeliveredRequest) (*OrderResponse, error) {
	deliveryDate := time.Now()
	if req.DeliveryDate != nil {
		deliveryDate = *req.DeliveryDate
	}

	var updated *order.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		rows, err := repos.DeliveryRepo().FindByOrder(ctx, o.ID)
		if err != nil {
			return err
		}

		changed := make([]*order.Delivery, 0, len(rows))
		for _, row := range rows {
			if row.IsPending() {
				row.MarkDelivered(actor, deliveryDate)
				changed = append(changed, row)
			}
		}
		if err := repos.DeliveryRepo().SaveAll(ctx, changed); err != nil {
			return err
		}

		if allLinesMatch(o, rows, func(d *order.Delivery) bool { return d.Delivered }) {
			if err := o.ChangeStatus(actor, order.StatusDelivered); err != nil {
				return err
			}
			o.AddDomainEvent(order.NewOrderDeliveredEvent(o))
			if err := repos.OrderRepo().Save(ctx, o); err != nil {
				return err
			}
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, updated)

	response := ToOrderResponse(updated)
	return &response, nil
}

// MarkReturned marks the order's undelivered rows as returned with the given
// reason. It fails when no row is eligible. When every line of the order then
// has a returned row, the order rolls up to RETURNED.
func (s *DeliveryService) MarkReturned(ctx context.Context, actor string, orderID uuid.UUID, req MarkReturnedRequest) (*OrderResponse, error) {
	var updated *order.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		rows, err := repos.DeliveryRepo().FindByOrder(ctx, o.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		changed := make([]*order.Delivery, 0, len(rows))
		for _, row := range rows {
			if !row.Delivered {
				row.MarkReturned(actor, req.Reason, now)
				changed = append(changed, row)
			}
		}
		if len(changed) == 0 {
			return shared.ErrNoEligibleItems
		}
		if err := repos.DeliveryRepo().SaveAll(ctx, changed); err != nil {
			return err
		}

		if allLinesMatch(o, rows, func(d *order.Delivery) bool { return d.Returned }) {
			if err := o.ChangeStatus(actor, order.StatusReturned); err != nil {
				return err
			}
			o.AddDomainEvent(order.NewOrderReturnedEvent(o, req.Reason))
			if err := repos.OrderRepo().Save(ctx, o); err != nil {
				return err
			}
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, updated)

	response := ToOrderResponse(updated)
	return &response, nil
}

// ReturnOrder overrides every delivery row of the order back to an
// undelivered state with the given reason, regardless of prior state. The
// order's own status is left untouched.
func (s *DeliveryService) ReturnOrder(ctx context.Context, actor string, orderID uuid.UUID, req ReturnOrderRequest) ([]DeliveryResponse, error) {
	var rows []*order.Delivery

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.OrderRepo().FindByID(ctx, orderID); err != nil {
			return err
		}

		found, err := repos.DeliveryRepo().FindByOrder(ctx, orderID)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, row := range found {
			row.OverrideReturn(actor, req.Reason, now)
		}
		if err := repos.DeliveryRepo().SaveAll(ctx, found); err != nil {
			return err
		}

		rows = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToDeliveryResponses(rows), nil
}

// ListByOrder retrieves the delivery rows of a single order
func (s *DeliveryService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]DeliveryResponse, error) {
	rows, err := s.deliveryRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToDeliveryResponses(rows), nil
}

// ListPending retrieves pending delivery rows grouped by order
func (s *DeliveryService) ListPending(ctx context.Context) ([]OrderDeliveryGroup, error) {
	rows, err := s.deliveryRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	return s.groupByOrder(ctx, rows)
}

// ListDelivered retrieves delivered rows grouped by order
func (s *DeliveryService) ListDelivered(ctx context.Context) ([]OrderDeliveryGroup, error) {
	rows, err := s.deliveryRepo.FindDelivered(ctx)
	if err != nil {
		return nil, err
	}
	return s.groupByOrder(ctx, rows)
}

// ListReturned retrieves returned rows grouped by order
func (s *DeliveryService) ListReturned(ctx context.Context) ([]OrderDeliveryGroup, error) {
	rows, err := s.deliveryRepo.FindReturned(ctx)
	if err != nil {
		return nil, err
	}
	return s.groupByOrder(ctx, rows)
}

// allLinesMatch reports whether every line of the order has a delivery row
// satisfying the predicate. Orders with lines that were never dispatched can
// therefore never roll up.
func allLinesMatch(o *order.Order, rows []*order.Delivery, pred func(*order.Delivery) bool) bool {
	if o.LineCount() == 0 {
		return false
	}
	byLine := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		if pred(row) {
			byLine[row.OrderLineID] = true
		}
	}
	for _, line := range o.Lines {
		if !byLine[line.ID] {
			return false
		}
	}
	return true
}

// groupByOrder assembles delivery rows into per-order groups with customer
// context. Orders or customers that disappeared since the rows were written
// are tolerated: the group is kept with whatever context is still available.
func (s *DeliveryService) groupByOrder(ctx context.Context, rows []*order.Delivery) ([]OrderDeliveryGroup, error) {
	groups := make([]OrderDeliveryGroup, 0)
	index := make(map[uuid.UUID]int)

	for _, row := range rows {
		idx, ok := index[row.OrderID]
		if !ok {
			group := OrderDeliveryGroup{OrderID: row.OrderID}

			o, err := s.orderRepo.FindByID(ctx, row.OrderID)
			switch {
			case err == nil:
				group.CustomerID = o.CustomerID
				group.OrderStatus = o.Status.String()
				group.TotalAmount = o.TotalAmount
				if customer, cerr := s.customerRepo.FindByID(ctx, o.CustomerID); cerr == nil {
					group.CustomerName = customer.Name
				}
			case errors.Is(err, shared.ErrNotFound):
				// keep the group without order context
			default:
				return nil, err
			}

			index[row.OrderID] = len(groups)
			groups = append(groups, group)
			idx = index[row.OrderID]
		}
		groups[idx].Deliveries = append(groups[idx].Deliveries, ToDeliveryResponse(row))
	}

	return groups, nil
}

func (s *DeliveryService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil || o == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}
