package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/order"
	"github.com/ims/backend/internal/domain/shared"
)

// Service handles order lifecycle operations. Every mutation that moves stock
// runs inside a transaction scope so the order and the affected products
// commit or roll back together.
type Service struct {
	txScope        TransactionScope
	orderRepo      order.Repository
	eventPublisher shared.EventPublisher
}

// NewService creates a new order Service
func NewService(txScope TransactionScope, orderRepo order.Repository) *Service {
	return &Service{
		txScope:   txScope,
		orderRepo: orderRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new order, deducting stock for every line. Any line whose
// product is missing or short on stock fails the whole request and leaves all
// stock untouched.
func (s *Service) Create(ctx context.Context, actor string, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewValidationError("Order must contain at least one line")
	}

	var created *order.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := order.NewOrder(actor, req.CustomerID, order.Status(req.Status))
		if err != nil {
			return err
		}

		for _, input := range req.Lines {
			product, err := repos.ProductRepo().FindByID(ctx, input.ProductID)
			if err != nil {
				return err
			}
			if err := product.DeductStock(actor, input.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
			if _, err := o.AddLine(actor, product.ID, product.Name, input.Quantity, input.priceOr(product.Price)); err != nil {
				return err
			}
		}

		o.RaiseCreatedEvent()

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)

	response := ToOrderResponse(created)
	return &response, nil
}

// GetByID retrieves an order with its lines
func (s *Service) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *Service) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListItemResponses(orders), total, nil
}

// ListByCustomer retrieves one customer's orders, newest first
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}

	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, err
	}

	return ToOrderListItemResponses(orders), nil
}

// Update edits an order by replacing its line set. Stock held by the old
// lines is restored first, then the new lines deduct stock; a shortage on any
// new line rolls the whole edit back, restorations included.
func (s *Service) Update(ctx context.Context, actor string, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	status := order.Status(req.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	var updated *order.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := restoreStockForLines(ctx, repos.ProductRepo(), actor, o.Lines); err != nil {
			return err
		}

		newLines := make([]order.Line, 0, len(req.Lines))
		for _, input := range req.Lines {
			product, err := repos.ProductRepo().FindByID(ctx, input.ProductID)
			if err != nil {
				return err
			}
			if err := product.DeductStock(actor, input.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
			line, err := order.NewLine(o.ID, product.ID, product.Name, input.Quantity, input.priceOr(product.Price))
			if err != nil {
				return err
			}
			newLines = append(newLines, *line)
		}

		o.ReplaceLines(actor, newLines)
		if err := o.ChangeCustomer(actor, req.CustomerID); err != nil {
			return err
		}
		if err := o.ChangeStatus(actor, status); err != nil {
			return err
		}

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(updated)
	return &response, nil
}

// Delete removes an order, restoring the stock its lines hold
func (s *Service) Delete(ctx context.Context, actor string, orderID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := restoreStockForLines(ctx, repos.ProductRepo(), actor, o.Lines); err != nil {
			return err
		}

		return repos.OrderRepo().Delete(ctx, o.ID)
	})
}

// DeleteLine removes a single line from whichever order owns it, restoring
// its stock. Removing the last line removes the order itself; the result
// reports which of the two happened.
func (s *Service) DeleteLine(ctx context.Context, actor string, lineID uuid.UUID) (*DeleteLineResult, error) {
	result := &DeleteLineResult{}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByLine(ctx, lineID)
		if err != nil {
			return err
		}

		line := o.GetLine(lineID)
		if line == nil {
			return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
		}

		if err := restoreStockForLines(ctx, repos.ProductRepo(), actor, []order.Line{*line}); err != nil {
			return err
		}

		if o.LineCount() == 1 {
			result.OrderDeleted = true
			return repos.OrderRepo().Delete(ctx, o.ID)
		}

		if err := o.RemoveLine(actor, lineID); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}

		response := ToOrderResponse(o)
		result.Order = &response
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateStatus changes an order's status. Entering CANCELLED from any other
// status restores the stock held by the order's lines; re-cancelling a
// cancelled order does not restore again.
func (s *Service) UpdateStatus(ctx context.Context, actor string, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	status := order.Status(req.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	var updated *order.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		enteringCancelled := status == order.StatusCancelled && !o.IsCancelled()
		if enteringCancelled {
			if err := restoreStockForLines(ctx, repos.ProductRepo(), actor, o.Lines); err != nil {
				return err
			}
		}

		if err := o.ChangeStatus(actor, status); err != nil {
			return err
		}
		if enteringCancelled {
			o.AddDomainEvent(order.NewOrderCancelledEvent(o, true))
		}

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
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

// restoreStockForLines returns the quantities held by the given lines to
// their products. Lines whose product no longer exists are skipped so that
// catalog cleanups do not wedge order edits and deletions.
func restoreStockForLines(ctx context.Context, products catalog.ProductRepository, actor string, lines []order.Line) error {
	for _, line := range lines {
		product, err := products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
		if err := product.RestoreStock(actor, line.Quantity); err != nil {
			return err
		}
		if err := products.Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// publishEvents drains the aggregate's domain events to the event bus
func (s *Service) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil || o == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		// Event delivery is best effort; the transaction already committed
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}
