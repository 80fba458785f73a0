package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/order"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatchFixture struct {
	store    *memStore
	orders   *Service
	dispatch *DispatchService
}

func newDispatchFixture() *dispatchFixture {
	store := newMemStore()
	scope := newMemTxScope(store)
	return &dispatchFixture{
		store:    store,
		orders:   NewService(scope, &memOrderRepo{store: store}),
		dispatch: NewDispatchService(scope),
	}
}

func (f *dispatchFixture) createOrder(t *testing.T, lineQuantities ...int) *OrderResponse {
	t.Helper()
	ctx := context.Background()
	lines := make([]CreateOrderLineInput, 0, len(lineQuantities))
	for _, qty := range lineQuantities {
		p, err := catalog.NewProduct("tester", "Widget", "", decimal.NewFromInt(10), qty*10, uuid.New(), uuid.New())
		require.NoError(t, err)
		f.store.products[p.ID] = p
		lines = append(lines, CreateOrderLineInput{ProductID: p.ID, Quantity: qty})
	}
	resp, err := f.orders.Create(ctx, "tester", CreateOrderRequest{
		CustomerID: uuid.New(),
		Lines:      lines,
	})
	require.NoError(t, err)
	return resp
}

func (f *dispatchFixture) deliveriesFor(orderID uuid.UUID) []*order.Delivery {
	out := make([]*order.Delivery, 0)
	for _, d := range f.store.deliveries {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out
}

func TestDispatchService_SendForDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty selection", func(t *testing.T) {
		f := newDispatchFixture()
		resp := f.createOrder(t, 1)

		_, err := f.dispatch.SendForDelivery(ctx, "tester", resp.ID, DispatchRequest{})
		assert.True(t, errors.Is(err, shared.ErrEmptySelection))
	})

	t.Run("full selection dispatches the order itself", func(t *testing.T) {
		f := newDispatchFixture()
		resp := f.createOrder(t, 2, 1)

		stockBefore := totalStock(f.store)

		result, err := f.dispatch.SendForDelivery(ctx, "tester", resp.ID, DispatchRequest{
			LineIDs: []uuid.UUID{resp.Lines[0].ID, resp.Lines[1].ID},
		})
		require.NoError(t, err)

		assert.False(t, result.Split)
		assert.Nil(t, result.DispatchOrder)
		assert.Equal(t, order.StatusInDelivery.String(), result.Order.Status)
		assert.Equal(t, 2, result.Order.LineCount)

		rows := f.deliveriesFor(resp.ID)
		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.True(t, row.IsPending())
		}

		// Dispatching never moves stock
		assert.Equal(t, stockBefore, totalStock(f.store))
	})

	t.Run("partial selection splits the order", func(t *testing.T) {
		f := newDispatchFixture()
		resp := f.createOrder(t, 2, 1, 4)
		originalTotal := resp.TotalAmount

		result, err := f.dispatch.SendForDelivery(ctx, "tester", resp.ID, DispatchRequest{
			LineIDs: []uuid.UUID{resp.Lines[0].ID, resp.Lines[2].ID},
		})
		require.NoError(t, err)

		assert.True(t, result.Split)
		require.NotNil(t, result.DispatchOrder)

		remaining := result.Order
		dispatched := *result.DispatchOrder

		assert.Equal(t, 1, remaining.LineCount)
		assert.Equal(t, 2, dispatched.LineCount)
		assert.Equal(t, order.StatusInDelivery.String(), dispatched.Status)
		assert.NotEqual(t, remaining.ID, dispatched.ID)
		assert.Equal(t, remaining.CustomerID, dispatched.CustomerID)

		// Totals split without loss
		assert.True(t, originalTotal.Equal(remaining.TotalAmount.Add(dispatched.TotalAmount)))

		// Delivery rows follow the dispatched order's fresh line IDs
		rows := f.deliveriesFor(dispatched.ID)
		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.True(t, dispatchedHasLine(dispatched, row.OrderLineID))
		}
		assert.Empty(t, f.deliveriesFor(remaining.ID))
	})

	t.Run("duplicate line IDs count once", func(t *testing.T) {
		f := newDispatchFixture()
		resp := f.createOrder(t, 2, 1)

		result, err := f.dispatch.SendForDelivery(ctx, "tester", resp.ID, DispatchRequest{
			LineIDs: []uuid.UUID{resp.Lines[0].ID, resp.Lines[0].ID},
		})
		require.NoError(t, err)

		// One distinct line out of two: a split, not a full dispatch
		assert.True(t, result.Split)
		assert.Equal(t, 1, result.DispatchOrder.LineCount)
	})

	t.Run("rejects lines from another order", func(t *testing.T) {
		f := newDispatchFixture()
		resp := f.createOrder(t, 1)
		other := f.createOrder(t, 1)

		_, err := f.dispatch.SendForDelivery(ctx, "tester", resp.ID, DispatchRequest{
			LineIDs: []uuid.UUID{other.Lines[0].ID},
		})
		assert.Error(t, err)
	})

	t.Run("fails for unknown order", func(t *testing.T) {
		f := newDispatchFixture()
		_, err := f.dispatch.SendForDelivery(ctx, "tester", uuid.New(), DispatchRequest{
			LineIDs: []uuid.UUID{uuid.New()},
		})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

// helpers

func totalStock(store *memStore) int {
	total := 0
	for _, p := range store.products {
		total += p.StockQuantity
	}
	return total
}

func dispatchedHasLine(resp OrderResponse, lineID uuid.UUID) bool {
	for _, line := range resp.Lines {
		if line.ID == lineID {
			return true
		}
	}
	return false
}
