package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apporder "github.com/ims/backend/internal/application/order"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/order"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// map-backed fakes shared by the handler tests in this package

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) FindActive(_ context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*order.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
}

func cloneOrder(o *order.Order) *order.Order {
	clone := *o
	clone.Lines = append([]order.Line(nil), o.Lines...)
	return &clone
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) FindByLine(_ context.Context, lineID uuid.UUID) (*order.Order, error) {
	for _, o := range r.orders {
		if o.HasLine(lineID) {
			return cloneOrder(o), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]*order.Order, error) {
	out := make([]*order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByCustomer(_ context.Context, customerID uuid.UUID, _ shared.Filter) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

type fakeDeliveryRepo struct {
	deliveries map[uuid.UUID]*order.Delivery
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{deliveries: make(map[uuid.UUID]*order.Delivery)}
}

func (r *fakeDeliveryRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Delivery, error) {
	d, ok := r.deliveries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *fakeDeliveryRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]*order.Delivery, error) {
	var out []*order.Delivery
	for _, d := range r.deliveries {
		if d.OrderID == orderID {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeDeliveryRepo) FindPending(_ context.Context) ([]*order.Delivery, error) {
	var out []*order.Delivery
	for _, d := range r.deliveries {
		if d.IsPending() {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeDeliveryRepo) FindDelivered(_ context.Context) ([]*order.Delivery, error) {
	var out []*order.Delivery
	for _, d := range r.deliveries {
		if d.Delivered {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeDeliveryRepo) FindReturned(_ context.Context) ([]*order.Delivery, error) {
	var out []*order.Delivery
	for _, d := range r.deliveries {
		if d.Returned || d.ReturnReason != "" {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeDeliveryRepo) Save(_ context.Context, d *order.Delivery) error {
	clone := *d
	r.deliveries[d.ID] = &clone
	return nil
}

func (r *fakeDeliveryRepo) SaveAll(ctx context.Context, ds []*order.Delivery) error {
	for _, d := range ds {
		if err := r.Save(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCustomerRepo) FindActive(_ context.Context) ([]partner.Customer, error) {
	var out []partner.Customer
	for _, c := range r.customers {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Customer, error) {
	out := make([]partner.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	clone := *c
	r.customers[c.ID] = &clone
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

type handlerFixture struct {
	router    *gin.Engine
	products  *fakeProductRepo
	orders    *fakeOrderRepo
	delivs    *fakeDeliveryRepo
	customers *fakeCustomerRepo
}

func setupOrderTestRouter(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := newFakeProductRepo()
	orders := newFakeOrderRepo()
	delivs := newFakeDeliveryRepo()
	customers := newFakeCustomerRepo()

	txScope := apporder.NewNoOpTransactionScope(orders, products, delivs)
	orderService := apporder.NewService(txScope, orders)
	dispatchService := apporder.NewDispatchService(txScope)
	deliveryService := apporder.NewDeliveryService(txScope, orders, delivs, customers)

	router := gin.New()
	api := router.Group("/api/v1")
	NewOrderHandler(orderService, dispatchService).RegisterRoutes(api)
	NewDeliveryHandler(deliveryService).RegisterRoutes(api)

	return &handlerFixture{
		router:    router,
		products:  products,
		orders:    orders,
		delivs:    delivs,
		customers: customers,
	}
}

func (f *handlerFixture) addProduct(t *testing.T, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("tester", name, "", decimal.NewFromInt(price), stock, uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, f.products.Save(context.Background(), p))
	return p
}

func (f *handlerFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestOrderHandler_Create(t *testing.T) {
	t.Run("creates order and deducts stock", func(t *testing.T) {
		f := setupOrderTestRouter(t)
		p := f.addProduct(t, "Widget", 10, 25)

		w := f.do(http.MethodPost, "/api/v1/orders", apporder.CreateOrderRequest{
			CustomerID: uuid.New(),
			Lines: []apporder.CreateOrderLineInput{
				{ProductID: p.ID, Quantity: 3},
			},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, 22, f.products.products[p.ID].StockQuantity)
	})

	t.Run("returns 422 for insufficient stock", func(t *testing.T) {
		f := setupOrderTestRouter(t)
		p := f.addProduct(t, "Widget", 10, 2)

		w := f.do(http.MethodPost, "/api/v1/orders", apporder.CreateOrderRequest{
			CustomerID: uuid.New(),
			Lines: []apporder.CreateOrderLineInput{
				{ProductID: p.ID, Quantity: 5},
			},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "Widget")
	})

	t.Run("returns 400 for missing lines", func(t *testing.T) {
		f := setupOrderTestRouter(t)

		w := f.do(http.MethodPost, "/api/v1/orders", map[string]any{
			"customer_id": uuid.New().String(),
			"lines":       []any{},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_GetByID(t *testing.T) {
	t.Run("returns order with lines", func(t *testing.T) {
		f := setupOrderTestRouter(t)
		p := f.addProduct(t, "Widget", 10, 25)

		created := decodeResponse(t, f.do(http.MethodPost, "/api/v1/orders", apporder.CreateOrderRequest{
			CustomerID: uuid.New(),
			Lines:      []apporder.CreateOrderLineInput{{ProductID: p.ID, Quantity: 2}},
		}))
		data, err := json.Marshal(created.Data)
		require.NoError(t, err)
		var orderResp apporder.OrderResponse
		require.NoError(t, json.Unmarshal(data, &orderResp))

		w := f.do(http.MethodGet, "/api/v1/orders/"+orderResp.ID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
	})

	t.Run("returns 404 for unknown order", func(t *testing.T) {
		f := setupOrderTestRouter(t)

		w := f.do(http.MethodGet, "/api/v1/orders/"+uuid.New().String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("returns 400 for malformed ID", func(t *testing.T) {
		f := setupOrderTestRouter(t)

		w := f.do(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_ListByCustomer(t *testing.T) {
	t.Run("returns only the customer's orders", func(t *testing.T) {
		f := setupOrderTestRouter(t)
		p := f.addProduct(t, "Widget", 10, 25)
		customerID := uuid.New()

		w := f.do(http.MethodPost, "/api/v1/orders", apporder.CreateOrderRequest{
			CustomerID: customerID,
			Lines:      []apporder.CreateOrderLineInput{{ProductID: p.ID, Quantity: 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code)
		w = f.do(http.MethodPost, "/api/v1/orders", apporder.CreateOrderRequest{
			CustomerID: uuid.New(),
			Lines:      []apporder.CreateOrderLineInput{{ProductID: p.ID, Quantity: 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = f.do(http.MethodGet, "/api/v1/customers/"+customerID.String()+"/orders", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data, err := json.Marshal(decodeResponse(t, w).Data)
		require.NoError(t, err)
		var items []apporder.OrderListItemResponse
		require.NoError(t, json.Unmarshal(data, &items))
		require.Len(t, items, 1)
		assert.Equal(t, customerID, items[0].CustomerID)
	})
}

func TestOrderHandler_Dispatch(t *testing.T) {
	t.Run("returns 422 for empty selection", func(t *testing.T) {
		f := setupOrderTestRouter(t)
		p := f.addProduct(t, "Widget", 10, 25)

		created := decodeResponse(t, f.do(http.MethodPost, "/api/v1/orders", apporder.CreateOrderRequest{
			CustomerID: uuid.New(),
			Lines:      []apporder.CreateOrderLineInput{{ProductID: p.ID, Quantity: 2}},
		}))
		data, _ := json.Marshal(created.Data)
		var orderResp apporder.OrderResponse
		require.NoError(t, json.Unmarshal(data, &orderResp))

		w := f.do(http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/dispatch", orderResp.ID), apporder.DispatchRequest{})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeEmptySelection, resp.Error.Code)
	})

	t.Run("full dispatch moves order into delivery", func(t *testing.T) {
		f := setupOrderTestRouter(t)
		p := f.addProduct(t, "Widget", 10, 25)

		created := decodeResponse(t, f.do(http.MethodPost, "/api/v1/orders", apporder.CreateOrderRequest{
			CustomerID: uuid.New(),
			Lines:      []apporder.CreateOrderLineInput{{ProductID: p.ID, Quantity: 2}},
		}))
		data, _ := json.Marshal(created.Data)
		var orderResp apporder.OrderResponse
		require.NoError(t, json.Unmarshal(data, &orderResp))

		lineIDs := make([]uuid.UUID, 0, len(orderResp.Lines))
		for _, line := range orderResp.Lines {
			lineIDs = append(lineIDs, line.ID)
		}

		w := f.do(http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/dispatch", orderResp.ID), apporder.DispatchRequest{
			LineIDs: lineIDs,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		stored := f.orders.orders[orderResp.ID]
		require.NotNil(t, stored)
		assert.Equal(t, order.StatusInDelivery, stored.Status)
	})
}

func TestOrderHandler_Delete(t *testing.T) {
	t.Run("deleting order restores stock", func(t *testing.T) {
		f := setupOrderTestRouter(t)
		p := f.addProduct(t, "Widget", 10, 25)

		created := decodeResponse(t, f.do(http.MethodPost, "/api/v1/orders", apporder.CreateOrderRequest{
			CustomerID: uuid.New(),
			Lines:      []apporder.CreateOrderLineInput{{ProductID: p.ID, Quantity: 5}},
		}))
		data, _ := json.Marshal(created.Data)
		var orderResp apporder.OrderResponse
		require.NoError(t, json.Unmarshal(data, &orderResp))
		require.Equal(t, 20, f.products.products[p.ID].StockQuantity)

		w := f.do(http.MethodDelete, "/api/v1/orders/"+orderResp.ID.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, 25, f.products.products[p.ID].StockQuantity)
		assert.Empty(t, f.orders.orders)
	})
}
