package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/order"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
)

// In-memory store backing the fake repositories. The fake transaction scope
// snapshots it before each Execute and restores the snapshot when the
// function fails, which is what lets the tests assert rollback behavior.
type memStore struct {
	products   map[uuid.UUID]*catalog.Product
	orders     map[uuid.UUID]*order.Order
	deliveries map[uuid.UUID]*order.Delivery
	customers  map[uuid.UUID]*partner.Customer
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[uuid.UUID]*catalog.Product),
		orders:     make(map[uuid.UUID]*order.Order),
		deliveries: make(map[uuid.UUID]*order.Delivery),
		customers:  make(map[uuid.UUID]*partner.Customer),
	}
}

func cloneProduct(p *catalog.Product) *catalog.Product {
	cp := *p
	return &cp
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Lines = append([]order.Line(nil), o.Lines...)
	return &cp
}

func cloneDelivery(d *order.Delivery) *order.Delivery {
	cp := *d
	return &cp
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for id, p := range s.products {
		snap.products[id] = cloneProduct(p)
	}
	for id, o := range s.orders {
		snap.orders[id] = cloneOrder(o)
	}
	for id, d := range s.deliveries {
		snap.deliveries[id] = cloneDelivery(d)
	}
	for id, c := range s.customers {
		snap.customers[id] = c
	}
	return snap
}

// ==================== fake repositories ====================

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *memProductRepo) FindActive(_ context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0)
	for _, p := range r.store.products {
		if p.Active {
			out = append(out, *cloneProduct(p))
		}
	}
	return out, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0)
	for _, p := range r.store.products {
		out = append(out, *cloneProduct(p))
	}
	return out, nil
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.store.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.products, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.products)), nil
}

type memOrderRepo struct{ store *memStore }

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *memOrderRepo) FindByLine(_ context.Context, lineID uuid.UUID) (*order.Order, error) {
	for _, o := range r.store.orders {
		if o.HasLine(lineID) {
			return cloneOrder(o), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]*order.Order, error) {
	out := make([]*order.Order, 0)
	for _, o := range r.store.orders {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (r *memOrderRepo) FindByCustomer(_ context.Context, customerID uuid.UUID, _ shared.Filter) ([]*order.Order, error) {
	out := make([]*order.Order, 0)
	for _, o := range r.store.orders {
		if o.CustomerID == customerID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *memOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.store.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.orders, id)
	return nil
}

func (r *memOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.orders)), nil
}

type memDeliveryRepo struct{ store *memStore }

func (r *memDeliveryRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Delivery, error) {
	d, ok := r.store.deliveries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneDelivery(d), nil
}

func (r *memDeliveryRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]*order.Delivery, error) {
	return r.filter(func(d *order.Delivery) bool { return d.OrderID == orderID }), nil
}

func (r *memDeliveryRepo) FindPending(_ context.Context) ([]*order.Delivery, error) {
	return r.filter(func(d *order.Delivery) bool { return d.IsPending() }), nil
}

func (r *memDeliveryRepo) FindDelivered(_ context.Context) ([]*order.Delivery, error) {
	return r.filter(func(d *order.Delivery) bool { return d.Delivered }), nil
}

func (r *memDeliveryRepo) FindReturned(_ context.Context) ([]*order.Delivery, error) {
	return r.filter(func(d *order.Delivery) bool { return d.ReturnReason != "" }), nil
}

func (r *memDeliveryRepo) Save(_ context.Context, d *order.Delivery) error {
	r.store.deliveries[d.ID] = cloneDelivery(d)
	return nil
}

func (r *memDeliveryRepo) SaveAll(_ context.Context, ds []*order.Delivery) error {
	for _, d := range ds {
		r.store.deliveries[d.ID] = cloneDelivery(d)
	}
	return nil
}

func (r *memDeliveryRepo) filter(pred func(*order.Delivery) bool) []*order.Delivery {
	out := make([]*order.Delivery, 0)
	for _, d := range r.store.deliveries {
		if pred(d) {
			out = append(out, cloneDelivery(d))
		}
	}
	return out
}

type memCustomerRepo struct{ store *memStore }

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.store.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *memCustomerRepo) FindActive(_ context.Context) ([]partner.Customer, error) {
	out := make([]partner.Customer, 0)
	for _, c := range r.store.customers {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Customer, error) {
	out := make([]partner.Customer, 0)
	for _, c := range r.store.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	r.store.customers[c.ID] = c
	return nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.customers, id)
	return nil
}

// ==================== fake transaction scope ====================

// memTxScope restores the store from a snapshot when the executed function
// fails, mimicking a rolled back database transaction.
type memTxScope struct {
	store *memStore
}

func newMemTxScope(store *memStore) *memTxScope {
	return &memTxScope{store: store}
}

func (s *memTxScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	snap := s.store.snapshot()
	if err := fn(s); err != nil {
		*s.store = *snap
		return err
	}
	return nil
}

func (s *memTxScope) OrderRepo() order.Repository            { return &memOrderRepo{store: s.store} }
func (s *memTxScope) ProductRepo() catalog.ProductRepository { return &memProductRepo{store: s.store} }
func (s *memTxScope) DeliveryRepo() order.DeliveryRepository { return &memDeliveryRepo{store: s.store} }

var _ TransactionScope = (*memTxScope)(nil)
var _ TransactionalRepositories = (*memTxScope)(nil)

var _ order.Repository = (*memOrderRepo)(nil)
var _ catalog.ProductRepository = (*memProductRepo)(nil)
var _ order.DeliveryRepository = (*memDeliveryRepo)(nil)
var _ partner.CustomerRepository = (*memCustomerRepo)(nil)
