package ordersvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/customer/postgres"
	orderrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/order/postgres"
	"github.com/amrelsaid4/Restaurant/internal/service/models/customer"
	"github.com/amrelsaid4/Restaurant/internal/service/models/order"
	"github.com/amrelsaid4/Restaurant/internal/service/models/orderitem"
)

type fakeOrderRepo struct {
	orders map[int64]order.Order
}

func (f *fakeOrderRepo) InsertIfAbsent(_ context.Context, _ order.Order) (*order.Order, bool, error) {
	panic("not used")
}

func (f *fakeOrderRepo) GetByPaymentRef(_ context.Context, _ string) (*order.Order, error) {
	panic("not used")
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, orderrepo.ErrOrderNotFound
	}

	return &o, nil
}

func (f *fakeOrderRepo) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	var out []order.Order
	for _, o := range f.orders {
		for _, cid := range filter.CustomerIds {
			if o.CustomerID == cid {
				out = append(out, o)
			}
		}
		if len(filter.CustomerIds) == 0 {
			out = append(out, o)
		}
	}

	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status order.Status) error {
	o, ok := f.orders[id]
	if !ok {
		return orderrepo.ErrOrderNotFound
	}
	o.Status = status
	f.orders[id] = o

	return nil
}

type fakeItemRepo struct {
	items []orderitem.OrderItem
}

func (f *fakeItemRepo) BulkInsert(_ context.Context, _ []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	panic("not used")
}

func (f *fakeItemRepo) QueryByOrderIds(_ context.Context, orderIds []int64) ([]orderitem.OrderItem, error) {
	var out []orderitem.OrderItem
	for _, item := range f.items {
		for _, id := range orderIds {
			if item.OrderID == id {
				out = append(out, item)
			}
		}
	}

	return out, nil
}

type fakeCustomerRepo struct {
	customers map[int64]customer.Customer
	nextID    int64
}

func (f *fakeCustomerRepo) GetByUserID(_ context.Context, userID int64) (*customer.Customer, error) {
	for _, c := range f.customers {
		if c.UserID == userID {
			return &c, nil
		}
	}

	return nil, customerrepo.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) GetOrCreate(ctx context.Context, c customer.Customer) (*customer.Customer, error) {
	if existing, err := f.GetByUserID(ctx, c.UserID); err == nil {
		return existing, nil
	}

	f.nextID++
	c.ID = f.nextID
	f.customers[c.ID] = c

	return &c, nil
}

func newService() (*OrderService, *fakeOrderRepo, *fakeItemRepo, *fakeCustomerRepo) {
	orders := &fakeOrderRepo{orders: map[int64]order.Order{}}
	items := &fakeItemRepo{}
	customers := &fakeCustomerRepo{customers: map[int64]customer.Customer{}}

	svc := MustNewOrderService(WithRepositories(orders, items, customers))

	return svc, orders, items, customers
}

func TestGetCustomerOrdersAttachesItems(t *testing.T) {
	svc, orders, items, customers := newService()

	customers.customers[1] = customer.Customer{ID: 1, UserID: 12}
	orders.orders[5] = order.Order{ID: 5, CustomerID: 1}
	items.items = []orderitem.OrderItem{
		{ID: 1, OrderID: 5, DishName: "Margherita", Quantity: 2},
		{ID: 2, OrderID: 6, DishName: "Other", Quantity: 1},
	}

	got, err := svc.GetCustomerOrders(context.Background(), 12, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].OrderItems, 1)
	assert.Equal(t, "Margherita", got[0].OrderItems[0].DishName)
}

func TestGetCustomerOrdersCreatesCustomerLazily(t *testing.T) {
	svc, _, _, customers := newService()

	got, err := svc.GetCustomerOrders(context.Background(), 12, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, customers.customers, 1)
}

func TestGetCustomerOrderEnforcesOwnership(t *testing.T) {
	svc, orders, _, customers := newService()

	customers.customers[1] = customer.Customer{ID: 1, UserID: 12}
	customers.customers[2] = customer.Customer{ID: 2, UserID: 34}
	orders.orders[5] = order.Order{ID: 5, CustomerID: 2}

	_, err := svc.GetCustomerOrder(context.Background(), 12, 5)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestGetCustomerOrderNotFound(t *testing.T) {
	svc, _, _, customers := newService()

	customers.customers[1] = customer.Customer{ID: 1, UserID: 12}

	_, err := svc.GetCustomerOrder(context.Background(), 12, 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, orders, _, _ := newService()

	orders.orders[5] = order.Order{ID: 5, Status: order.StatusConfirmed}

	require.NoError(t, svc.UpdateStatus(context.Background(), 5, "preparing"))
	assert.Equal(t, order.StatusPreparing, orders.orders[5].Status)
}

func TestUpdateStatusInvalid(t *testing.T) {
	svc, _, _, _ := newService()

	err := svc.UpdateStatus(context.Background(), 5, "flying")
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _, _, _ := newService()

	err := svc.UpdateStatus(context.Background(), 999, "preparing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetProfile(t *testing.T) {
	svc, orders, _, customers := newService()

	customers.customers[1] = customer.Customer{ID: 1, UserID: 12, Address: "123 Main Street"}
	orders.orders[5] = order.Order{ID: 5, CustomerID: 1}

	profile, err := svc.GetProfile(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "123 Main Street", profile.Customer.Address)
	assert.Len(t, profile.Orders, 1)
}
