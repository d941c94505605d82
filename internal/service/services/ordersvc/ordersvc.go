package ordersvc

import (
	"context"
	"errors"
	"fmt"

	iorder "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/order"
	iorderitem "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/orderitem"
	"github.com/amrelsaid4/Restaurant/internal/dal/postgres"
	customerrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/customer/postgres"
	orderrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/orderitem/postgres"
	"github.com/amrelsaid4/Restaurant/internal/service/models/customer"
	"github.com/amrelsaid4/Restaurant/internal/service/models/order"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotOwner      = errors.New("order does not belong to this customer")
)

type customerRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*customer.Customer, error)
	GetOrCreate(ctx context.Context, c customer.Customer) (*customer.Customer, error)
}

// OrderService is a service for reading and managing orders.
type OrderService struct {
	orders     iorder.PostgresRepository
	orderItems iorderitem.PostgresRepository
	customers  customerRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.orders == nil || s.orderItems == nil || s.customers == nil {
		panic("ordersvc: missing repository configuration")
	}

	return s
}

// WithPostgresClient wires the default Postgres-backed repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.orders = orderrepo.NewPostgresOrderRepository(pgClient.DB())
		s.orderItems = orderitemrepo.NewPostgresOrderItemRepository(pgClient.DB())
		s.customers = customerrepo.NewPostgresCustomerRepository(pgClient.DB())
	}
}

// WithRepositories injects repositories directly, used in tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(orders iorder.PostgresRepository, orderItems iorderitem.PostgresRepository, customers customerRepository) option {
	return func(s *OrderService) {
		s.orders = orders
		s.orderItems = orderItems
		s.customers = customers
	}
}

// attachItems loads and distributes order items onto their orders.
func (s *OrderService) attachItems(ctx context.Context, orders []order.Order) ([]order.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	orderIds := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIds = append(orderIds, o.ID)
	}

	items, err := s.orderItems.QueryByOrderIds(ctx, orderIds)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// GetCustomerOrders returns the orders of the customer linked to the user,
// newest first. The customer profile is created lazily if missing.
func (s *OrderService) GetCustomerOrders(ctx context.Context, userID int64, limit int) ([]order.Order, error) {
	cust, err := s.customers.GetOrCreate(ctx, customer.Customer{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	orders, err := s.orders.Query(ctx, &order.QueryOrdersModel{
		CustomerIds: []int64{cust.ID},
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, orders)
}

// GetCustomerOrder returns one order, enforcing ownership.
func (s *OrderService) GetCustomerOrder(ctx context.Context, userID, orderID int64) (*order.Order, error) {
	cust, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderrepo.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}

		return nil, err
	}
	if o.CustomerID != cust.ID {
		return nil, ErrNotOwner
	}

	orders, err := s.attachItems(ctx, []order.Order{*o})
	if err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// GetOrders retrieves orders with their items based on filter, for admin use.
func (s *OrderService) GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	orders, err := s.orders.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, orders)
}

// UpdateStatus sets a new fulfillment status on an order.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	parsed, err := order.ParseStatus(status)
	if err != nil {
		return err
	}

	if err := s.orders.UpdateStatus(ctx, orderID, parsed); err != nil {
		if errors.Is(err, orderrepo.ErrOrderNotFound) {
			return ErrOrderNotFound
		}

		return err
	}

	return nil
}

// Profile is a customer profile with recent orders.
type Profile struct {
	Customer customer.Customer `json:"customer"`
	Orders   []order.Order     `json:"orders"`
}

// GetProfile returns the customer profile with the 10 most recent orders,
// creating the customer lazily if missing.
func (s *OrderService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	cust, err := s.customers.GetOrCreate(ctx, customer.Customer{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	orders, err := s.orders.Query(ctx, &order.QueryOrdersModel{
		CustomerIds: []int64{cust.ID},
		Limit:       10,
	})
	if err != nil {
		return nil, err
	}

	orders, err = s.attachItems(ctx, orders)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Customer: *cust,
		Orders:   orders,
	}, nil
}
