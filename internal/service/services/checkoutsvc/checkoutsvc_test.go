package checkoutsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iorder "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/order"
	iorderitem "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/orderitem"
	ioutbox "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/outbox"
	customerrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/customer/postgres"
	menurepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/menu/postgres"
	orderrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/order/postgres"
	"github.com/amrelsaid4/Restaurant/internal/payments"
	"github.com/amrelsaid4/Restaurant/internal/service/models/checkout"
	"github.com/amrelsaid4/Restaurant/internal/service/models/customer"
	"github.com/amrelsaid4/Restaurant/internal/service/models/dish"
	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
	"github.com/amrelsaid4/Restaurant/internal/service/models/order"
	"github.com/amrelsaid4/Restaurant/internal/service/models/orderitem"
	"github.com/amrelsaid4/Restaurant/internal/service/models/outbox"
	"github.com/amrelsaid4/Restaurant/internal/service/models/principal"
	"github.com/amrelsaid4/Restaurant/internal/service/models/user"
)

type fakeDishRepo struct {
	dishes map[int64]dish.Dish
}

func (f *fakeDishRepo) GetDishByID(_ context.Context, id int64) (*dish.Dish, error) {
	d, ok := f.dishes[id]
	if !ok {
		return nil, menurepo.ErrDishNotFound
	}

	return &d, nil
}

type fakeCustomerRepo struct {
	customers map[int64]customer.Customer
	nextID    int64
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, customerrepo.ErrCustomerNotFound
	}

	return &c, nil
}

func (f *fakeCustomerRepo) GetOrCreate(_ context.Context, c customer.Customer) (*customer.Customer, error) {
	for _, existing := range f.customers {
		if existing.UserID == c.UserID {
			return &existing, nil
		}
	}

	f.nextID++
	c.ID = f.nextID
	f.customers[c.ID] = c

	return &c, nil
}

type fakeGuests struct {
	created bool
}

func (f *fakeGuests) EnsureGuest(_ context.Context) (*user.User, error) {
	f.created = true

	return &user.User{ID: 99, Username: "guest_1", Email: "guest_1@restaurant.com"}, nil
}

type fakeProcessor struct {
	lastMetadata map[string]string
	lastLines    []payments.LineItem
	sessions     map[string]*payments.Session
}

func (f *fakeProcessor) CreateCheckoutSession(_ context.Context, _ string, lines []payments.LineItem, metadata map[string]string) (*payments.Session, error) {
	f.lastLines = lines
	f.lastMetadata = metadata

	sess := &payments.Session{
		ID:       "cs_test_1",
		URL:      "https://pay.example/cs_test_1",
		Metadata: metadata,
	}
	f.sessions[sess.ID] = sess

	return sess, nil
}

func (f *fakeProcessor) RetrieveSession(_ context.Context, id string) (*payments.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, payments.ErrInvalidPayload
	}

	return sess, nil
}

func (f *fakeProcessor) VerifyWebhook(payload []byte, signature string) (*payments.WebhookEvent, error) {
	if signature != "valid" {
		return nil, payments.ErrInvalidSignature
	}

	return &payments.WebhookEvent{Type: payments.EventCheckoutCompleted}, nil
}

type fakeOrderRepo struct {
	byRef  map[string]order.Order
	nextID int64
}

func (f *fakeOrderRepo) InsertIfAbsent(_ context.Context, o order.Order) (*order.Order, bool, error) {
	if existing, ok := f.byRef[o.PaymentRef]; ok {
		return &existing, false, nil
	}

	f.nextID++
	o.ID = f.nextID
	o.OrderDate = time.Now()
	f.byRef[o.PaymentRef] = o

	return &o, true, nil
}

func (f *fakeOrderRepo) GetByPaymentRef(_ context.Context, ref string) (*order.Order, error) {
	o, ok := f.byRef[ref]
	if !ok {
		return nil, orderrepo.ErrOrderNotFound
	}

	return &o, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	for _, o := range f.byRef {
		if o.ID == id {
			return &o, nil
		}
	}

	return nil, orderrepo.ErrOrderNotFound
}

func (f *fakeOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, _ int64, _ order.Status) error {
	return nil
}

type fakeItemRepo struct {
	items []orderitem.OrderItem
}

func (f *fakeItemRepo) BulkInsert(_ context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	for i := range items {
		items[i].ID = int64(len(f.items) + 1)
		f.items = append(f.items, items[i])
	}

	return items, nil
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

type fakeOutboxRepo struct {
	messages []outbox.Message
}

func (f *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	f.messages = append(f.messages, msg)

	return nil
}

func (f *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return f.messages, nil
}

func (f *fakeOutboxRepo) Delete(_ context.Context, _ int64) error {
	return nil
}

func (f *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

type fakeUOW struct {
	orders     *fakeOrderRepo
	items      *fakeItemRepo
	outbox     *fakeOutboxRepo
	committed  int
	rolledBack int
}

func (f *fakeUOW) Begin(_ context.Context) error { return nil }

func (f *fakeUOW) Commit() error {
	f.committed++

	return nil
}

func (f *fakeUOW) Rollback() error {
	f.rolledBack++

	return nil
}

func (f *fakeUOW) OrderRepository() iorder.PostgresRepository        { return f.orders }
func (f *fakeUOW) OrderItemRepository() iorderitem.PostgresRepository { return f.items }
func (f *fakeUOW) OutboxRepository() ioutbox.Repository              { return f.outbox }

type fixture struct {
	svc       *CheckoutService
	processor *fakeProcessor
	customers *fakeCustomerRepo
	guests    *fakeGuests
	uow       *fakeUOW
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dishes := &fakeDishRepo{dishes: map[int64]dish.Dish{
		1: {ID: 1, Name: "Margherita", Price: money.FromCents(1000), PriceCurrency: money.CurrencyUSD},
		2: {ID: 2, Name: "Tiramisu", Price: money.FromCents(500), PriceCurrency: money.CurrencyUSD},
	}}
	customers := &fakeCustomerRepo{customers: map[int64]customer.Customer{}}
	processor := &fakeProcessor{sessions: map[string]*payments.Session{}}
	guests := &fakeGuests{}
	uow := &fakeUOW{
		orders: &fakeOrderRepo{byRef: map[string]order.Order{}},
		items:  &fakeItemRepo{},
		outbox: &fakeOutboxRepo{},
	}

	svc := MustNewCheckoutService(
		WithPaymentProcessor(processor),
		WithGuestProvider(guests),
		WithRepositories(dishes, customers, func() unitOfWork { return uow }),
	)

	return &fixture{
		svc:       svc,
		processor: processor,
		customers: customers,
		guests:    guests,
		uow:       uow,
	}
}

func authenticated() principal.Principal {
	return principal.Authenticated(12, "alice", "alice@example.com")
}

func TestCheckoutComputesServerSideTotal(t *testing.T) {
	f := newFixture(t)

	sess, err := f.svc.Checkout(context.Background(), authenticated(), CheckoutRequest{
		Items: []checkout.CartItem{
			{DishID: 1, Quantity: 2},
			{DishID: 2, Quantity: 1},
		},
		DeliveryAddress: "123 Main Street",
	})
	require.NoError(t, err)

	// 2 x 10.00 + 5.00 + 3.99 delivery fee
	assert.Equal(t, money.FromCents(2899), sess.TotalAmount)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://pay.example/cs_test_1", sess.CheckoutURL)
	assert.Equal(t, "28.99", f.processor.lastMetadata["total_amount"])

	// Two dish lines plus the delivery fee line.
	require.Len(t, f.processor.lastLines, 3)
	assert.Equal(t, "Delivery Fee", f.processor.lastLines[2].Name)
	assert.Equal(t, int64(399), f.processor.lastLines[2].AmountCents)
}

func TestCheckoutSkipsMissingDishes(t *testing.T) {
	f := newFixture(t)

	sess, err := f.svc.Checkout(context.Background(), authenticated(), CheckoutRequest{
		Items: []checkout.CartItem{
			{DishID: 1, Quantity: 1},
			{DishID: 404, Quantity: 3},
		},
	})
	require.NoError(t, err)

	// 10.00 + 3.99; the unknown dish is dropped.
	assert.Equal(t, money.FromCents(1399), sess.TotalAmount)
	require.Len(t, f.processor.lastLines, 2)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), authenticated(), CheckoutRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutAllItemsInvalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), authenticated(), CheckoutRequest{
		Items: []checkout.CartItem{{DishID: 404, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrNoValidItems)
}

func TestCheckoutFallsBackToGuest(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), principal.Anonymous(), CheckoutRequest{
		Items: []checkout.CartItem{{DishID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, f.guests.created)
	assert.Equal(t, "99", f.processor.lastMetadata["user_id"])
}

func paidSession(t *testing.T, f *fixture, items []checkout.CartItem, totalCents int64) *payments.Session {
	t.Helper()

	cust, err := f.customers.GetOrCreate(context.Background(), customer.Customer{UserID: 12})
	require.NoError(t, err)

	meta, err := checkout.Intent{
		CustomerID:      cust.ID,
		UserID:          12,
		UserEmail:       "alice@example.com",
		DeliveryAddress: "123 Main Street",
		Items:           items,
		TotalAmount:     money.FromCents(totalCents),
	}.ToMetadata()
	require.NoError(t, err)

	return &payments.Session{
		ID:       "cs_paid_1",
		Paid:     true,
		Metadata: meta,
	}
}

func TestReconciliationCreatesOrderOnce(t *testing.T) {
	f := newFixture(t)
	sess := paidSession(t, f, []checkout.CartItem{{DishID: 1, Quantity: 2}}, 2399)

	err := f.svc.HandleWebhookEvent(context.Background(), &payments.WebhookEvent{
		Type:    payments.EventCheckoutCompleted,
		Session: sess,
	})
	require.NoError(t, err)

	f.processor.sessions["cs_paid_1"] = sess
	result, err := f.svc.ConfirmFromRedirect(context.Background(), "cs_paid_1")
	require.NoError(t, err)
	assert.True(t, result.AlreadyExisted)

	require.Len(t, f.uow.orders.byRef, 1)
	stored := f.uow.orders.byRef["cs_paid_1"]
	assert.Equal(t, order.StatusConfirmed, stored.Status)
	assert.Equal(t, order.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, money.FromCents(2399), stored.TotalAmount)
	assert.Equal(t, 1, f.uow.committed)
}

func TestReconciliationStagesOutboxEvent(t *testing.T) {
	f := newFixture(t)
	sess := paidSession(t, f, []checkout.CartItem{{DishID: 1, Quantity: 1}}, 1399)

	err := f.svc.HandleWebhookEvent(context.Background(), &payments.WebhookEvent{
		Type:    payments.EventCheckoutCompleted,
		Session: sess,
	})
	require.NoError(t, err)

	require.Len(t, f.uow.outbox.messages, 1)
	msg := f.uow.outbox.messages[0]
	assert.Equal(t, "restaurant.order.created", msg.RoutingKey)
	assert.Equal(t, "application/json", msg.ContentType)
}

func TestReconciliationSkipsRemovedDishesKeepsTotal(t *testing.T) {
	f := newFixture(t)
	sess := paidSession(t, f, []checkout.CartItem{
		{DishID: 1, Quantity: 1},
		{DishID: 404, Quantity: 2},
	}, 1399)

	err := f.svc.HandleWebhookEvent(context.Background(), &payments.WebhookEvent{
		Type:    payments.EventCheckoutCompleted,
		Session: sess,
	})
	require.NoError(t, err)

	stored := f.uow.orders.byRef["cs_paid_1"]
	assert.Equal(t, money.FromCents(1399), stored.TotalAmount)
	require.Len(t, f.uow.items.items, 1)
	assert.Equal(t, int64(1), f.uow.items.items[0].DishID)
}

func TestRedirectRequiresCompletedPayment(t *testing.T) {
	f := newFixture(t)

	f.processor.sessions["cs_unpaid"] = &payments.Session{ID: "cs_unpaid", Paid: false}

	_, err := f.svc.ConfirmFromRedirect(context.Background(), "cs_unpaid")
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
}

func TestWebhookIgnoresUnpaidCompletedEvent(t *testing.T) {
	f := newFixture(t)

	err := f.svc.HandleWebhookEvent(context.Background(), &payments.WebhookEvent{
		Type:    payments.EventCheckoutCompleted,
		Session: &payments.Session{ID: "cs_1", Paid: false},
	})
	require.NoError(t, err)
	assert.Empty(t, f.uow.orders.byRef)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t)

	err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "bogus")
	assert.ErrorIs(t, err, payments.ErrInvalidSignature)
	assert.Empty(t, f.uow.orders.byRef)
}

func TestReconciliationUnknownCustomer(t *testing.T) {
	f := newFixture(t)

	meta, err := checkout.Intent{
		CustomerID:  42,
		TotalAmount: money.FromCents(1399),
	}.ToMetadata()
	require.NoError(t, err)

	handleErr := f.svc.HandleWebhookEvent(context.Background(), &payments.WebhookEvent{
		Type:    payments.EventCheckoutCompleted,
		Session: &payments.Session{ID: "cs_2", Paid: true, Metadata: meta},
	})
	assert.ErrorIs(t, handleErr, ErrCustomerNotFound)
}
