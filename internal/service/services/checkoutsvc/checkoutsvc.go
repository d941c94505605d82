package checkoutsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	iorder "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/order"
	iorderitem "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/orderitem"
	ioutbox "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/outbox"
	"github.com/amrelsaid4/Restaurant/internal/dal/postgres"
	customerrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/customer/postgres"
	menurepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/menu/postgres"
	"github.com/amrelsaid4/Restaurant/internal/dal/uow"
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

// Flat per-order delivery fee, in cents.
const deliveryFeeCents = 399

const orderCreatedQueue = "restaurant.order.created"

var (
	ErrEmptyCart           = errors.New("no items provided")
	ErrNoValidItems        = errors.New("no valid items found")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrCustomerNotFound    = errors.New("customer not found")
)

type paymentProcessor interface {
	CreateCheckoutSession(ctx context.Context, customerEmail string, lines []payments.LineItem, metadata map[string]string) (*payments.Session, error)
	RetrieveSession(ctx context.Context, id string) (*payments.Session, error)
	VerifyWebhook(payload []byte, signature string) (*payments.WebhookEvent, error)
}

type dishRepository interface {
	GetDishByID(ctx context.Context, id int64) (*dish.Dish, error)
}

type customerRepository interface {
	GetByID(ctx context.Context, id int64) (*customer.Customer, error)
	GetOrCreate(ctx context.Context, c customer.Customer) (*customer.Customer, error)
}

type guestProvider interface {
	EnsureGuest(ctx context.Context) (*user.User, error)
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OrderRepository() iorder.PostgresRepository
	OrderItemRepository() iorderitem.PostgresRepository
	OutboxRepository() ioutbox.Repository
}

// CheckoutService owns the two core payment flows: building a processor
// checkout session from a cart, and idempotently materializing an order
// from a confirmed payment.
type CheckoutService struct {
	pgClient  *postgres.Client
	processor paymentProcessor
	dishes    dishRepository
	customers customerRepository
	guests    guestProvider
	newUOW    func() unitOfWork
}

func (s *CheckoutService) defaultUOW() unitOfWork {
	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the CheckoutService.
type option func(*CheckoutService)

// MustNewCheckoutService creates a new CheckoutService.
func MustNewCheckoutService(opts ...option) *CheckoutService {
	s := &CheckoutService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.processor == nil {
		panic("checkoutsvc: missing payment processor")
	}
	if s.newUOW == nil {
		if s.pgClient == nil {
			panic("checkoutsvc: missing postgres client")
		}
		s.newUOW = s.defaultUOW
	}

	return s
}

// WithPostgresClient wires the default Postgres-backed repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CheckoutService) {
		s.pgClient = pgClient
		s.dishes = menurepo.NewPostgresMenuRepository(pgClient.DB())
		s.customers = customerrepo.NewPostgresCustomerRepository(pgClient.DB())
	}
}

// WithPaymentProcessor sets the payment processor.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPaymentProcessor(processor paymentProcessor) option {
	return func(s *CheckoutService) {
		s.processor = processor
	}
}

// WithGuestProvider sets the guest identity fallback.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithGuestProvider(guests guestProvider) option {
	return func(s *CheckoutService) {
		s.guests = guests
	}
}

// WithRepositories injects repositories directly, used in tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(dishes dishRepository, customers customerRepository, newUOW func() unitOfWork) option {
	return func(s *CheckoutService) {
		s.dishes = dishes
		s.customers = customers
		s.newUOW = newUOW
	}
}

// CheckoutRequest is a cart submitted for payment.
type CheckoutRequest struct {
	Items               []checkout.CartItem
	DeliveryAddress     string
	SpecialInstructions string
}

// Checkout prices the cart from current dish prices, creates a processor
// checkout session carrying the intent metadata, and returns the redirect
// URL with the server-computed total.
func (s *CheckoutService) Checkout(ctx context.Context, p principal.Principal, req CheckoutRequest) (*checkout.Session, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	userID, email, err := s.resolveBuyer(ctx, p)
	if err != nil {
		return nil, err
	}

	cust, err := s.customers.GetOrCreate(ctx, customer.Customer{
		UserID:  userID,
		Address: req.DeliveryAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	var lines []payments.LineItem
	var total money.Money
	validItems := make([]checkout.CartItem, 0, len(req.Items))

	for _, item := range req.Items {
		d, err := s.dishes.GetDishByID(ctx, item.DishID)
		if err != nil {
			if errors.Is(err, menurepo.ErrDishNotFound) {
				slog.Warn("dish not found, skipping cart item", "dish_id", item.DishID)

				continue
			}

			return nil, fmt.Errorf("failed to look up dish %d: %w", item.DishID, err)
		}

		description := d.Description
		if description == "" {
			description = "Delicious dish from our restaurant"
		}
		if len(description) > 100 {
			description = description[:100]
		}

		lines = append(lines, payments.LineItem{
			Name:        d.Name,
			Description: description,
			AmountCents: d.Price.Cents(),
			Currency:    "usd",
			Quantity:    item.Quantity,
		})
		total += d.Price.Mul(item.Quantity)
		validItems = append(validItems, item)
	}

	if len(lines) == 0 {
		return nil, ErrNoValidItems
	}

	lines = append(lines, payments.LineItem{
		Name:        "Delivery Fee",
		Description: "Home delivery service",
		AmountCents: deliveryFeeCents,
		Currency:    "usd",
		Quantity:    1,
	})
	total += money.FromCents(deliveryFeeCents)

	intent := checkout.Intent{
		CustomerID:          cust.ID,
		UserID:              userID,
		UserEmail:           email,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		Items:               validItems,
		TotalAmount:         total,
	}

	metadata, err := intent.ToMetadata()
	if err != nil {
		return nil, err
	}

	sess, err := s.processor.CreateCheckoutSession(ctx, email, lines, metadata)
	if err != nil {
		return nil, fmt.Errorf("checkout error: %w", err)
	}

	slog.Info("created checkout session",
		"session_id", sess.ID,
		"customer_id", cust.ID,
		"total", total.String(),
	)

	return &checkout.Session{
		ID:          sess.ID,
		CheckoutURL: sess.URL,
		TotalAmount: total,
	}, nil
}

// resolveBuyer returns the user to attribute the order to, creating a
// guest identity when resolution failed. Checkout must not fail merely
// because the caller is anonymous.
func (s *CheckoutService) resolveBuyer(ctx context.Context, p principal.Principal) (int64, string, error) {
	if p.IsAuthenticated() {
		return p.UserID, p.Email, nil
	}

	slog.Warn("no authenticated user found, creating guest user")

	guest, err := s.guests.EnsureGuest(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create guest user: %w", err)
	}

	return guest.ID, guest.Email, nil
}

// ReconcileResult reports the persisted order for a confirmed payment and
// whether this invocation was a duplicate notification.
type ReconcileResult struct {
	Order          order.Order
	AlreadyExisted bool
}

// ConfirmFromRedirect handles the browser's return from the payment page.
// It re-fetches the session state from the processor before trusting it.
func (s *CheckoutService) ConfirmFromRedirect(ctx context.Context, sessionID string) (*ReconcileResult, error) {
	sess, err := s.processor.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}

	if !sess.Paid {
		return nil, ErrPaymentNotCompleted
	}

	return s.applyPaymentConfirmation(ctx, sess)
}

// HandleWebhook validates the signed webhook payload and processes the
// event. Signature or payload failures are rejected with no side effects.
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.processor.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	slog.Info("webhook event received", "type", event.Type)

	return s.HandleWebhookEvent(ctx, event)
}

// HandleWebhookEvent processes a verified processor push. Unpaid or
// irrelevant events are acknowledged without side effects; handler errors
// propagate so the processor's retry policy can re-deliver.
func (s *CheckoutService) HandleWebhookEvent(ctx context.Context, event *payments.WebhookEvent) error {
	switch event.Type {
	case payments.EventCheckoutCompleted:
		if event.Session == nil || !event.Session.Paid {
			slog.Info("checkout completed event without paid session, ignoring")

			return nil
		}

		result, err := s.applyPaymentConfirmation(ctx, event.Session)
		if err != nil {
			return err
		}
		if result.AlreadyExisted {
			slog.Info("order already exists for this payment", "order_id", result.Order.ID)
		} else {
			slog.Info("order created via webhook", "order_id", result.Order.ID)
		}
	case payments.EventCheckoutExpired:
		if event.Session != nil {
			slog.Info("checkout session expired", "session_id", event.Session.ID)
		}
	default:
		slog.Info("unhandled event type", "type", event.Type)
	}

	return nil
}

// applyPaymentConfirmation is the single idempotent reconciliation step
// shared by both triggers. Dedup is keyed on the processor session id via
// the orders.payment_ref unique constraint, so concurrent invocations
// from separate processes still produce exactly one order.
func (s *CheckoutService) applyPaymentConfirmation(ctx context.Context, sess *payments.Session) (*ReconcileResult, error) {
	intent, err := checkout.IntentFromMetadata(sess.Metadata)
	if err != nil {
		return nil, err
	}

	if _, err := s.customers.GetByID(ctx, intent.CustomerID); err != nil {
		if errors.Is(err, customerrepo.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}

		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	// Items are resolved against the current menu before the transaction.
	// Dishes removed since checkout are skipped; the total stays as
	// originally computed and is not derived from surviving items.
	items := make([]orderitem.OrderItem, 0, len(intent.Items))
	for _, item := range intent.Items {
		d, err := s.dishes.GetDishByID(ctx, item.DishID)
		if err != nil {
			if errors.Is(err, menurepo.ErrDishNotFound) {
				slog.Warn("dish no longer exists, skipping order item", "dish_id", item.DishID)

				continue
			}

			return nil, fmt.Errorf("failed to look up dish %d: %w", item.DishID, err)
		}

		items = append(items, orderitem.OrderItem{
			DishID:              d.ID,
			DishName:            d.Name,
			Quantity:            item.Quantity,
			Price:               d.Price,
			PriceCurrency:       d.PriceCurrency,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = work.Rollback()
	}()

	created, inserted, err := work.OrderRepository().InsertIfAbsent(ctx, order.Order{
		CustomerID:          intent.CustomerID,
		Status:              order.StatusConfirmed,
		PaymentStatus:       order.PaymentStatusPaid,
		TotalAmount:         intent.TotalAmount,
		TotalCurrency:       money.CurrencyUSD,
		DeliveryAddress:     intent.DeliveryAddress,
		SpecialInstructions: intent.SpecialInstructions,
		PaymentRef:          sess.ID,
	})
	if err != nil {
		return nil, err
	}

	if !inserted {
		return &ReconcileResult{Order: *created, AlreadyExisted: true}, nil
	}

	for i := range items {
		items[i].OrderID = created.ID
	}
	storedItems, err := work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return nil, err
	}
	created.OrderItems = storedItems

	if err := s.stageOrderCreatedEvent(ctx, work, created); err != nil {
		return nil, err
	}

	if err := work.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return &ReconcileResult{Order: *created}, nil
}

func (s *CheckoutService) stageOrderCreatedEvent(ctx context.Context, work unitOfWork, o *order.Order) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	now := time.Now()

	return work.OutboxRepository().Insert(ctx, outbox.Message{
		QueueName:   orderCreatedQueue,
		RoutingKey:  orderCreatedQueue,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  5,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}
