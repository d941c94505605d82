package order

import (
	"errors"
	"time"

	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
	"github.com/amrelsaid4/Restaurant/internal/service/models/orderitem"
)

// Status is the fulfillment state of an order. Transitions are free-form.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var (
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusReady, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid,
		PaymentStatusFailed, PaymentStatusRefunded:
		return PaymentStatus(s), nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}

// Order represents a customer order in the system.
// PaymentRef holds the external payment session identifier and is the
// uniqueness key that makes payment reconciliation idempotent.
type Order struct {
	ID                  int64                 `json:"id"`
	CustomerID          int64                 `json:"customerId"`
	Status              Status                `json:"status"`
	PaymentStatus       PaymentStatus         `json:"paymentStatus"`
	TotalAmount         money.Money           `json:"totalAmount"`
	TotalCurrency       money.Currency        `json:"totalCurrency"`
	DeliveryAddress     string                `json:"deliveryAddress"`
	SpecialInstructions string                `json:"specialInstructions"`
	PaymentRef          string                `json:"paymentRef,omitempty"`
	OrderDate           time.Time             `json:"orderDate"`
	UpdatedAt           time.Time             `json:"updatedAt"`
	OrderItems          []orderitem.OrderItem `json:"orderItems"`
}
