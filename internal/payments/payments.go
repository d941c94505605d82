package payments

import "errors"

// Sentinel errors surfaced by processor implementations.
var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

// LineItem is a server-priced line sent to the payment processor. Amounts
// are computed from current dish prices, never taken from the client.
type LineItem struct {
	Name        string
	Description string
	AmountCents int64
	Currency    string
	Quantity    int
}

// Session is the processor-side view of a checkout session.
type Session struct {
	ID       string
	URL      string
	Paid     bool
	Metadata map[string]string
}

// Event kinds relevant to reconciliation.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// WebhookEvent is a verified processor push notification.
type WebhookEvent struct {
	Type    string
	Session *Session
}
