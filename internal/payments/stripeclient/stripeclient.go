package stripeclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amrelsaid4/Restaurant/internal/config"
	"github.com/amrelsaid4/Restaurant/internal/payments"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Client wraps the Stripe API behind the processor surface the checkout
// service consumes.
type Client struct {
	api *client.API
	cfg config.Stripe
}

// New creates a Stripe-backed payment client from injected configuration.
func New(cfg config.Stripe) *Client {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &Client{
		api: api,
		cfg: cfg,
	}
}

// PublishableKey exposes the frontend key.
func (c *Client) PublishableKey() string {
	return c.cfg.PublishableKey
}

// CreateCheckoutSession creates a processor-hosted checkout session. The
// metadata travels with the session and is the durable checkout intent.
func (c *Client) CreateCheckoutSession(
	ctx context.Context,
	customerEmail string,
	lines []payments.LineItem,
	metadata map[string]string,
) (*payments.Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(line.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(line.Name),
					Description: stripe.String(line.Description),
				},
				UnitAmount: stripe.Int64(line.AmountCents),
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		LineItems:                lineItems,
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(c.cfg.SuccessURL),
		CancelURL:                stripe.String(c.cfg.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
	}
	params.Context = ctx
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return toSession(sess), nil
}

// RetrieveSession re-fetches a checkout session by id.
func (c *Client) RetrieveSession(ctx context.Context, id string) (*payments.Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	return toSession(sess), nil
}

// VerifyWebhook checks the event signature against the shared secret and
// decodes the embedded checkout session, if any.
func (c *Client) VerifyWebhook(payload []byte, signature string) (*payments.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.cfg.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payments.ErrInvalidSignature, err)
	}

	result := &payments.WebhookEvent{Type: string(event.Type)}

	if result.Type == payments.EventCheckoutCompleted || result.Type == payments.EventCheckoutExpired {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: %v", payments.ErrInvalidPayload, err)
		}
		result.Session = toSession(&sess)
	}

	return result, nil
}

func toSession(sess *stripe.CheckoutSession) *payments.Session {
	return &payments.Session{
		ID:       sess.ID,
		URL:      sess.URL,
		Paid:     sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: sess.Metadata,
	}
}
