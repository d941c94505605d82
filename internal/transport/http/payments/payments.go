package payments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	paymodel "github.com/amrelsaid4/Restaurant/internal/payments"
	"github.com/amrelsaid4/Restaurant/internal/service/models/checkout"
	"github.com/amrelsaid4/Restaurant/internal/service/models/principal"
	"github.com/amrelsaid4/Restaurant/internal/service/services/checkoutsvc"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/httpx"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/middleware/sessionkey"
)

// maxWebhookBody bounds processor webhook payloads.
const maxWebhookBody = 1 << 16

// service is an interface for the service layer.
type service interface {
	Checkout(ctx context.Context, p principal.Principal, req checkoutsvc.CheckoutRequest) (*checkout.Session, error)
	ConfirmFromRedirect(ctx context.Context, sessionID string) (*checkoutsvc.ReconcileResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// keyProvider exposes the processor's client-side key.
type keyProvider interface {
	PublishableKey() string
}

// Checkout creates a hosted checkout session for the submitted cart.
func Checkout(w http.ResponseWriter, r *http.Request, service service) {
	var req struct {
		Items               []checkout.CartItem `json:"items"`
		DeliveryAddress     string              `json:"delivery_address"`
		SpecialInstructions string              `json:"special_instructions"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON data")

		return
	}

	p := sessionkey.FromContext(r.Context())

	sess, err := service.Checkout(r.Context(), p, checkoutsvc.CheckoutRequest{
		Items:               req.Items,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkoutsvc.ErrEmptyCart):
			httpx.WriteError(w, http.StatusBadRequest, "No items provided")
		case errors.Is(err, checkoutsvc.ErrNoValidItems):
			httpx.WriteError(w, http.StatusBadRequest, "No valid items found")
		default:
			slog.Error("Checkout error", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Checkout failed")
		}

		return
	}

	httpx.WriteJSON(w, http.StatusOK, sess)
}

// Success handles the browser's return from the payment page and
// reconciles the order. Safe to hit more than once for the same session.
func Success(w http.ResponseWriter, r *http.Request, service service) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "No session ID provided")

		return
	}

	result, err := service.ConfirmFromRedirect(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, checkoutsvc.ErrPaymentNotCompleted):
			httpx.WriteError(w, http.StatusBadRequest, "Payment not completed")
		case errors.Is(err, checkoutsvc.ErrCustomerNotFound):
			httpx.WriteError(w, http.StatusBadRequest, "Customer not found")
		default:
			slog.Error("Payment confirmation error", "error", err, "session_id", sessionID)
			httpx.WriteError(w, http.StatusInternalServerError, "Payment verification failed")
		}

		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"order_id": result.Order.ID,
		"message":  "Payment successful",
	})
}

// Cancel acknowledges an abandoned checkout.
func Cancel(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": false,
		"message": "Payment cancelled",
	})
}

// Webhook receives signed processor push notifications. Invalid signatures
// are rejected outright; handler failures return a non-2xx status so the
// processor re-delivers.
func Webhook(w http.ResponseWriter, r *http.Request, service service) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid payload")

		return
	}

	err = service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, paymodel.ErrInvalidSignature), errors.Is(err, paymodel.ErrInvalidPayload):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid signature")
		default:
			slog.Error("Webhook processing error", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Webhook processing failed")
		}

		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// Config exposes the processor's publishable key to browser clients.
func Config(w http.ResponseWriter, _ *http.Request, keys keyProvider) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"publishable_key": keys.PublishableKey(),
	})
}
