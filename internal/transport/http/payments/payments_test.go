package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymodel "github.com/amrelsaid4/Restaurant/internal/payments"
	"github.com/amrelsaid4/Restaurant/internal/service/models/checkout"
	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
	"github.com/amrelsaid4/Restaurant/internal/service/models/order"
	"github.com/amrelsaid4/Restaurant/internal/service/models/principal"
	"github.com/amrelsaid4/Restaurant/internal/service/services/checkoutsvc"
)

type stubService struct {
	session      *checkout.Session
	checkoutErr  error
	result       *checkoutsvc.ReconcileResult
	redirectErr  error
	webhookErr   error
	webhookCalls int
}

func (s *stubService) Checkout(_ context.Context, _ principal.Principal, _ checkoutsvc.CheckoutRequest) (*checkout.Session, error) {
	return s.session, s.checkoutErr
}

func (s *stubService) ConfirmFromRedirect(_ context.Context, _ string) (*checkoutsvc.ReconcileResult, error) {
	return s.result, s.redirectErr
}

func (s *stubService) HandleWebhook(_ context.Context, _ []byte, _ string) error {
	s.webhookCalls++

	return s.webhookErr
}

func TestCheckoutReturnsSession(t *testing.T) {
	stub := &stubService{session: &checkout.Session{
		ID:          "cs_1",
		CheckoutURL: "https://pay.example/cs_1",
		TotalAmount: money.FromCents(2899),
	}}

	body := `{"items":[{"dish_id":1,"quantity":2}],"delivery_address":"123 Main Street"}`
	r := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	Checkout(w, r, stub)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_amount":28.99`)
	assert.Contains(t, w.Body.String(), "https://pay.example/cs_1")
}

func TestCheckoutEmptyCart(t *testing.T) {
	stub := &stubService{checkoutErr: checkoutsvc.ErrEmptyCart}

	r := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"items":[]}`))
	w := httptest.NewRecorder()

	Checkout(w, r, stub)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No items provided")
}

func TestCheckoutRejectsBadJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader("{"))
	w := httptest.NewRecorder()

	Checkout(w, r, &stubService{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuccessRequiresSessionID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/payments/success", nil)
	w := httptest.NewRecorder()

	Success(w, r, &stubService{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuccessReconcilesOrder(t *testing.T) {
	stub := &stubService{result: &checkoutsvc.ReconcileResult{Order: order.Order{ID: 42}}}

	r := httptest.NewRequest(http.MethodGet, "/api/payments/success?session_id=cs_1", nil)
	w := httptest.NewRecorder()

	Success(w, r, stub)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"order_id":42`)
}

func TestSuccessUnpaidSession(t *testing.T) {
	stub := &stubService{redirectErr: checkoutsvc.ErrPaymentNotCompleted}

	r := httptest.NewRequest(http.MethodGet, "/api/payments/success?session_id=cs_1", nil)
	w := httptest.NewRecorder()

	Success(w, r, stub)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookBadSignature(t *testing.T) {
	stub := &stubService{webhookErr: paymodel.ErrInvalidSignature}

	r := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader("{}"))
	r.Header.Set("Stripe-Signature", "bogus")
	w := httptest.NewRecorder()

	Webhook(w, r, stub)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, stub.webhookCalls)
}

func TestWebhookHandlerFailureIsRetryable(t *testing.T) {
	stub := &stubService{webhookErr: assert.AnError}

	r := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader("{}"))
	w := httptest.NewRecorder()

	Webhook(w, r, stub)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookAcknowledged(t *testing.T) {
	stub := &stubService{}

	r := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader("{}"))
	r.Header.Set("Stripe-Signature", "valid")
	w := httptest.NewRecorder()

	Webhook(w, r, stub)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}

func TestCancel(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/payments/cancel", nil)
	w := httptest.NewRecorder()

	Cancel(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

type stubKeys struct{}

func (stubKeys) PublishableKey() string { return "pk_test_123" }

func TestConfig(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/payments/config", nil)
	w := httptest.NewRecorder()

	Config(w, r, stubKeys{})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pk_test_123")
}
