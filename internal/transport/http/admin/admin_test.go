package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrelsaid4/Restaurant/internal/service/models/order"
	"github.com/amrelsaid4/Restaurant/internal/service/models/principal"
	"github.com/amrelsaid4/Restaurant/internal/service/services/authsvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/ordersvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/statssvc"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/middleware/sessionkey"
)

type stubStats struct{}

func (stubStats) GetDashboardStats(_ context.Context) (*statssvc.DashboardStats, error) {
	return &statssvc.DashboardStats{}, nil
}

func (stubStats) GetDishStats(_ context.Context) (*statssvc.DishStats, error) {
	return &statssvc.DishStats{TotalDishes: 4}, nil
}

func (stubStats) GetCustomerStats(_ context.Context) (*statssvc.CustomerStats, error) {
	return &statssvc.CustomerStats{}, nil
}

type stubOrders struct {
	updated map[int64]string
}

func (s *stubOrders) GetOrders(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return []order.Order{{ID: 1}}, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, orderID int64, status string) error {
	if _, err := order.ParseStatus(status); err != nil {
		return err
	}
	if orderID == 404 {
		return ordersvc.ErrOrderNotFound
	}
	s.updated[orderID] = status

	return nil
}

type fixedResolver struct {
	p principal.Principal
}

func (f fixedResolver) Resolve(_ context.Context, _ authsvc.Credentials) principal.Principal {
	return f.p
}

// do runs the request through the session middleware so the handler sees
// the given principal.
func do(p principal.Principal, r *http.Request, handler http.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mw := sessionkey.NewMiddleware(fixedResolver{p: p})
	mw(handler).ServeHTTP(w, r)

	return w
}

func adminPrincipal() principal.Principal {
	p := principal.Authenticated(1, "boss", "boss@example.com")
	p.IsAdmin = true

	return p
}

func TestDashboardRequiresAuth(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/stats/dashboard", nil)
	w := do(principal.Anonymous(), r, func(w http.ResponseWriter, r *http.Request) {
		Dashboard(w, r, stubStats{})
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardRequiresAdmin(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/stats/dashboard", nil)
	w := do(principal.Authenticated(2, "alice", "alice@example.com"), r, func(w http.ResponseWriter, r *http.Request) {
		Dashboard(w, r, stubStats{})
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDashboard(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/stats/dashboard", nil)
	w := do(adminPrincipal(), r, func(w http.ResponseWriter, r *http.Request) {
		Dashboard(w, r, stubStats{})
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDishStats(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/stats/dishes", nil)
	w := do(adminPrincipal(), r, func(w http.ResponseWriter, r *http.Request) {
		DishStats(w, r, stubStats{})
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_dishes":4`)
}

func TestOrders(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	w := do(adminPrincipal(), r, func(w http.ResponseWriter, r *http.Request) {
		Orders(w, r, &stubOrders{updated: map[int64]string{}})
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUpdateOrderStatus(t *testing.T) {
	orders := &stubOrders{updated: map[int64]string{}}

	r := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/5/status", strings.NewReader(`{"status":"preparing"}`))
	r = withURLParam(r, "id", "5")
	w := do(adminPrincipal(), r, func(w http.ResponseWriter, r *http.Request) {
		UpdateOrderStatus(w, r, orders)
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "preparing", orders.updated[5])
}

func TestUpdateOrderStatusInvalid(t *testing.T) {
	orders := &stubOrders{updated: map[int64]string{}}

	r := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/5/status", strings.NewReader(`{"status":"flying"}`))
	r = withURLParam(r, "id", "5")
	w := do(adminPrincipal(), r, func(w http.ResponseWriter, r *http.Request) {
		UpdateOrderStatus(w, r, orders)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	orders := &stubOrders{updated: map[int64]string{}}

	r := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/404/status", strings.NewReader(`{"status":"preparing"}`))
	r = withURLParam(r, "id", "404")
	w := do(adminPrincipal(), r, func(w http.ResponseWriter, r *http.Request) {
		UpdateOrderStatus(w, r, orders)
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}
