package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/amrelsaid4/Restaurant/internal/service/models/order"
	"github.com/amrelsaid4/Restaurant/internal/service/services/ordersvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/statssvc"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/httpx"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/middleware/sessionkey"
)

// statsService is an interface for the stats service layer.
type statsService interface {
	GetDashboardStats(ctx context.Context) (*statssvc.DashboardStats, error)
	GetDishStats(ctx context.Context) (*statssvc.DishStats, error)
	GetCustomerStats(ctx context.Context) (*statssvc.CustomerStats, error)
}

// orderService is an interface for the order service layer.
type orderService interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

// requireAdmin rejects callers without the admin capability. Returns
// false when the response has already been written.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	p := sessionkey.FromContext(r.Context())
	if !p.IsAuthenticated() {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")

		return false
	}
	if !p.IsAdmin {
		httpx.WriteError(w, http.StatusForbidden, "Admin access required")

		return false
	}

	return true
}

// Dashboard returns the full dashboard aggregates.
func Dashboard(w http.ResponseWriter, r *http.Request, service statsService) {
	if !requireAdmin(w, r) {
		return
	}

	stats, err := service.GetDashboardStats(r.Context())
	if err != nil {
		slog.Error("Error getting dashboard stats", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load dashboard")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, stats)
}

// DishStats returns dish counts by flag.
func DishStats(w http.ResponseWriter, r *http.Request, service statsService) {
	if !requireAdmin(w, r) {
		return
	}

	stats, err := service.GetDishStats(r.Context())
	if err != nil {
		slog.Error("Error getting dish stats", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load dish stats")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, stats)
}

// CustomerStats returns customer counts.
func CustomerStats(w http.ResponseWriter, r *http.Request, service statsService) {
	if !requireAdmin(w, r) {
		return
	}

	stats, err := service.GetCustomerStats(r.Context())
	if err != nil {
		slog.Error("Error getting customer stats", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load customer stats")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, stats)
}

// Orders lists orders across all customers, newest first.
func Orders(w http.ResponseWriter, r *http.Request, service orderService) {
	if !requireAdmin(w, r) {
		return
	}

	filter := &order.QueryOrdersModel{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid limit")

			return
		}
		filter.Limit = limit
	}

	orders, err := service.GetOrders(r.Context(), filter)
	if err != nil {
		slog.Error("Error getting orders", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load orders")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus sets a new fulfillment status on an order.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, service orderService) {
	if !requireAdmin(w, r) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid order id")

		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON data")

		return
	}

	if err := service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, ordersvc.ErrOrderNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Order not found")
		default:
			slog.Error("Error updating order status", "error", err, "order_id", id)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to update order")
		}

		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Order status updated"})
}
