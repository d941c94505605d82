package orders

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/amrelsaid4/Restaurant/internal/service/models/order"
	"github.com/amrelsaid4/Restaurant/internal/service/services/ordersvc"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/httpx"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/middleware/sessionkey"
)

// service is an interface for the service layer.
type service interface {
	GetCustomerOrders(ctx context.Context, userID int64, limit int) ([]order.Order, error)
	GetCustomerOrder(ctx context.Context, userID, orderID int64) (*order.Order, error)
	GetProfile(ctx context.Context, userID int64) (*ordersvc.Profile, error)
}

// List returns the caller's orders, newest first.
func List(w http.ResponseWriter, r *http.Request, service service) {
	p := sessionkey.FromContext(r.Context())
	if !p.IsAuthenticated() {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")

		return
	}

	orders, err := service.GetCustomerOrders(r.Context(), p.UserID, 0)
	if err != nil {
		slog.Error("Error getting customer orders", "error", err, "user_id", p.UserID)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load orders")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, orders)
}

// Get returns one of the caller's orders by id.
func Get(w http.ResponseWriter, r *http.Request, service service) {
	p := sessionkey.FromContext(r.Context())
	if !p.IsAuthenticated() {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")

		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid order id")

		return
	}

	o, err := service.GetCustomerOrder(r.Context(), p.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, ordersvc.ErrOrderNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, ordersvc.ErrNotOwner):
			httpx.WriteError(w, http.StatusForbidden, "Order does not belong to you")
		default:
			slog.Error("Error getting order", "error", err, "order_id", id)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to load order")
		}

		return
	}

	httpx.WriteJSON(w, http.StatusOK, o)
}

// Profile returns the caller's customer profile with recent orders.
func Profile(w http.ResponseWriter, r *http.Request, service service) {
	p := sessionkey.FromContext(r.Context())
	if !p.IsAuthenticated() {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")

		return
	}

	profile, err := service.GetProfile(r.Context(), p.UserID)
	if err != nil {
		slog.Error("Error getting profile", "error", err, "user_id", p.UserID)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load profile")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, profile)
}
