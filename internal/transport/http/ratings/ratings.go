package ratings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/amrelsaid4/Restaurant/internal/service/models/rating"
	"github.com/amrelsaid4/Restaurant/internal/service/services/ratingsvc"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/httpx"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/middleware/sessionkey"
)

// service is an interface for the service layer.
type service interface {
	AddRating(ctx context.Context, userID, dishID int64, stars int, comment string) (*rating.DishRating, error)
	UpdateRating(ctx context.Context, userID, ratingID int64, stars int, comment string) (*rating.DishRating, error)
}

// Add records a new rating for a dish.
func Add(w http.ResponseWriter, r *http.Request, service service) {
	p := sessionkey.FromContext(r.Context())
	if !p.IsAuthenticated() {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")

		return
	}

	var req struct {
		DishID  int64  `json:"dish_id"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON data")

		return
	}

	dr, err := service.AddRating(r.Context(), p.UserID, req.DishID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, rating.ErrInvalidRating) {
			httpx.WriteError(w, http.StatusBadRequest, "Rating must be between 1 and 5")

			return
		}
		slog.Error("Error adding rating", "error", err, "dish_id", req.DishID)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to save rating")

		return
	}

	httpx.WriteJSON(w, http.StatusCreated, dr)
}

// Update replaces an existing rating owned by the caller.
func Update(w http.ResponseWriter, r *http.Request, service service) {
	p := sessionkey.FromContext(r.Context())
	if !p.IsAuthenticated() {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")

		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid rating id")

		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON data")

		return
	}

	dr, err := service.UpdateRating(r.Context(), p.UserID, id, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, rating.ErrInvalidRating):
			httpx.WriteError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		case errors.Is(err, ratingsvc.ErrRatingNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Rating not found")
		default:
			slog.Error("Error updating rating", "error", err, "rating_id", id)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to update rating")
		}

		return
	}

	httpx.WriteJSON(w, http.StatusOK, dr)
}
