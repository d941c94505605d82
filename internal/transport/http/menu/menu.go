package menu

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/amrelsaid4/Restaurant/internal/service/models/category"
	"github.com/amrelsaid4/Restaurant/internal/service/models/dish"
	"github.com/amrelsaid4/Restaurant/internal/service/models/rating"
	"github.com/amrelsaid4/Restaurant/internal/service/models/restaurant"
	"github.com/amrelsaid4/Restaurant/internal/service/services/menusvc"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/httpx"
)

// service is an interface for the service layer.
type service interface {
	GetCategories(ctx context.Context) ([]category.Category, error)
	GetDishes(ctx context.Context, filter dish.QueryDishesModel) ([]dish.Dish, error)
	GetDish(ctx context.Context, id int64) (*dish.Dish, error)
	GetDishRatings(ctx context.Context, dishID int64) ([]rating.DishRating, error)
	GetOverview(ctx context.Context) (*menusvc.Overview, error)
	GetRestaurantInfo(ctx context.Context) (*restaurant.Restaurant, error)
}

// Categories lists active menu categories.
func Categories(w http.ResponseWriter, r *http.Request, service service) {
	categories, err := service.GetCategories(r.Context())
	if err != nil {
		slog.Error("Error getting categories", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load categories")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, categories)
}

// Dishes lists available dishes, optionally filtered by category and
// dietary flags from query parameters.
func Dishes(w http.ResponseWriter, r *http.Request, service service) {
	var filter dish.QueryDishesModel

	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid category id")

			return
		}
		filter.CategoryID = &id
	}
	if raw := r.URL.Query().Get("vegetarian"); raw != "" {
		v := raw == "true"
		filter.IsVegetarian = &v
	}
	if raw := r.URL.Query().Get("spicy"); raw != "" {
		v := raw == "true"
		filter.IsSpicy = &v
	}

	dishes, err := service.GetDishes(r.Context(), filter)
	if err != nil {
		slog.Error("Error getting dishes", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load dishes")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, dishes)
}

// Dish returns one dish by id.
func Dish(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid dish id")

		return
	}

	d, err := service.GetDish(r.Context(), id)
	if err != nil {
		if errors.Is(err, menusvc.ErrDishNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Dish not found")

			return
		}
		slog.Error("Error getting dish", "error", err, "dish_id", id)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load dish")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, d)
}

// DishRatings lists the ratings of a dish.
func DishRatings(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid dish id")

		return
	}

	ratings, err := service.GetDishRatings(r.Context(), id)
	if err != nil {
		if errors.Is(err, menusvc.ErrDishNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Dish not found")

			return
		}
		slog.Error("Error getting dish ratings", "error", err, "dish_id", id)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load ratings")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, ratings)
}

// Overview returns the menu landing payload.
func Overview(w http.ResponseWriter, r *http.Request, service service) {
	overview, err := service.GetOverview(r.Context())
	if err != nil {
		slog.Error("Error getting menu overview", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load menu")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, overview)
}

// RestaurantInfo returns the active restaurant profile.
func RestaurantInfo(w http.ResponseWriter, r *http.Request, service service) {
	info, err := service.GetRestaurantInfo(r.Context())
	if err != nil {
		if errors.Is(err, menusvc.ErrRestaurantNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Restaurant information not available")

			return
		}
		slog.Error("Error getting restaurant info", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load restaurant info")

		return
	}

	httpx.WriteJSON(w, http.StatusOK, info)
}
