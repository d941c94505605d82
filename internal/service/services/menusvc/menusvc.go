package menusvc

import (
	"context"
	"errors"

	"github.com/amrelsaid4/Restaurant/internal/dal/postgres"
	menurepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/menu/postgres"
	ratingrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/rating/postgres"
	restaurantrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/restaurant/postgres"
	"github.com/amrelsaid4/Restaurant/internal/service/models/category"
	"github.com/amrelsaid4/Restaurant/internal/service/models/dish"
	"github.com/amrelsaid4/Restaurant/internal/service/models/rating"
	"github.com/amrelsaid4/Restaurant/internal/service/models/restaurant"
)

var (
	ErrDishNotFound       = errors.New("dish not found")
	ErrRestaurantNotFound = errors.New("restaurant information not available")
)

type menuRepository interface {
	QueryDishes(ctx context.Context, filter dish.QueryDishesModel) ([]dish.Dish, error)
	GetDishByID(ctx context.Context, id int64) (*dish.Dish, error)
	QueryCategories(ctx context.Context, activeOnly bool) ([]category.Category, error)
}

type ratingRepository interface {
	QueryByDish(ctx context.Context, dishID int64) ([]rating.DishRating, error)
}

type restaurantRepository interface {
	GetActive(ctx context.Context) (*restaurant.Restaurant, error)
}

// MenuService serves the public menu surface.
type MenuService struct {
	menu        menuRepository
	ratings     ratingRepository
	restaurants restaurantRepository
}

// option is a function that configures the MenuService.
type option func(*MenuService)

// MustNewMenuService creates a new MenuService.
func MustNewMenuService(opts ...option) *MenuService {
	s := &MenuService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.menu == nil || s.ratings == nil || s.restaurants == nil {
		panic("menusvc: missing repository configuration")
	}

	return s
}

// WithPostgresClient wires the default Postgres-backed repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *MenuService) {
		s.menu = menurepo.NewPostgresMenuRepository(pgClient.DB())
		s.ratings = ratingrepo.NewPostgresRatingRepository(pgClient.DB())
		s.restaurants = restaurantrepo.NewPostgresRestaurantRepository(pgClient.DB())
	}
}

// WithRepositories injects repositories directly, used in tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(menu menuRepository, ratings ratingRepository, restaurants restaurantRepository) option {
	return func(s *MenuService) {
		s.menu = menu
		s.ratings = ratings
		s.restaurants = restaurants
	}
}

// GetCategories returns active categories.
func (s *MenuService) GetCategories(ctx context.Context) ([]category.Category, error) {
	return s.menu.QueryCategories(ctx, true)
}

// GetDishes returns available dishes matching the filter.
func (s *MenuService) GetDishes(ctx context.Context, filter dish.QueryDishesModel) ([]dish.Dish, error) {
	filter.AvailableOnly = true

	return s.menu.QueryDishes(ctx, filter)
}

// GetDish returns one dish by id.
func (s *MenuService) GetDish(ctx context.Context, id int64) (*dish.Dish, error) {
	d, err := s.menu.GetDishByID(ctx, id)
	if err != nil {
		if errors.Is(err, menurepo.ErrDishNotFound) {
			return nil, ErrDishNotFound
		}

		return nil, err
	}

	return d, nil
}

// GetDishRatings returns the ratings for a dish.
func (s *MenuService) GetDishRatings(ctx context.Context, dishID int64) ([]rating.DishRating, error) {
	if _, err := s.GetDish(ctx, dishID); err != nil {
		return nil, err
	}

	return s.ratings.QueryByDish(ctx, dishID)
}

// Overview is the menu landing payload: categories plus featured dishes.
type Overview struct {
	Categories     []category.Category `json:"categories"`
	FeaturedDishes []dish.Dish         `json:"featured_dishes"`
}

// GetOverview returns active categories and the first six available dishes.
func (s *MenuService) GetOverview(ctx context.Context) (*Overview, error) {
	categories, err := s.menu.QueryCategories(ctx, true)
	if err != nil {
		return nil, err
	}

	featured, err := s.menu.QueryDishes(ctx, dish.QueryDishesModel{
		AvailableOnly: true,
		Limit:         6,
	})
	if err != nil {
		return nil, err
	}

	return &Overview{
		Categories:     categories,
		FeaturedDishes: featured,
	}, nil
}

// GetRestaurantInfo returns the active restaurant profile.
func (s *MenuService) GetRestaurantInfo(ctx context.Context) (*restaurant.Restaurant, error) {
	r, err := s.restaurants.GetActive(ctx)
	if err != nil {
		if errors.Is(err, restaurantrepo.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}

		return nil, err
	}

	return r, nil
}
