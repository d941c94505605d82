package statssvc

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/amrelsaid4/Restaurant/internal/dal/postgres"
	statsrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/stats/postgres"
	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
)

type statsRepository interface {
	CountOrders(ctx context.Context, status string) (int64, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountCustomersWithOrders(ctx context.Context) (int64, error)
	CountDishes(ctx context.Context, flag string) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
	PaidRevenueCents(ctx context.Context, since *time.Time) (int64, error)
	OrdersByStatus(ctx context.Context) ([]statsrepo.StatusCount, error)
	TopDishes(ctx context.Context, limit int) ([]statsrepo.TopDish, error)
	AverageRating(ctx context.Context) (float64, error)
}

// StatsService computes the admin dashboard aggregates.
type StatsService struct {
	stats statsRepository
}

type option func(*StatsService)

// MustNewStatsService creates a new StatsService.
func MustNewStatsService(opts ...option) *StatsService {
	s := &StatsService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.stats == nil {
		panic("statssvc: missing repository configuration")
	}

	return s
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *StatsService) {
		s.stats = statsrepo.NewPostgresStatsRepository(pgClient.DB())
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(stats statsRepository) option {
	return func(s *StatsService) {
		s.stats = stats
	}
}

// Overview is the headline block of the dashboard.
type Overview struct {
	TotalOrders     int64       `json:"total_orders"`
	TotalCustomers  int64       `json:"total_customers"`
	TotalDishes     int64       `json:"total_dishes"`
	TotalCategories int64       `json:"total_categories"`
	TotalRevenue    money.Money `json:"total_revenue"`
	AverageRating   float64     `json:"average_rating"`
}

// RecentStats covers the trailing seven days.
type RecentStats struct {
	RecentOrders  int64       `json:"recent_orders"`
	RecentRevenue money.Money `json:"recent_revenue"`
}

// DashboardStats is the full admin dashboard payload.
type DashboardStats struct {
	Overview      Overview                `json:"overview"`
	RecentStats   RecentStats             `json:"recent_stats"`
	OrderStatuses []statsrepo.StatusCount `json:"order_statuses"`
	TopDishes     []statsrepo.TopDish     `json:"top_dishes"`
}

// GetDashboardStats assembles the dashboard aggregates.
func (s *StatsService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	totalOrders, err := s.stats.CountOrders(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	totalCustomers, err := s.stats.CountCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	totalDishes, err := s.stats.CountDishes(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to count dishes: %w", err)
	}
	totalCategories, err := s.stats.CountCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	totalRevenue, err := s.stats.PaidRevenueCents(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	avgRating, err := s.stats.AverageRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	recentOrders, err := s.stats.CountOrdersSince(ctx, weekAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent orders: %w", err)
	}
	recentRevenue, err := s.stats.PaidRevenueCents(ctx, &weekAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to sum recent revenue: %w", err)
	}

	statuses, err := s.stats.OrdersByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to break down statuses: %w", err)
	}
	topDishes, err := s.stats.TopDishes(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to rank dishes: %w", err)
	}

	return &DashboardStats{
		Overview: Overview{
			TotalOrders:     totalOrders,
			TotalCustomers:  totalCustomers,
			TotalDishes:     totalDishes,
			TotalCategories: totalCategories,
			TotalRevenue:    money.FromCents(totalRevenue),
			AverageRating:   math.Round(avgRating*100) / 100,
		},
		RecentStats: RecentStats{
			RecentOrders:  recentOrders,
			RecentRevenue: money.FromCents(recentRevenue),
		},
		OrderStatuses: statuses,
		TopDishes:     topDishes,
	}, nil
}

// DishStats is the dish tab of the dashboard.
type DishStats struct {
	TotalDishes      int64 `json:"total_dishes"`
	AvailableDishes  int64 `json:"available_dishes"`
	VegetarianDishes int64 `json:"vegetarian_dishes"`
	SpicyDishes      int64 `json:"spicy_dishes"`
}

// GetDishStats counts dishes by their flags.
func (s *StatsService) GetDishStats(ctx context.Context) (*DishStats, error) {
	total, err := s.stats.CountDishes(ctx, "")
	if err != nil {
		return nil, err
	}
	available, err := s.stats.CountDishes(ctx, "is_available")
	if err != nil {
		return nil, err
	}
	vegetarian, err := s.stats.CountDishes(ctx, "is_vegetarian")
	if err != nil {
		return nil, err
	}
	spicy, err := s.stats.CountDishes(ctx, "is_spicy")
	if err != nil {
		return nil, err
	}

	return &DishStats{
		TotalDishes:      total,
		AvailableDishes:  available,
		VegetarianDishes: vegetarian,
		SpicyDishes:      spicy,
	}, nil
}

// CustomerStats is the customer tab of the dashboard.
type CustomerStats struct {
	TotalCustomers      int64 `json:"total_customers"`
	CustomersWithOrders int64 `json:"customers_with_orders"`
}

// GetCustomerStats counts customers and how many have ordered.
func (s *StatsService) GetCustomerStats(ctx context.Context) (*CustomerStats, error) {
	total, err := s.stats.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	withOrders, err := s.stats.CountCustomersWithOrders(ctx)
	if err != nil {
		return nil, err
	}

	return &CustomerStats{
		TotalCustomers:      total,
		CustomersWithOrders: withOrders,
	}, nil
}
