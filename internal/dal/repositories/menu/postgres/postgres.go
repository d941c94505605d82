package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/amrelsaid4/Restaurant/internal/service/models/category"
	"github.com/amrelsaid4/Restaurant/internal/service/models/dish"
	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
	"github.com/jmoiron/sqlx"
)

var ErrDishNotFound = errors.New("dish not found")

// DishDal represents dish data access layer model.
type DishDal struct {
	Id              int64     `db:"id"`
	Name            string    `db:"name"`
	Description     string    `db:"description"`
	PriceCents      int64     `db:"price_cents"`
	PriceCurrency   string    `db:"price_currency"`
	CategoryId      int64     `db:"category_id"`
	ImageUrl        string    `db:"image_url"`
	IsAvailable     bool      `db:"is_available"`
	PreparationTime int       `db:"preparation_time"`
	Ingredients     string    `db:"ingredients"`
	Calories        *int      `db:"calories"`
	IsSpicy         bool      `db:"is_spicy"`
	IsVegetarian    bool      `db:"is_vegetarian"`
	AverageRating   float64   `db:"average_rating"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (d *DishDal) ToModel() (*dish.Dish, error) {
	cur, err := money.ParseCurrency(d.PriceCurrency)
	if err != nil {
		return nil, err
	}

	return &dish.Dish{
		ID:              d.Id,
		Name:            d.Name,
		Description:     d.Description,
		Price:           money.FromCents(d.PriceCents),
		PriceCurrency:   cur,
		CategoryID:      d.CategoryId,
		ImageURL:        d.ImageUrl,
		IsAvailable:     d.IsAvailable,
		PreparationTime: d.PreparationTime,
		Ingredients:     d.Ingredients,
		Calories:        d.Calories,
		IsSpicy:         d.IsSpicy,
		IsVegetarian:    d.IsVegetarian,
		AverageRating:   d.AverageRating,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

type PostgresMenuRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresMenuRepository(conn sqlx.ExtContext) *PostgresMenuRepository {
	return &PostgresMenuRepository{
		conn: conn,
	}
}

func dishSelect() sq.SelectBuilder {
	return sq.Select(
		"d.id", "d.name", "d.description", "d.price_cents", "d.price_currency",
		"d.category_id", "d.image_url", "d.is_available", "d.preparation_time",
		"d.ingredients", "d.calories", "d.is_spicy", "d.is_vegetarian",
		"COALESCE(r.average_rating, 0) AS average_rating",
		"d.created_at", "d.updated_at",
	).
		From("dishes d").
		LeftJoin("(SELECT dish_id, AVG(rating) AS average_rating FROM dish_ratings GROUP BY dish_id) r ON r.dish_id = d.id").
		PlaceholderFormat(sq.Dollar)
}

// QueryDishes retrieves dishes matching the filter, ordered by category
// then name.
func (r *PostgresMenuRepository) QueryDishes(ctx context.Context, filter dish.QueryDishesModel) ([]dish.Dish, error) {
	builder := dishSelect().OrderBy("d.category_id", "d.name")

	if filter.AvailableOnly {
		builder = builder.Where(sq.Eq{"d.is_available": true})
	}
	if filter.CategoryID != nil {
		builder = builder.Where(sq.Eq{"d.category_id": *filter.CategoryID})
	}
	if filter.IsVegetarian != nil {
		builder = builder.Where(sq.Eq{"d.is_vegetarian": *filter.IsVegetarian})
	}
	if filter.IsSpicy != nil {
		builder = builder.Where(sq.Eq{"d.is_spicy": *filter.IsSpicy})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build dishes query: %w", err)
	}

	var dals []DishDal
	if err := sqlx.SelectContext(ctx, r.conn, &dals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}

	result := make([]dish.Dish, 0, len(dals))
	for i := range dals {
		model, err := dals[i].ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert dish dal to model: %w", err)
		}
		result = append(result, *model)
	}

	return result, nil
}

// GetDishByID retrieves a single dish by primary key.
func (r *PostgresMenuRepository) GetDishByID(ctx context.Context, id int64) (*dish.Dish, error) {
	query, args, err := dishSelect().Where(sq.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build dish query: %w", err)
	}

	var dal DishDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDishNotFound
		}

		return nil, fmt.Errorf("failed to query dish: %w", err)
	}

	return dal.ToModel()
}

// QueryCategories retrieves categories ordered by name.
func (r *PostgresMenuRepository) QueryCategories(ctx context.Context, activeOnly bool) ([]category.Category, error) {
	builder := sq.Select("id", "name", "description", "image_url", "is_active", "created_at").
		From("categories").
		OrderBy("name").
		PlaceholderFormat(sq.Dollar)
	if activeOnly {
		builder = builder.Where(sq.Eq{"is_active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build categories query: %w", err)
	}

	var dals []struct {
		Id          int64     `db:"id"`
		Name        string    `db:"name"`
		Description string    `db:"description"`
		ImageUrl    string    `db:"image_url"`
		IsActive    bool      `db:"is_active"`
		CreatedAt   time.Time `db:"created_at"`
	}
	if err := sqlx.SelectContext(ctx, r.conn, &dals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	result := make([]category.Category, 0, len(dals))
	for _, dal := range dals {
		result = append(result, category.Category{
			ID:          dal.Id,
			Name:        dal.Name,
			Description: dal.Description,
			ImageURL:    dal.ImageUrl,
			IsActive:    dal.IsActive,
			CreatedAt:   dal.CreatedAt,
		})
	}

	return result, nil
}
