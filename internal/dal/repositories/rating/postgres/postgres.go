package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/amrelsaid4/Restaurant/internal/service/models/rating"
	"github.com/jmoiron/sqlx"
)

var ErrRatingNotFound = errors.New("rating not found")

// RatingDal represents dish rating data access layer model.
type RatingDal struct {
	Id         int64     `db:"id"`
	DishId     int64     `db:"dish_id"`
	CustomerId int64     `db:"customer_id"`
	Rating     int       `db:"rating"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}

func (d *RatingDal) ToModel() *rating.DishRating {
	return &rating.DishRating{
		ID:         d.Id,
		DishID:     d.DishId,
		CustomerID: d.CustomerId,
		Rating:     d.Rating,
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt,
	}
}

type PostgresRatingRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresRatingRepository(conn sqlx.ExtContext) *PostgresRatingRepository {
	return &PostgresRatingRepository{
		conn: conn,
	}
}

var ratingColumns = []string{"id", "dish_id", "customer_id", "rating", "comment", "created_at"}

// Insert stores a new rating and returns it with its assigned id.
func (r *PostgresRatingRepository) Insert(ctx context.Context, dr rating.DishRating) (*rating.DishRating, error) {
	query, args, err := sq.Insert("dish_ratings").
		Columns("dish_id", "customer_id", "rating", "comment", "created_at").
		Values(dr.DishID, dr.CustomerID, dr.Rating, dr.Comment, time.Now()).
		Suffix("RETURNING id, dish_id, customer_id, rating, comment, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rating insert: %w", err)
	}

	var dal RatingDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert rating: %w", err)
	}

	return dal.ToModel(), nil
}

// Update replaces the stars and comment on a rating owned by the customer.
func (r *PostgresRatingRepository) Update(ctx context.Context, id, customerID int64, stars int, comment string) (*rating.DishRating, error) {
	query, args, err := sq.Update("dish_ratings").
		Set("rating", stars).
		Set("comment", comment).
		Where(sq.Eq{"id": id, "customer_id": customerID}).
		Suffix("RETURNING id, dish_id, customer_id, rating, comment, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rating update: %w", err)
	}

	var dal RatingDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}

		return nil, fmt.Errorf("failed to update rating: %w", err)
	}

	return dal.ToModel(), nil
}

// QueryByDish retrieves all ratings for a dish, newest first.
func (r *PostgresRatingRepository) QueryByDish(ctx context.Context, dishID int64) ([]rating.DishRating, error) {
	query, args, err := sq.Select(ratingColumns...).
		From("dish_ratings").
		Where(sq.Eq{"dish_id": dishID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ratings query: %w", err)
	}

	var dals []RatingDal
	if err := sqlx.SelectContext(ctx, r.conn, &dals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}

	result := make([]rating.DishRating, 0, len(dals))
	for i := range dals {
		result = append(result, *dals[i].ToModel())
	}

	return result, nil
}
