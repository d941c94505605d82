package ratingsvc

import (
	"context"
	"errors"

	"github.com/amrelsaid4/Restaurant/internal/dal/postgres"
	customerrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/customer/postgres"
	ratingrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/rating/postgres"
	"github.com/amrelsaid4/Restaurant/internal/service/models/customer"
	"github.com/amrelsaid4/Restaurant/internal/service/models/rating"
)

var ErrRatingNotFound = errors.New("rating not found or not owned by user")

type ratingRepository interface {
	Insert(ctx context.Context, dr rating.DishRating) (*rating.DishRating, error)
	Update(ctx context.Context, id, customerID int64, stars int, comment string) (*rating.DishRating, error)
}

type customerRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*customer.Customer, error)
	GetOrCreate(ctx context.Context, c customer.Customer) (*customer.Customer, error)
}

// RatingService lets customers rate dishes.
type RatingService struct {
	ratings   ratingRepository
	customers customerRepository
}

type option func(*RatingService)

// MustNewRatingService creates a new RatingService.
func MustNewRatingService(opts ...option) *RatingService {
	s := &RatingService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.ratings == nil || s.customers == nil {
		panic("ratingsvc: missing repository configuration")
	}

	return s
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *RatingService) {
		s.ratings = ratingrepo.NewPostgresRatingRepository(pgClient.DB())
		s.customers = customerrepo.NewPostgresCustomerRepository(pgClient.DB())
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(ratings ratingRepository, customers customerRepository) option {
	return func(s *RatingService) {
		s.ratings = ratings
		s.customers = customers
	}
}

// AddRating creates a rating for a dish on behalf of the user, creating
// the customer profile lazily. Repeat ratings are allowed.
func (s *RatingService) AddRating(ctx context.Context, userID, dishID int64, stars int, comment string) (*rating.DishRating, error) {
	dr := rating.DishRating{
		DishID:  dishID,
		Rating:  stars,
		Comment: comment,
	}
	if err := dr.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.customers.GetOrCreate(ctx, customer.Customer{UserID: userID})
	if err != nil {
		return nil, err
	}
	dr.CustomerID = cust.ID

	return s.ratings.Insert(ctx, dr)
}

// UpdateRating replaces an existing rating owned by the user.
func (s *RatingService) UpdateRating(ctx context.Context, userID, ratingID int64, stars int, comment string) (*rating.DishRating, error) {
	if err := (rating.DishRating{Rating: stars}).Validate(); err != nil {
		return nil, err
	}

	cust, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrRatingNotFound
	}

	updated, err := s.ratings.Update(ctx, ratingID, cust.ID, stars, comment)
	if err != nil {
		if errors.Is(err, ratingrepo.ErrRatingNotFound) {
			return nil, ErrRatingNotFound
		}

		return nil, err
	}

	return updated, nil
}
