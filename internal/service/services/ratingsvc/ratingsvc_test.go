package ratingsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/customer/postgres"
	ratingrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/rating/postgres"
	"github.com/amrelsaid4/Restaurant/internal/service/models/customer"
	"github.com/amrelsaid4/Restaurant/internal/service/models/rating"
)

type fakeRatingRepo struct {
	ratings map[int64]rating.DishRating
	nextID  int64
}

func (f *fakeRatingRepo) Insert(_ context.Context, dr rating.DishRating) (*rating.DishRating, error) {
	f.nextID++
	dr.ID = f.nextID
	f.ratings[dr.ID] = dr

	return &dr, nil
}

func (f *fakeRatingRepo) Update(_ context.Context, id, customerID int64, stars int, comment string) (*rating.DishRating, error) {
	dr, ok := f.ratings[id]
	if !ok || dr.CustomerID != customerID {
		return nil, ratingrepo.ErrRatingNotFound
	}
	dr.Rating = stars
	dr.Comment = comment
	f.ratings[id] = dr

	return &dr, nil
}

type fakeCustomerRepo struct {
	customers map[int64]customer.Customer
	nextID    int64
}

func (f *fakeCustomerRepo) GetByUserID(_ context.Context, userID int64) (*customer.Customer, error) {
	for _, c := range f.customers {
		if c.UserID == userID {
			return &c, nil
		}
	}

	return nil, customerrepo.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) GetOrCreate(ctx context.Context, c customer.Customer) (*customer.Customer, error) {
	if existing, err := f.GetByUserID(ctx, c.UserID); err == nil {
		return existing, nil
	}

	f.nextID++
	c.ID = f.nextID
	f.customers[c.ID] = c

	return &c, nil
}

func newService() (*RatingService, *fakeRatingRepo, *fakeCustomerRepo) {
	ratings := &fakeRatingRepo{ratings: map[int64]rating.DishRating{}}
	customers := &fakeCustomerRepo{customers: map[int64]customer.Customer{}}

	return MustNewRatingService(WithRepositories(ratings, customers)), ratings, customers
}

func TestAddRating(t *testing.T) {
	svc, ratings, customers := newService()

	dr, err := svc.AddRating(context.Background(), 12, 3, 5, "great")
	require.NoError(t, err)

	assert.Equal(t, 5, dr.Rating)
	assert.Len(t, ratings.ratings, 1)
	assert.Len(t, customers.customers, 1)
}

func TestAddRatingOutOfRange(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.AddRating(context.Background(), 12, 3, 6, "")
	assert.ErrorIs(t, err, rating.ErrInvalidRating)
}

func TestUpdateRatingEnforcesOwnership(t *testing.T) {
	svc, ratings, customers := newService()

	customers.customers[1] = customer.Customer{ID: 1, UserID: 12}
	customers.customers[2] = customer.Customer{ID: 2, UserID: 34}
	ratings.ratings[9] = rating.DishRating{ID: 9, CustomerID: 2, Rating: 3}

	_, err := svc.UpdateRating(context.Background(), 12, 9, 4, "better")
	assert.ErrorIs(t, err, ErrRatingNotFound)
}

func TestUpdateRating(t *testing.T) {
	svc, ratings, customers := newService()

	customers.customers[1] = customer.Customer{ID: 1, UserID: 12}
	ratings.ratings[9] = rating.DishRating{ID: 9, CustomerID: 1, Rating: 3}

	dr, err := svc.UpdateRating(context.Background(), 12, 9, 4, "better")
	require.NoError(t, err)
	assert.Equal(t, 4, dr.Rating)
	assert.Equal(t, "better", dr.Comment)
}
