package rating

import (
	"errors"
	"time"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// DishRating is a customer's star rating for a dish. Multiple ratings
// from the same customer for the same dish are allowed.
type DishRating struct {
	ID         int64     `json:"id"`
	DishID     int64     `json:"dishId"`
	CustomerID int64     `json:"customerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate checks the star value bounds.
func (r DishRating) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}

	return nil
}
