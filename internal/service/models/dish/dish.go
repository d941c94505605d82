package dish

import (
	"time"

	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
)

// Dish is a single menu entry. Prices are stored in cents.
type Dish struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           money.Money    `json:"price"`
	PriceCurrency   money.Currency `json:"priceCurrency"`
	CategoryID      int64          `json:"categoryId"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	IsAvailable     bool           `json:"isAvailable"`
	PreparationTime int            `json:"preparationTime"`
	Ingredients     string         `json:"ingredients,omitempty"`
	Calories        *int           `json:"calories,omitempty"`
	IsSpicy         bool           `json:"isSpicy"`
	IsVegetarian    bool           `json:"isVegetarian"`
	AverageRating   float64        `json:"averageRating"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// QueryDishesModel represents filter parameters for querying dishes.
type QueryDishesModel struct {
	CategoryID    *int64
	IsVegetarian  *bool
	IsSpicy       *bool
	AvailableOnly bool
	Limit         int
}
