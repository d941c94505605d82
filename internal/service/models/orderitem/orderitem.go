package orderitem

import (
	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
)

// OrderItem is a dish snapshot within an order. Price is copied from the
// dish at creation time, not a live reference to the current menu price.
type OrderItem struct {
	ID                  int64          `json:"id"`
	OrderID             int64          `json:"orderId"`
	DishID              int64          `json:"dishId"`
	DishName            string         `json:"dishName"`
	Quantity            int            `json:"quantity"`
	Price               money.Money    `json:"price"`
	PriceCurrency       money.Currency `json:"priceCurrency"`
	SpecialInstructions string         `json:"specialInstructions"`
}

// TotalPrice is the line total: snapshot price times quantity.
func (i OrderItem) TotalPrice() money.Money {
	return i.Price.Mul(i.Quantity)
}
