package customer

import "time"

// Customer is the ordering profile linked one-to-one with a user account.
type Customer struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
