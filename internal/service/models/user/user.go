package user

import "time"

// User represents an account that can log in or place orders.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	IsSuperuser  bool      `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminProfile marks an account email as belonging to an admin.
type AdminProfile struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	AdminEmail   string    `json:"adminEmail"`
	IsSuperAdmin bool      `json:"isSuperAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}
