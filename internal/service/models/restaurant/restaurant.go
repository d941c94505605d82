package restaurant

// Restaurant holds the public profile served on the info endpoints.
type Restaurant struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	OpeningTime string `json:"openingTime"`
	ClosingTime string `json:"closingTime"`
	IsActive    bool   `json:"isActive"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl,omitempty"`
}
