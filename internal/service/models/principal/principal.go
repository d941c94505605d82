package principal

// Principal is the resolved caller identity for a request.
// The zero value is the anonymous principal.
type Principal struct {
	UserID       int64
	Username     string
	Email        string
	IsAdmin      bool
	IsSuperAdmin bool
	IsCustomer   bool
	SessionKey   string

	authenticated bool
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// Authenticated builds a principal for a resolved user.
func Authenticated(userID int64, username, email string) Principal {
	return Principal{
		UserID:        userID,
		Username:      username,
		Email:         email,
		authenticated: true,
	}
}

// IsAuthenticated reports whether the principal is a real user.
func (p Principal) IsAuthenticated() bool {
	return p.authenticated
}
