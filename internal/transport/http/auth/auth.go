package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/amrelsaid4/Restaurant/internal/service/models/user"
	"github.com/amrelsaid4/Restaurant/internal/service/services/authsvc"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/httpx"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/middleware/sessionkey"
)

// service is an interface for the service layer.
type service interface {
	Login(ctx context.Context, identity, password string) (*authsvc.LoginResult, error)
	AdminLogin(ctx context.Context, email, password string) (*authsvc.LoginResult, error)
	Logout(ctx context.Context, sessionKey string) error
	Register(ctx context.Context, params authsvc.RegisterParams) (*user.User, error)
}

type userPayload struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
	IsCustomer   bool   `json:"is_customer,omitempty"`
	IsSuperAdmin bool   `json:"is_super_admin,omitempty"`
}

// Login handles customer login by username or email.
func Login(w http.ResponseWriter, r *http.Request, service service) {
	var req struct {
		Identity string `json:"identity"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON data")

		return
	}
	if req.Identity == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Identity and password are required")

		return
	}

	result, err := service.Login(r.Context(), req.Identity, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrAdminLoginRequired):
			httpx.WriteError(w, http.StatusForbidden, "Admin users should use admin login")
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			slog.Error("Login error", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Login failed")
		}

		return
	}

	w.Header().Set(sessionkey.HeaderName, result.SessionKey)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user": userPayload{
			ID:         result.User.ID,
			Username:   result.User.Username,
			Email:      result.User.Email,
			IsAdmin:    result.IsAdmin,
			IsCustomer: result.IsCustomer,
		},
		"session_key": result.SessionKey,
	})
}

// AdminLogin handles login for admin users by email.
func AdminLogin(w http.ResponseWriter, r *http.Request, service service) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON data")

		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email and password required")

		return
	}

	result, err := service.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrNotAdminEmail):
			httpx.WriteError(w, http.StatusForbidden, "Unauthorized: Not an admin email")
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			slog.Error("Admin login error", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Login failed")
		}

		return
	}

	w.Header().Set(sessionkey.HeaderName, result.SessionKey)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user": userPayload{
			ID:           result.User.ID,
			Username:     result.User.Username,
			Email:        result.User.Email,
			IsAdmin:      true,
			IsSuperAdmin: result.IsSuperAdmin,
		},
		"session_key": result.SessionKey,
	})
}

// Logout deletes the caller's session.
func Logout(w http.ResponseWriter, r *http.Request, service service) {
	p := sessionkey.FromContext(r.Context())

	key := p.SessionKey
	if key == "" {
		key = r.Header.Get(sessionkey.HeaderName)
	}

	if err := service.Logout(r.Context(), key); err != nil {
		slog.Error("Logout error", "error", err)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Register creates a new user with a linked customer profile.
func Register(w http.ResponseWriter, r *http.Request, service service) {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON data")

		return
	}

	_, err := service.Register(r.Context(), authsvc.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrUsernameTaken):
			httpx.WriteError(w, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, authsvc.ErrEmailTaken):
			httpx.WriteError(w, http.StatusBadRequest, "Email already exists")
		default:
			slog.Error("Registration error", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Registration failed")
		}

		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// Me reports the caller's resolved identity and role flags.
func Me(w http.ResponseWriter, r *http.Request) {
	p := sessionkey.FromContext(r.Context())

	if !p.IsAuthenticated() {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"user_id":          nil,
			"username":         nil,
			"email":            nil,
			"is_admin":         false,
			"is_customer":      false,
			"is_authenticated": false,
		})

		return
	}

	payload := map[string]any{
		"user_id":          p.UserID,
		"username":         p.Username,
		"email":            p.Email,
		"is_admin":         p.IsAdmin,
		"is_customer":      p.IsCustomer,
		"is_authenticated": true,
	}
	if p.IsAdmin {
		payload["is_super_admin"] = p.IsSuperAdmin
	}

	httpx.WriteJSON(w, http.StatusOK, payload)
}
