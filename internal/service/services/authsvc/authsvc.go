package authsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amrelsaid4/Restaurant/internal/dal/postgres"
	customerrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/customer/postgres"
	sessionrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/session/postgres"
	userrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/user/postgres"
	"github.com/amrelsaid4/Restaurant/internal/service/models/customer"
	"github.com/amrelsaid4/Restaurant/internal/service/models/principal"
	"github.com/amrelsaid4/Restaurant/internal/service/models/session"
	"github.com/amrelsaid4/Restaurant/internal/service/models/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminLoginRequired = errors.New("admin users should use admin login")
	ErrNotAdminEmail      = errors.New("not an admin email")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
)

type userRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Insert(ctx context.Context, u user.User) (*user.User, error)
	GetOrCreateByUsername(ctx context.Context, u user.User) (*user.User, error)
	IsAdminEmail(ctx context.Context, email string) (bool, error)
	GetAdminProfileByEmail(ctx context.Context, email string) (*user.AdminProfile, error)
}

type sessionRepository interface {
	Create(ctx context.Context, userID int64, data map[string]string) (*session.Session, error)
	Get(ctx context.Context, key string) (*session.Session, error)
	Delete(ctx context.Context, key string) error
}

type customerRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*customer.Customer, error)
	GetOrCreate(ctx context.Context, c customer.Customer) (*customer.Customer, error)
}

// AuthService is the capability-resolution service: it owns login, logout,
// registration and per-request principal resolution.
type AuthService struct {
	users     userRepository
	sessions  sessionRepository
	customers customerRepository
}

// option is a function that configures the AuthService.
type option func(*AuthService)

// MustNewAuthService creates a new AuthService.
func MustNewAuthService(opts ...option) *AuthService {
	s := &AuthService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.users == nil || s.sessions == nil || s.customers == nil {
		panic("authsvc: missing repository configuration")
	}

	return s
}

// WithPostgresClient wires the default Postgres-backed repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *AuthService) {
		s.users = userrepo.NewPostgresUserRepository(pgClient.DB())
		s.sessions = sessionrepo.NewPostgresSessionRepository(pgClient.DB(), 0)
		s.customers = customerrepo.NewPostgresCustomerRepository(pgClient.DB())
	}
}

// WithRepositories injects repositories directly, used in tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(users userRepository, sessions sessionRepository, customers customerRepository) option {
	return func(s *AuthService) {
		s.users = users
		s.sessions = sessions
		s.customers = customers
	}
}

// Credentials are the authentication hints carried by a request.
type Credentials struct {
	// SessionKey is the explicit X-Session-Key header value.
	SessionKey string
	// CookieSessionID is the sessionid cookie value.
	CookieSessionID string
}

// Resolve turns request credentials into a principal. Every lookup failure
// degrades to the next strategy and finally to Anonymous; resolution never
// returns an error to the caller.
func (s *AuthService) Resolve(ctx context.Context, creds Credentials) principal.Principal {
	if p, ok := s.resolveKey(ctx, creds.SessionKey); ok {
		return p
	}
	if p, ok := s.resolveKey(ctx, creds.CookieSessionID); ok {
		return p
	}

	return principal.Anonymous()
}

func (s *AuthService) resolveKey(ctx context.Context, key string) (principal.Principal, bool) {
	if key == "" {
		return principal.Anonymous(), false
	}

	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		slog.Debug("session lookup failed", "error", err)

		return principal.Anonymous(), false
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		slog.Warn("session references unknown user", "user_id", sess.UserID, "error", err)

		return principal.Anonymous(), false
	}

	p := s.buildPrincipal(ctx, u)
	p.SessionKey = sess.Key

	return p, true
}

func (s *AuthService) buildPrincipal(ctx context.Context, u *user.User) principal.Principal {
	p := principal.Authenticated(u.ID, u.Username, u.Email)

	isAdmin, err := s.users.IsAdminEmail(ctx, u.Email)
	if err != nil {
		slog.Warn("admin email check failed", "error", err)
	}
	p.IsAdmin = isAdmin || u.IsSuperuser
	if isAdmin {
		if profile, err := s.users.GetAdminProfileByEmail(ctx, u.Email); err == nil {
			p.IsSuperAdmin = profile.IsSuperAdmin
		}
	}

	if _, err := s.customers.GetByUserID(ctx, u.ID); err == nil {
		p.IsCustomer = true
	}

	return p
}

// LoginResult is returned from the login endpoints.
type LoginResult struct {
	User         user.User
	SessionKey   string
	IsAdmin      bool
	IsSuperAdmin bool
	IsCustomer   bool
}

// Login authenticates a customer by username or email plus password and
// creates a session. Admin accounts are redirected to the admin login.
func (s *AuthService) Login(ctx context.Context, identity, password string) (*LoginResult, error) {
	if identity == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var u *user.User
	var err error
	if strings.Contains(identity, "@") {
		u, err = s.users.GetByEmail(ctx, identity)
	} else {
		u, err = s.users.GetByUsername(ctx, identity)
	}
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	isAdmin, _ := s.users.IsAdminEmail(ctx, u.Email)
	if u.IsSuperuser || isAdmin {
		return nil, ErrAdminLoginRequired
	}

	sess, err := s.sessions.Create(ctx, u.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	isCustomer := false
	if _, err := s.customers.GetByUserID(ctx, u.ID); err == nil {
		isCustomer = true
	}

	return &LoginResult{
		User:       *u,
		SessionKey: sess.Key,
		IsCustomer: isCustomer,
	}, nil
}

// AdminLogin authenticates an admin by email and password. The email must
// be registered in the admin profiles allow-list.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	isAdmin, err := s.users.IsAdminEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin email: %w", err)
	}
	if !isAdmin {
		return nil, ErrNotAdminEmail
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.users.GetAdminProfileByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin profile: %w", err)
	}

	sess, err := s.sessions.Create(ctx, u.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &LoginResult{
		User:         *u,
		SessionKey:   sess.Key,
		IsAdmin:      true,
		IsSuperAdmin: profile.IsSuperAdmin,
	}, nil
}

// Logout deletes the session behind the given key. Unknown keys are fine.
func (s *AuthService) Logout(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return nil
	}

	return s.sessions.Delete(ctx, sessionKey)
}

// RegisterParams are the fields accepted at registration.
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// Register creates a user account with a linked customer profile.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*user.User, error) {
	if _, err := s.users.GetByUsername(ctx, params.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.users.GetByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.users.Insert(ctx, user.User{
		Username:     params.Username,
		Email:        params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	if _, err := s.customers.GetOrCreate(ctx, customer.Customer{
		UserID:  u.ID,
		Phone:   params.Phone,
		Address: params.Address,
	}); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return u, nil
}

// EnsureGuest synthesizes a throwaway user so checkout can proceed even
// when identity resolution failed entirely.
func (s *AuthService) EnsureGuest(ctx context.Context) (*user.User, error) {
	timestamp := time.Now().Unix()
	username := fmt.Sprintf("guest_%d", timestamp)

	return s.users.GetOrCreateByUsername(ctx, user.User{
		Username:  username,
		Email:     fmt.Sprintf("guest_%d@restaurant.com", timestamp),
		FirstName: "Guest",
		LastName:  "User",
	})
}
