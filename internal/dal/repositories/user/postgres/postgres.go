package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/amrelsaid4/Restaurant/internal/service/models/user"
	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

// UserDal represents user data access layer model.
type UserDal struct {
	Id           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	PasswordHash string    `db:"password_hash"`
	IsSuperuser  bool      `db:"is_superuser"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *UserDal) ToModel() *user.User {
	return &user.User{
		ID:           u.Id,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsSuperuser:  u.IsSuperuser,
		CreatedAt:    u.CreatedAt,
	}
}

type PostgresUserRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresUserRepository(conn sqlx.ExtContext) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
	}
}

var userColumns = []string{
	"id", "username", "email", "first_name", "last_name",
	"password_hash", "is_superuser", "created_at",
}

func (r *PostgresUserRepository) getBy(ctx context.Context, pred sq.Eq) (*user.User, error) {
	query, args, err := sq.Select(userColumns...).
		From("users").
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var dal UserDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return dal.ToModel(), nil
}

// GetByID retrieves a user by primary key.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getBy(ctx, sq.Eq{"id": id})
}

// GetByUsername retrieves a user by username.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getBy(ctx, sq.Eq{"username": username})
}

// GetByEmail retrieves a user by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, sq.Eq{"email": email})
}

// Insert creates a new user and returns it with its assigned id.
func (r *PostgresUserRepository) Insert(ctx context.Context, u user.User) (*user.User, error) {
	query, args, err := sq.Insert("users").
		Columns("username", "email", "first_name", "last_name", "password_hash", "is_superuser", "created_at").
		Values(u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsSuperuser, time.Now()).
		Suffix("RETURNING " + "id, username, email, first_name, last_name, password_hash, is_superuser, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user insert: %w", err)
	}

	var dal UserDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return dal.ToModel(), nil
}

// GetOrCreateByUsername inserts the user unless the username already exists,
// then returns the stored row either way.
func (r *PostgresUserRepository) GetOrCreateByUsername(ctx context.Context, u user.User) (*user.User, error) {
	query, args, err := sq.Insert("users").
		Columns("username", "email", "first_name", "last_name", "password_hash", "is_superuser", "created_at").
		Values(u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsSuperuser, time.Now()).
		Suffix("ON CONFLICT (username) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user upsert: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return r.GetByUsername(ctx, u.Username)
}

// IsAdminEmail reports whether the email is registered in admin profiles.
func (r *PostgresUserRepository) IsAdminEmail(ctx context.Context, email string) (bool, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("admin_profiles").
		Where(sq.Eq{"admin_email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build admin email query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.conn, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to query admin email: %w", err)
	}

	return count > 0, nil
}

// GetAdminProfileByEmail retrieves the admin profile for an email.
func (r *PostgresUserRepository) GetAdminProfileByEmail(ctx context.Context, email string) (*user.AdminProfile, error) {
	query, args, err := sq.Select("id", "user_id", "admin_email", "is_super_admin", "created_at").
		From("admin_profiles").
		Where(sq.Eq{"admin_email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build admin profile query: %w", err)
	}

	var profile struct {
		Id           int64     `db:"id"`
		UserId       int64     `db:"user_id"`
		AdminEmail   string    `db:"admin_email"`
		IsSuperAdmin bool      `db:"is_super_admin"`
		CreatedAt    time.Time `db:"created_at"`
	}
	if err := sqlx.GetContext(ctx, r.conn, &profile, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to query admin profile: %w", err)
	}

	return &user.AdminProfile{
		ID:           profile.Id,
		UserID:       profile.UserId,
		AdminEmail:   profile.AdminEmail,
		IsSuperAdmin: profile.IsSuperAdmin,
		CreatedAt:    profile.CreatedAt,
	}, nil
}
