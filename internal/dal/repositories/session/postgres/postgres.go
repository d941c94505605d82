package postgresrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/amrelsaid4/Restaurant/internal/service/models/session"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionDal represents session data access layer model.
type SessionDal struct {
	Key       string    `db:"key"`
	UserId    int64     `db:"user_id"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (s *SessionDal) ToModel() (*session.Session, error) {
	data := map[string]string{}
	if len(s.Data) > 0 {
		if err := json.Unmarshal(s.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode session data: %w", err)
		}
	}

	return &session.Session{
		Key:       s.Key,
		UserID:    s.UserId,
		Data:      data,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}, nil
}

type PostgresSessionRepository struct {
	conn sqlx.ExtContext
	ttl  time.Duration
}

func NewPostgresSessionRepository(conn sqlx.ExtContext, ttl time.Duration) *PostgresSessionRepository {
	if ttl == 0 {
		ttl = 14 * 24 * time.Hour
	}

	return &PostgresSessionRepository{
		conn: conn,
		ttl:  ttl,
	}
}

// Create stores a new session for the user and returns it with a fresh key.
func (r *PostgresSessionRepository) Create(ctx context.Context, userID int64, data map[string]string) (*session.Session, error) {
	if data == nil {
		data = map[string]string{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session data: %w", err)
	}

	now := time.Now()
	sess := session.Session{
		Key:       uuid.NewString(),
		UserID:    userID,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	query, args, err := sq.Insert("sessions").
		Columns("key", "user_id", "data", "created_at", "expires_at").
		Values(sess.Key, sess.UserID, payload, sess.CreatedAt, sess.ExpiresAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session insert: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	return &sess, nil
}

// Get retrieves a session by key. Expired sessions are reported as missing.
func (r *PostgresSessionRepository) Get(ctx context.Context, key string) (*session.Session, error) {
	query, args, err := sq.Select("key", "user_id", "data", "created_at", "expires_at").
		From("sessions").
		Where(sq.Eq{"key": key}).
		Where(sq.Gt{"expires_at": time.Now()}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session query: %w", err)
	}

	var dal SessionDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return dal.ToModel()
}

// Delete removes a session, e.g. on logout.
func (r *PostgresSessionRepository) Delete(ctx context.Context, key string) error {
	query, args, err := sq.Delete("sessions").
		Where(sq.Eq{"key": key}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session delete: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
