package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Madmax-op/FoodShare/models"
	"github.com/Madmax-op/FoodShare/session"
)

const sessionsSchema = `
	CREATE TABLE IF NOT EXISTS web_sessions (
		id           UUID PRIMARY KEY,
		token        TEXT NOT NULL DEFAULT '',
		user_id      BIGINT,
		role         TEXT NOT NULL DEFAULT '',
		user_profile JSONB,
		created_at   TIMESTAMPTZ NOT NULL,
		expires_at   TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS web_sessions_expires_at_idx ON web_sessions (expires_at);
`

// SessionRepository handles database operations for the web_sessions table.
// It implements session.Store.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository returns a session Store over a Postgres database.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

const (
	dbPingTimeout     = 5 * time.Second
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 25
	dbConnMaxLifetime = 5 * time.Minute
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the sessions table if it does not exist.
func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sessionsSchema); err != nil {
		return fmt.Errorf("failed to create sessions schema: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, session.ErrNotFound
	}

	query := `
		SELECT id, token, user_id, role, user_profile, created_at, expires_at
		FROM web_sessions
		WHERE id = $1 AND expires_at > $2
	`
	var (
		s       models.Session
		userID  sql.NullInt64
		rawUser []byte
	)
	err := r.db.QueryRowContext(ctx, query, id, r.now()).Scan(
		&s.ID, &s.Token, &userID, &s.Role, &rawUser, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	if userID.Valid {
		v := userID.Int64
		s.UserID = &v
	}
	if len(rawUser) > 0 {
		var u models.CurrentUser
		if err := json.Unmarshal(rawUser, &u); err != nil {
			return nil, fmt.Errorf("failed to decode cached user for session %s: %w", id, err)
		}
		s.CurrentUser = &u
	}
	return &s, nil
}

// Save inserts or replaces a session.
func (r *SessionRepository) Save(ctx context.Context, s *models.Session) error {
	if _, err := uuid.Parse(s.ID); err != nil {
		return fmt.Errorf("invalid session ID format: %w", err)
	}

	var rawUser []byte
	if s.CurrentUser != nil {
		var err error
		if rawUser, err = json.Marshal(s.CurrentUser); err != nil {
			return fmt.Errorf("failed to encode cached user: %w", err)
		}
	}
	var userID sql.NullInt64
	if s.UserID != nil {
		userID = sql.NullInt64{Int64: *s.UserID, Valid: true}
	}

	query := `
		INSERT INTO web_sessions (id, token, user_id, role, user_profile, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET token = EXCLUDED.token, user_id = EXCLUDED.user_id, role = EXCLUDED.role,
		    user_profile = EXCLUDED.user_profile, expires_at = EXCLUDED.expires_at
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Token, userID, s.Role, rawUser, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session ID format: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (r *SessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for session purge: %w", err)
	}
	return int(n), nil
}

var _ session.Store = (*SessionRepository)(nil)
