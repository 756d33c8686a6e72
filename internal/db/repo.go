package db

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"health-chatbot/pkg"
)

// Repository wraps database operations for chat history.
type Repository struct {
	DB     *sql.DB
	driver string
}

// NewRepository constructs a new Repository from an existing sql.DB opened
// with the named driver. The caller is responsible for managing the DB
// connection lifecycle.
func NewRepository(db *sql.DB, driver string) *Repository {
	return &Repository{DB: db, driver: driver}
}

// SaveExchange stores one user message and the reply it received.  A missing
// ID or timestamp is filled in and written back to msg.
func (r *Repository) SaveExchange(ctx context.Context, msg *pkg.ChatMessage) error {
	if msg.UserID == "" {
		return ErrNoUser
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, r.bind(
		`INSERT INTO chat_messages (id, user_id, message, response, intent, score, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`),
		msg.ID, msg.UserID, msg.Message, msg.Response, msg.Intent, msg.Score, msg.CreatedAt.UTC(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to save exchange")
	}
	return nil
}

// ListHistory returns the user's latest limit exchanges ordered oldest first.
func (r *Repository) ListHistory(ctx context.Context, userID string, limit int) ([]pkg.ChatMessage, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	rows, err := r.DB.QueryContext(ctx, r.bind(
		`SELECT id, user_id, message, response, intent, score, created_at
         FROM chat_messages
         WHERE user_id = $1
         ORDER BY created_at DESC, id DESC
         LIMIT $2`),
		userID, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list history")
	}
	defer rows.Close()

	history := []pkg.ChatMessage{}
	for rows.Next() {
		var m pkg.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Message, &m.Response, &m.Intent, &m.Score, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to list history")
		}
		m.CreatedAt = m.CreatedAt.UTC()
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list history")
	}
	slices.Reverse(history)
	return history, nil
}

// bind rewrites postgres-style $N placeholders to SQLite's ?N.
func (r *Repository) bind(query string) string {
	if r.driver != DriverSQLite {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}
