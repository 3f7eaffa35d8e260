// Package store keeps the privacy-conscious visitor log and the contact
// message log in SQLite.
package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a sql.DB with the portfolio's queries.
type Store struct {
	*sql.DB
	path string
	salt string
}

// Open creates or opens a SQLite database at path. IPs are hashed with
// salt; an empty salt is replaced by a random one, so hashes only match
// within one process lifetime.
func Open(path, salt string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return newStore(sqlDB, path, salt)
}

// OpenMemory creates an in-memory database (useful for testing).
func OpenMemory() (*Store, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// every connection would get its own empty database
	sqlDB.SetMaxOpenConns(1)
	return newStore(sqlDB, ":memory:", "test-salt")
}

func newStore(sqlDB *sql.DB, path, salt string) (*Store, error) {
	if salt == "" {
		salt = randomHex(16)
	}
	s := &Store{DB: sqlDB, path: path, salt: salt}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

func (s *Store) migrate() error {
	_, err := s.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    hashed_ip TEXT NOT NULL,
    user_agent TEXT NOT NULL DEFAULT '',
    path TEXT NOT NULL,
    timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);
CREATE INDEX IF NOT EXISTS idx_visitors_hashed_ip ON visitors(hashed_ip);

CREATE TABLE IF NOT EXISTS contact_messages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    body TEXT NOT NULL,
    relay TEXT NOT NULL DEFAULT '',
    delivered INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contact_messages_created ON contact_messages(created_at);
`

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("store: reading random bytes: %v", err))
	}
	return hex.EncodeToString(b)
}

// NewToken returns a random 64-character hex token.
func NewToken() string { return randomHex(32) }

// HashIP hashes an address with the store's salt. The result is stable for
// the lifetime of the store and cannot be reversed to the address.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Visitor is one tracked page view.
type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordVisit stores a page view. The raw ip is never written.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string, at time.Time) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, s.HashIP(ip), userAgent, path, at.UTC())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// Visitors returns the most recent page views.
func (s *Store) Visitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying visitors: %w", err)
	}
	defer rows.Close()

	var out []Visitor
	for rows.Next() {
		var v Visitor
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ForgetVisitor deletes every page view recorded for ip.
func (s *Store) ForgetVisitor(ctx context.Context, ip string) (int64, error) {
	res, err := s.ExecContext(ctx, `DELETE FROM visitors WHERE hashed_ip = ?`, s.HashIP(ip))
	if err != nil {
		return 0, fmt.Errorf("forgetting visitor: %w", err)
	}
	return res.RowsAffected()
}

// Message is a logged contact-form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	Relay     string    `json:"relay"`
	Delivered bool      `json:"delivered"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveMessage logs a submission and returns its id.
func (s *Store) SaveMessage(ctx context.Context, m Message) (string, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := s.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, body, relay, delivered, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Email, m.Body, m.Relay, m.Delivered, m.Error, m.CreatedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("saving message: %w", err)
	}
	return m.ID, nil
}

// Messages returns the most recent submissions.
func (s *Store) Messages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, name, email, body, relay, delivered, error, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.Relay, &m.Delivered, &m.Error, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMessage removes a submission by id.
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	return nil
}

// RetentionCutoff returns the instant before which records are dropped.
func RetentionCutoff(now time.Time, months int) time.Time {
	return now.AddDate(0, -months, 0)
}

// Cleanup deletes visitors and messages older than before.
func (s *Store) Cleanup(ctx context.Context, before time.Time) (visitors, messages int64, err error) {
	res, err := s.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, before.UTC())
	if err != nil {
		return 0, 0, fmt.Errorf("cleaning visitors: %w", err)
	}
	visitors, _ = res.RowsAffected()

	res, err = s.ExecContext(ctx, `DELETE FROM contact_messages WHERE created_at < ?`, before.UTC())
	if err != nil {
		return visitors, 0, fmt.Errorf("cleaning messages: %w", err)
	}
	messages, _ = res.RowsAffected()
	return visitors, messages, nil
}
