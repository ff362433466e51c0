package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/serenelabs/serenity/internal/model/mood"
	"github.com/serenelabs/serenity/internal/model/user"
	"github.com/serenelabs/serenity/internal/store"
)

// Store is the local single-file persistence backend, used when no
// DATABASE_URL is configured. Timestamps are stored as RFC3339Nano text.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file and runs migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			display_name TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mood_entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			emoji TEXT NOT NULL,
			label TEXT NOT NULL,
			journal TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS mood_entries_user_recency
			ON mood_entries (user_id, created_at DESC)`,
	}

	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts an account, mapping the unique-email constraint to
// ErrEmailTaken.
func (s *Store) Create(ctx context.Context, email, passwordHash, displayName string) (user.User, error) {
	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		CreatedAt:    time.Now().UTC(),
	}

	var name any
	if displayName != "" {
		name = displayName
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password, display_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, name, u.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return user.User{}, store.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// ByEmail fetches an account by email.
func (s *Store) ByEmail(ctx context.Context, email string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE email = ?`,
		email,
	))
}

// ByID fetches an account by id.
func (s *Store) ByID(ctx context.Context, id string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE id = ?`,
		id,
	))
}

func (s *Store) scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	var name sql.NullString
	var createdAt string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, store.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.DisplayName = name.String
	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return user.User{}, fmt.Errorf("parse user created_at: %w", err)
	}
	return u, nil
}

// Insert stores one mood check-in.
func (s *Store) Insert(ctx context.Context, entry mood.Entry) (mood.Entry, error) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()

	var journal any
	if entry.Journal != "" {
		journal = entry.Journal
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mood_entries (id, user_id, emoji, label, journal, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Emoji, entry.Label, journal, entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return mood.Entry{}, fmt.Errorf("insert mood entry: %w", err)
	}
	return entry, nil
}

// List returns up to limit check-ins for the user, newest first.
func (s *Store) List(ctx context.Context, userID string, limit int) ([]mood.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, emoji, label, journal, created_at FROM mood_entries
		 WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list mood entries: %w", err)
	}
	defer rows.Close()

	entries := make([]mood.Entry, 0, limit)
	for rows.Next() {
		var entry mood.Entry
		var journal sql.NullString
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Emoji, &entry.Label, &journal, &createdAt); err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		entry.Journal = journal.String
		entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse mood created_at: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mood entries: %w", err)
	}
	return entries, nil
}
