package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/serenelabs/serenity/internal/model/mood"
	"github.com/serenelabs/serenity/internal/model/user"
	"github.com/serenelabs/serenity/internal/store"
)

const uniqueViolation = "23505"

// Store is the Postgres persistence backend.
type Store struct {
	db *sql.DB
}

// Open connects, verifies the connection, and bootstraps the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			display_name VARCHAR(50),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS mood_entries (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id),
			emoji TEXT NOT NULL,
			label TEXT NOT NULL,
			journal TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS mood_entries_user_recency
			ON mood_entries (user_id, created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts an account, mapping unique-email violations to ErrEmailTaken.
func (s *Store) Create(ctx context.Context, email, passwordHash, displayName string) (user.User, error) {
	var name sql.NullString
	if displayName != "" {
		name = sql.NullString{String: displayName, Valid: true}
	}

	u := user.User{Email: email, PasswordHash: passwordHash, DisplayName: displayName}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password, display_name) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		email, passwordHash, name,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return user.User{}, store.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// ByEmail fetches an account by email.
func (s *Store) ByEmail(ctx context.Context, email string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`,
		email,
	))
}

// ByID fetches an account by id.
func (s *Store) ByID(ctx context.Context, id string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`,
		id,
	))
}

func (s *Store) scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	var name sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, store.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.DisplayName = name.String
	return u, nil
}

// Insert stores one mood check-in.
func (s *Store) Insert(ctx context.Context, entry mood.Entry) (mood.Entry, error) {
	var journal sql.NullString
	if entry.Journal != "" {
		journal = sql.NullString{String: entry.Journal, Valid: true}
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO mood_entries (user_id, emoji, label, journal) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		entry.UserID, entry.Emoji, entry.Label, journal,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return mood.Entry{}, fmt.Errorf("insert mood entry: %w", err)
	}
	return entry, nil
}

// List returns up to limit check-ins for the user, newest first.
func (s *Store) List(ctx context.Context, userID string, limit int) ([]mood.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, emoji, label, journal, created_at FROM mood_entries
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
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
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Emoji, &entry.Label, &journal, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		entry.Journal = journal.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mood entries: %w", err)
	}
	return entries, nil
}
