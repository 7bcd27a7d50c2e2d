// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/models"
)

// SQLiteStore implements Store on a SQLite file.
// Timestamps are stored as Unix nanoseconds.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// OpenSQLiteStore opens (or creates) the database at path and creates the
// schema idempotently.
func OpenSQLiteStore(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: path is required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}
	// One connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := configurePragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("SQLite store opened")
	return &SQLiteStore{db: db, logger: logger}, nil
}

func configurePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("execute %s: %w", p, err)
		}
	}
	return nil
}

func createTables(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id       TEXT PRIMARY KEY,
			title    TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id    TEXT NOT NULL,
			item_id    TEXT NOT NULL,
			rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			UNIQUE (user_id, item_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_item ON ratings (item_id, user_id)`,
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	for _, ddl := range tables {
		if _, err := tx.Exec(ddl); err != nil {
			tx.Rollback()
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return tx.Commit()
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func (s *SQLiteStore) SyncItems(ctx context.Context, items []models.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items (id, title, language) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()
	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, it.ID, it.Title, it.Language); err != nil {
			return fmt.Errorf("insert item %s: %w", it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sync: %w", err)
	}
	s.logger.Debug().Int("items", len(items)).Msg("Catalog synced")
	return nil
}

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (models.Item, error) {
	var it models.Item
	err := s.db.QueryRowContext(ctx, `SELECT id, title, language FROM items WHERE id = ?`, id).
		Scan(&it.ID, &it.Title, &it.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, models.NewNotFoundError("item", id)
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (s *SQLiteStore) ListItems(ctx context.Context, language string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, language FROM items WHERE ? = '' OR language = ? ORDER BY id`,
		language, language)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := make([]models.Item, 0)
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Language); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	// SQLite orders TEXT with BINARY collation, the same as Go string order.
	return out, nil
}

func (s *SQLiteStore) PutUser(ctx context.Context, u models.User) (models.User, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, false, fmt.Errorf("begin put user: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var createdAt int64
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM users WHERE id = ?`, u.ID).Scan(&createdAt)
	created := errors.Is(err, sql.ErrNoRows)
	if err != nil && !created {
		return models.User{}, false, fmt.Errorf("get user: %w", err)
	}
	if !created {
		u.CreatedAt = fromNanos(createdAt)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		u.ID, u.Name, toNanos(u.CreatedAt))
	if err != nil {
		return models.User{}, false, fmt.Errorf("upsert user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, false, fmt.Errorf("commit user: %w", err)
	}
	return u, created, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (models.User, error) {
	var (
		u         models.User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.NewNotFoundError("user", id)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = fromNanos(createdAt)
	return u, nil
}

func (s *SQLiteStore) UpsertRating(ctx context.Context, ev models.RatingEvent) (models.RatingEvent, error) {
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ratings (user_id, item_id, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			rating = excluded.rating,
			updated_at = excluded.updated_at
		RETURNING created_at`,
		ev.UserID, ev.ItemID, ev.Rating, toNanos(ev.CreatedAt), toNanos(ev.UpdatedAt)).Scan(&createdAt)
	if err != nil {
		return models.RatingEvent{}, fmt.Errorf("upsert rating: %w", err)
	}
	ev.CreatedAt = fromNanos(createdAt)
	return ev, nil
}

const ratingColumns = `user_id, item_id, rating, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRating(row rowScanner) (models.RatingEvent, error) {
	var (
		ev                   models.RatingEvent
		createdAt, updatedAt int64
	)
	if err := row.Scan(&ev.UserID, &ev.ItemID, &ev.Rating, &createdAt, &updatedAt); err != nil {
		return models.RatingEvent{}, err
	}
	ev.CreatedAt = fromNanos(createdAt)
	ev.UpdatedAt = fromNanos(updatedAt)
	return ev, nil
}

func (s *SQLiteStore) GetRating(ctx context.Context, userID, itemID string) (models.RatingEvent, error) {
	ev, err := scanRating(s.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? AND item_id = ?`, userID, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.RatingEvent{}, models.NewNotFoundError("rating", userID+"/"+itemID)
	}
	if err != nil {
		return models.RatingEvent{}, fmt.Errorf("get rating: %w", err)
	}
	return ev, nil
}

func (s *SQLiteStore) DeleteRating(ctx context.Context, userID, itemID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ratings WHERE user_id = ? AND item_id = ?`, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if n == 0 {
		return models.NewNotFoundError("rating", userID+"/"+itemID)
	}
	return nil
}

func (s *SQLiteStore) RatingsForUser(ctx context.Context, userID string) ([]models.RatingEvent, error) {
	return s.queryRatings(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? ORDER BY item_id`, userID)
}

func (s *SQLiteStore) RatingsForItem(ctx context.Context, itemID string) ([]models.RatingEvent, error) {
	return s.queryRatings(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE item_id = ? ORDER BY user_id`, itemID)
}

func (s *SQLiteStore) AllRatings(ctx context.Context) ([]models.RatingEvent, error) {
	return s.queryRatings(ctx, `SELECT `+ratingColumns+` FROM ratings ORDER BY user_id, item_id`)
}

func (s *SQLiteStore) queryRatings(ctx context.Context, query string, args ...interface{}) ([]models.RatingEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	out := make([]models.RatingEvent, 0)
	for rows.Next() {
		ev, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
