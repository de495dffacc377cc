// Package sqlite implements store.Store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fitdeck/fitdeck/internal/server/store"
)

// Store keeps documents in a single SQLite file.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    PRAGMA foreign_keys = ON;

    CREATE TABLE IF NOT EXISTS documents (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id TEXT NOT NULL,
        collection TEXT NOT NULL,
        id TEXT NOT NULL,
        body TEXT NOT NULL,
        updated_at INTEGER NOT NULL,
        UNIQUE (user_id, collection, id)
    );

    CREATE TABLE IF NOT EXISTS photos (
        user_id TEXT NOT NULL,
        id TEXT NOT NULL,
        data BLOB NOT NULL,
        PRIMARY KEY (user_id, id)
    );

    CREATE INDEX IF NOT EXISTS idx_documents_user_collection ON documents(user_id, collection);
    `
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const upsertDocument = `
    INSERT INTO documents (user_id, collection, id, body, updated_at)
    VALUES (?, ?, ?, ?, ?)
    ON CONFLICT (user_id, collection, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
`

// Put creates or replaces a document.
func (s *Store) Put(ctx context.Context, user, collection, id string, body []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertDocument, user, collection, id, string(body), time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get returns a single document.
func (s *Store) Get(ctx context.Context, user, collection, id string) ([]byte, error) {
	return getDocument(ctx, s.db, user, collection, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getDocument(ctx context.Context, q queryer, user, collection, id string) ([]byte, error) {
	var body string
	err := q.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE user_id = ? AND collection = ? AND id = ?`,
		user, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return []byte(body), nil
}

// List returns the documents of a collection in creation order.
func (s *Store) List(ctx context.Context, user, collection string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM documents WHERE user_id = ? AND collection = ? ORDER BY seq`,
		user, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	out := [][]byte{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", collection, err)
		}
		out = append(out, []byte(body))
	}
	return out, rows.Err()
}

// Update applies fn to the current document inside a transaction.
func (s *Store) Update(ctx context.Context, user, collection, id string, fn store.UpdateFunc) ([]byte, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getDocument(ctx, tx, user, collection, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if current == nil {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO documents (user_id, collection, id, body, updated_at) VALUES (?, ?, ?, ?, ?)
             ON CONFLICT (user_id, collection, id) DO NOTHING`,
			user, collection, id, string(next), time.Now().UnixNano())
		if err != nil {
			return nil, fmt.Errorf("failed to insert %s/%s: %w", collection, id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, store.ErrConflict
		}
	} else if _, err := tx.ExecContext(ctx, upsertDocument, user, collection, id, string(next), time.Now().UnixNano()); err != nil {
		return nil, fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return next, nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, user, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE user_id = ? AND collection = ? AND id = ?`,
		user, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteUser removes every document and photo owned by user.
func (s *Store) DeleteUser(ctx context.Context, user string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE user_id = ?`, user); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE user_id = ?`, user); err != nil {
		return fmt.Errorf("failed to delete photos: %w", err)
	}
	return tx.Commit()
}

// PutPhoto stores a photo blob.
func (s *Store) PutPhoto(ctx context.Context, user, id string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO photos (user_id, id, data) VALUES (?, ?, ?)
         ON CONFLICT (user_id, id) DO UPDATE SET data = excluded.data`,
		user, id, data)
	if err != nil {
		return fmt.Errorf("failed to put photo %s: %w", id, err)
	}
	return nil
}

// GetPhoto returns a photo blob.
func (s *Store) GetPhoto(ctx context.Context, user, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM photos WHERE user_id = ? AND id = ?`, user, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo %s: %w", id, err)
	}
	return data, nil
}

// DeletePhoto removes a photo blob. Deleting a missing photo is not an error.
func (s *Store) DeletePhoto(ctx context.Context, user, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE user_id = ? AND id = ?`, user, id); err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", id, err)
	}
	return nil
}
