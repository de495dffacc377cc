// Package postgres implements store.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitdeck/fitdeck/internal/server/store"
)

// Store provides Postgres-backed persistence for documents and photos.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// New constructs a Store on an existing pool. Call Migrate before use.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    seq BIGSERIAL PRIMARY KEY,
    user_id TEXT NOT NULL,
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    body JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, collection, id)
);

CREATE TABLE IF NOT EXISTS photos (
    user_id TEXT NOT NULL,
    id TEXT NOT NULL,
    data BYTEA NOT NULL,
    PRIMARY KEY (user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_user_collection ON documents(user_id, collection);
`

// Migrate creates the tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const upsertDocument = `INSERT INTO documents (user_id, collection, id, body)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (user_id, collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`

// Put creates or replaces a document.
func (s *Store) Put(ctx context.Context, user, collection, id string, body []byte) error {
	if _, err := s.pool.Exec(ctx, upsertDocument, user, collection, id, body); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get returns a single document.
func (s *Store) Get(ctx context.Context, user, collection, id string) ([]byte, error) {
	return getDocument(ctx, s.pool, user, collection, id, "")
}

type rowQueryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getDocument(ctx context.Context, q rowQueryer, user, collection, id, suffix string) ([]byte, error) {
	var body []byte
	err := q.QueryRow(ctx,
		`SELECT body FROM documents WHERE user_id=$1 AND collection=$2 AND id=$3`+suffix,
		user, collection, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return body, nil
}

// List returns the documents of a collection in creation order.
func (s *Store) List(ctx context.Context, user, collection string) ([][]byte, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT body FROM documents WHERE user_id=$1 AND collection=$2 ORDER BY seq`,
		user, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	out := [][]byte{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, body)
	}
	return out, rows.Err()
}

// Update locks the current row, applies fn and writes the result in one
// transaction.
func (s *Store) Update(ctx context.Context, user, collection, id string, fn store.UpdateFunc) (out []byte, err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	current, err := getDocument(ctx, tx, user, collection, id, " FOR UPDATE")
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if current == nil {
		tag, execErr := tx.Exec(ctx, `INSERT INTO documents (user_id, collection, id, body)
            VALUES ($1, $2, $3, $4) ON CONFLICT (user_id, collection, id) DO NOTHING`,
			user, collection, id, next)
		if execErr != nil {
			err = fmt.Errorf("insert %s/%s: %w", collection, id, execErr)
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			err = store.ErrConflict
			return nil, err
		}
	} else if _, err = tx.Exec(ctx, upsertDocument, user, collection, id, next); err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return next, nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, user, collection, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE user_id=$1 AND collection=$2 AND id=$3`,
		user, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteUser removes every document and photo owned by user.
func (s *Store) DeleteUser(ctx context.Context, user string) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM documents WHERE user_id=$1`, user); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM photos WHERE user_id=$1`, user); err != nil {
		return fmt.Errorf("delete photos: %w", err)
	}
	return tx.Commit(ctx)
}

// PutPhoto stores a photo blob.
func (s *Store) PutPhoto(ctx context.Context, user, id string, data []byte) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO photos (user_id, id, data) VALUES ($1, $2, $3)
        ON CONFLICT (user_id, id) DO UPDATE SET data = EXCLUDED.data`, user, id, data)
	if err != nil {
		return fmt.Errorf("put photo %s: %w", id, err)
	}
	return nil
}

// GetPhoto returns a photo blob.
func (s *Store) GetPhoto(ctx context.Context, user, id string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM photos WHERE user_id=$1 AND id=$2`, user, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get photo %s: %w", id, err)
	}
	return data, nil
}

// DeletePhoto removes a photo blob. Deleting a missing photo is not an error.
func (s *Store) DeletePhoto(ctx context.Context, user, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM photos WHERE user_id=$1 AND id=$2`, user, id); err != nil {
		return fmt.Errorf("delete photo %s: %w", id, err)
	}
	return nil
}
