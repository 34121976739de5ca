package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps each document as a JSONB row keyed by path.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the documents table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, documentsSchema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, path string, dst interface{}) error {
	q := database.GetQuerier(ctx, s.db)

	var raw string
	err := q.QueryRow(ctx, `SELECT value::text FROM documents WHERE path = $1`, path).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("postgres get %q: %w", path, err)
	}
	return decode([]byte(raw), dst)
}

// Set implements Store.
func (s *PostgresStore) Set(ctx context.Context, path string, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	return s.put(ctx, database.GetQuerier(ctx, s.db), path, data)
}

// Update implements Store. The row is locked for the duration of the merge.
func (s *PostgresStore) Update(ctx context.Context, path string, patch map[string]interface{}) error {
	return database.WithTransaction(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT value::text FROM documents WHERE path = $1 FOR UPDATE`, path).Scan(&current)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("postgres lock %q: %w", path, err)
		}

		merged, err := mergePatch([]byte(current), patch)
		if err != nil {
			return err
		}
		return s.put(ctx, tx, path, merged)
	})
}

func (s *PostgresStore) put(ctx context.Context, q database.Querier, path string, data []byte) error {
	_, err := q.Exec(ctx, `
		INSERT INTO documents (path, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		path, string(data))
	if err != nil {
		return fmt.Errorf("postgres set %q: %w", path, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
