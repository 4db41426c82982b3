package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer keeps read-modify-write transactions serial.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	for _, b := range Buckets {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_ts TEXT NOT NULL DEFAULT ''
		);`, b)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema %s: %w", b, err)
		}
	}
	return nil
}

func (s *SQLiteStore) View(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	return fn(&sqliteTx{ctx: ctx, tx: tx, readOnly: true})
}

func (s *SQLiteStore) Update(ctx context.Context, fn func(Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(&sqliteTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

type sqliteTx struct {
	ctx      context.Context
	tx       *sql.Tx
	readOnly bool
}

func (t *sqliteTx) Get(bucket Bucket, key string) ([]byte, error) {
	if !validBucket(bucket) {
		return nil, fmt.Errorf("%w %q", ErrUnknownBucket, bucket)
	}
	row := t.tx.QueryRowContext(t.ctx, fmt.Sprintf(`SELECT payload FROM %s WHERE key = ?`, bucket), key)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return []byte(payload), nil
}

func (t *sqliteTx) Put(bucket Bucket, key string, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if !validBucket(bucket) {
		return fmt.Errorf("%w %q", ErrUnknownBucket, bucket)
	}
	_, err := t.tx.ExecContext(t.ctx, fmt.Sprintf(`
		INSERT INTO %s(key, payload, updated_ts) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_ts = excluded.updated_ts
	`, bucket), key, string(value), time.Now().UTC().Format(timeLayout))
	return err
}

func (t *sqliteTx) Clear(bucket Bucket) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if !validBucket(bucket) {
		return fmt.Errorf("%w %q", ErrUnknownBucket, bucket)
	}
	_, err := t.tx.ExecContext(t.ctx, fmt.Sprintf(`DELETE FROM %s`, bucket))
	return err
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
