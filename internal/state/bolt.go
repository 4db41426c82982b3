package state

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

// BoltStore keeps each aggregate in its own BoltDB bucket.
type BoltStore struct {
	db *bbolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}
	store := &BoltStore{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *BoltStore) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

func (s *BoltStore) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BoltStore) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, b := range Buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(b)); err != nil {
				return fmt.Errorf("create %s bucket: %w", b, err)
			}
		}
		return nil
	})
}

type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) bucket(b Bucket) (*bbolt.Bucket, error) {
	if !validBucket(b) {
		return nil, fmt.Errorf("%w %q", ErrUnknownBucket, b)
	}
	bucket := t.tx.Bucket([]byte(b))
	if bucket == nil {
		return nil, fmt.Errorf("%s bucket is missing", b)
	}
	return bucket, nil
}

func (t *boltTx) Get(b Bucket, key string) ([]byte, error) {
	bucket, err := t.bucket(b)
	if err != nil {
		return nil, err
	}
	payload := bucket.Get([]byte(key))
	if payload == nil {
		return nil, nil
	}
	// bbolt memory is only valid for the life of the transaction.
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (t *boltTx) Put(b Bucket, key string, value []byte) error {
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	bucket, err := t.bucket(b)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(key), value)
}

func (t *boltTx) Clear(b Bucket) error {
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	if !validBucket(b) {
		return fmt.Errorf("%w %q", ErrUnknownBucket, b)
	}
	if err := t.tx.DeleteBucket([]byte(b)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
		return err
	}
	_, err := t.tx.CreateBucket([]byte(b))
	return err
}
