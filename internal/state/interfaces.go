package state

import (
	"context"
	"errors"
)

// Bucket names one of the three persisted aggregates.
type Bucket string

const (
	LevelProgressBucket Bucket = "level_progress"
	GameProgressBucket  Bucket = "game_progress"
	OverallStatsBucket  Bucket = "overall_stats"
)

// Buckets lists every aggregate in schema order.
var Buckets = []Bucket{LevelProgressBucket, GameProgressBucket, OverallStatsBucket}

var (
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrReadOnly      = errors.New("read-only transaction")
)

// Backend is a keyed store of JSON payloads grouped into buckets.
type Backend interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Tx is a unit of work against a Backend. Get returns nil, nil for a
// missing key.
type Tx interface {
	Get(bucket Bucket, key string) ([]byte, error)
	Put(bucket Bucket, key string, value []byte) error
	Clear(bucket Bucket) error
}

func validBucket(b Bucket) bool {
	for _, known := range Buckets {
		if b == known {
			return true
		}
	}
	return false
}
