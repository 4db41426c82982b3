package app

import "strings"

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendBolt   Backend = "bolt"
)

func normalizeBackend(raw string) (Backend, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(BackendSQLite), "sqlite3":
		return BackendSQLite, true
	case string(BackendBolt), "bbolt", "boltdb":
		return BackendBolt, true
	default:
		return "", false
	}
}

func (b Backend) fileName() string {
	if b == BackendBolt {
		return "progress.bolt"
	}
	return "progress.db"
}
