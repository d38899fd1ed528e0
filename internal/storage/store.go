package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/timshannon/bolthold"
	bolt "go.etcd.io/bbolt"
)

const (
	dbFilePermissions = 0o600
	dbOpenTimeout     = time.Second
)

// Open opens the bolthold store addressed by databaseURL. Accepted forms are
// bolt://<path>, file:<path> and a bare filesystem path.
func Open(databaseURL string) (*bolthold.Store, error) {
	path, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, &InitializationError{URL: redact(databaseURL), Err: err}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &InitializationError{URL: path, Err: fmt.Errorf("creating data dir: %w", err)}
		}
	}

	store, err := bolthold.Open(path, dbFilePermissions, &bolthold.Options{
		Options: &bolt.Options{Timeout: dbOpenTimeout},
	})
	if err != nil {
		return nil, &InitializationError{URL: path, Err: err}
	}
	return store, nil
}

// OpenExisting is Open for a database that must already exist. A missing file
// is reported as an InitializationError instead of being created.
func OpenExisting(databaseURL string) (*bolthold.Store, error) {
	path, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, &InitializationError{URL: redact(databaseURL), Err: err}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &InitializationError{URL: path, Err: fmt.Errorf("database file not found: %w", err)}
	}
	return Open(databaseURL)
}

// ParseDatabaseURL resolves databaseURL to a bolt file path.
func ParseDatabaseURL(databaseURL string) (string, error) {
	raw := strings.TrimSpace(databaseURL)
	var path string
	switch {
	case raw == "":
		return "", errors.New("empty database url")
	case strings.HasPrefix(raw, "bolt://"):
		path = strings.TrimPrefix(raw, "bolt://")
	case strings.HasPrefix(raw, "file:"):
		path = strings.TrimPrefix(strings.TrimPrefix(raw, "file:"), "//")
	case strings.Contains(raw, "://"):
		scheme, _, _ := strings.Cut(raw, "://")
		return "", fmt.Errorf("unsupported database url scheme %q", scheme)
	default:
		path = raw
	}
	if path == "" {
		return "", errors.New("database url has no path")
	}
	return filepath.Clean(path), nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	return u.Redacted()
}
