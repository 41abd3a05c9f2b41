// Package store persists game records in a key-value store. Several backends
// share the Store interface; Repository layers the game's records on top.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("store: key not found")

	// ErrEmptyKey is returned for a blank key.
	ErrEmptyKey = errors.New("store: key cannot be empty")
)

// Store is a byte-oriented key-value store. Put overwrites the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns the keys starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindBolt   Kind = "bolt"
	KindRedis  Kind = "redis"
	KindMemory Kind = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Kind       Kind
	Dir        string
	SQLitePath string
	BoltPath   string
	Redis      RedisConfig
	Compress   bool
}

// Open opens the backend named by opts.Kind, wrapped with zstd compression
// when opts.Compress is set.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Kind {
	case KindFile, "":
		s, err = NewFile(opts.Dir)
	case KindSQLite:
		s, err = OpenSQLite(ctx, opts.SQLitePath)
	case KindBolt:
		s, err = OpenBolt(opts.BoltPath)
	case KindRedis:
		s, err = OpenRedis(ctx, opts.Redis)
	case KindMemory:
		s = NewMemory()
	default:
		return nil, fmt.Errorf("unknown store kind %q", opts.Kind)
	}
	if err != nil {
		return nil, err
	}
	if opts.Compress {
		c, err := NewCompressed(s)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		return c, nil
	}
	return s, nil
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
