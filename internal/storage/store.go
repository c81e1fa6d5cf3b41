// Package storage persists JSON values under string keys. It plays the role
// local storage plays for a browser storefront: one blob per key, last writer
// wins, no expiry.
package storage

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Backend stores raw blobs. Implementations must be safe for concurrent use.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Adapter encodes values as JSON on top of a Backend.
type Adapter struct {
	backend Backend
	prefix  string
	log     *zap.Logger
}

func NewAdapter(b Backend, log *zap.Logger) *Adapter {
	return &Adapter{backend: b, log: kit.OrNop(log)}
}

// Scope returns an adapter whose keys live under name, so two scopes never
// see each other's values.
func (a *Adapter) Scope(name string) *Adapter {
	return &Adapter{
		backend: a.backend,
		prefix:  a.prefix + name + "/",
		log:     a.log,
	}
}

// Get decodes the value under key into dst. It reports false when the key is
// absent, the backend fails, or the stored blob does not decode; none of
// those are returned as errors.
func (a *Adapter) Get(ctx context.Context, key string, dst any) bool {
	full := a.prefix + key

	raw, ok, err := a.backend.Load(ctx, full)
	if err != nil {
		a.log.Warn("storage load failed", zap.String("key", full), zap.Error(err))
		return false
	}
	if !ok || len(raw) == 0 {
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		a.log.Warn("malformed stored value", zap.String("key", full), zap.Error(err))
		return false
	}
	return true
}

func (a *Adapter) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	if err := a.backend.Save(ctx, a.prefix+key, raw); err != nil {
		return errors.Wrapf(err, "save %s", key)
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.backend.Ping(ctx)
}

// Open selects a backend by driver name: memory, sqlite or postgres.
func Open(ctx context.Context, driver, dsn string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "memory":
		return NewMemStore(), nil
	case "sqlite":
		if dsn == "" {
			dsn = "storefront.db"
		}
		return OpenSQLite(ctx, dsn)
	case "postgres", "pgx":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, errors.Wrap(ErrUnknownDriver, driver)
	}
}
