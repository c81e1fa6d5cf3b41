package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type dialect struct {
	driver string
	schema string
	load   string
	save   string
}

var (
	sqliteDialect = dialect{
		driver: "sqlite",
		schema: `
			CREATE TABLE IF NOT EXISTS kv_store (
				key        TEXT PRIMARY KEY,
				value      BLOB NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
		load: `SELECT value FROM kv_store WHERE key = ?`,
		save: `
			INSERT INTO kv_store (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE
			SET value = excluded.value, updated_at = excluded.updated_at`,
	}

	postgresDialect = dialect{
		driver: "pgx",
		schema: `
			CREATE TABLE IF NOT EXISTS kv_store (
				key        TEXT PRIMARY KEY,
				value      BYTEA NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
		load: `SELECT value FROM kv_store WHERE key = $1`,
		save: `
			INSERT INTO kv_store (key, value, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	}
)

// SQLStore keeps every key in a single kv_store table.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

// OpenSQLite opens a file-backed store; dsn may be ":memory:".
func OpenSQLite(ctx context.Context, dsn string) (*SQLStore, error) {
	s, err := openSQL(ctx, sqliteDialect, dsn)
	if err != nil {
		return nil, err
	}
	// database/sql would otherwise hand out separate :memory: databases.
	s.db.SetMaxOpenConns(1)
	return s, nil
}

func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	return openSQL(ctx, postgresDialect, dsn)
}

func openSQL(ctx context.Context, d dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", d.driver)
	}

	s := &SQLStore{db: db, d: d}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.d.schema)
		return errors.Wrap(err, "create kv_store")
	})
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, s.d.load, key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, value []byte) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.d.save, key, value, time.Now().UTC())
		return err
	})
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
