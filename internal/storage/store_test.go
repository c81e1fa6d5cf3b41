package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Storefront/internal/storage"
)

type item struct {
	ID  string `json:"id"`
	Qty int    `json:"quantity"`
}

func backends(t *testing.T) map[string]storage.Backend {
	t.Helper()

	sqlite, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]storage.Backend{
		"memory": storage.NewMemStore(),
		"sqlite": sqlite,
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := storage.NewAdapter(b, zap.NewNop())

			require.NoError(t, a.Set(ctx, "so-cart", []item{{ID: "p1", Qty: 2}}))

			var got []item
			require.True(t, a.Get(ctx, "so-cart", &got))
			assert.Equal(t, []item{{ID: "p1", Qty: 2}}, got)

			require.NoError(t, a.Set(ctx, "so-cart", []item{}))
			got = nil
			require.True(t, a.Get(ctx, "so-cart", &got))
			assert.Empty(t, got)
		})
	}
}

func TestAdapter_AbsentAndMalformed(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := storage.NewAdapter(b, nil)

			var got []item
			assert.False(t, a.Get(ctx, "missing", &got))

			require.NoError(t, b.Save(ctx, "broken", []byte("{not json")))
			assert.False(t, a.Get(ctx, "broken", &got))
			assert.Nil(t, got)
		})
	}
}

func TestAdapter_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := storage.NewAdapter(storage.NewMemStore(), nil)

	alice := a.Scope("alice")
	bob := a.Scope("bob")

	require.NoError(t, alice.Set(ctx, "so-cart", []item{{ID: "p1", Qty: 1}}))

	var got []item
	assert.False(t, bob.Get(ctx, "so-cart", &got))
	assert.False(t, a.Get(ctx, "so-cart", &got))
	assert.True(t, alice.Get(ctx, "so-cart", &got))
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, storage.NewAdapter(s, nil).Set(ctx, "k", map[string]int{"n": 7}))
	require.NoError(t, s.Close())

	s, err = storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var got map[string]int
	require.True(t, storage.NewAdapter(s, nil).Get(ctx, "k", &got))
	assert.Equal(t, 7, got["n"])
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	b, err := storage.Open(ctx, "memory", "")
	require.NoError(t, err)
	assert.IsType(t, &storage.MemStore{}, b)

	b, err = storage.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, b.Ping(ctx))
	_ = b.Close()

	_, err = storage.Open(ctx, "redis", "")
	assert.True(t, errors.Is(err, storage.ErrUnknownDriver))

	_, err = storage.Open(ctx, "postgres", "")
	assert.Error(t, err)
}
