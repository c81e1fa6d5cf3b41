package catalogapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"Storefront/internal/catalog"
)

//go:embed fixtures/products.json
var fixtureProducts []byte

type Store interface {
	ListByCategory(ctx context.Context, category string) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (catalog.Product, bool, error)
	Ping(ctx context.Context) error
}

type MemStore struct {
	mu sync.RWMutex
	m  map[string]catalog.Product
}

func NewMemStore(products ...catalog.Product) *MemStore {
	s := &MemStore{m: make(map[string]catalog.Product, len(products))}
	for _, p := range products {
		s.m[p.ID] = p
	}
	return s
}

// NewFixtureStore seeds a store from the embedded product fixture.
func NewFixtureStore() (*MemStore, error) {
	var products []catalog.Product
	if err := json.Unmarshal(fixtureProducts, &products); err != nil {
		return nil, errors.Wrap(err, "decode product fixture")
	}
	return NewMemStore(products...), nil
}

func (s *MemStore) Ping(context.Context) error { return nil }

// ListByCategory returns products sorted by id; an empty category lists all.
func (s *MemStore) ListByCategory(_ context.Context, category string) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, 0, len(s.m))
	for _, p := range s.m {
		if category == "" || strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(_ context.Context, id string) (catalog.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}
