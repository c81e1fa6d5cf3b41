package cart

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/surface"
	"Storefront/pkg/kit"
)

const DefaultKey = "so-cart"

var ErrInvalidQuantity = errors.New("invalid quantity")

// Store is the slice of storage.Adapter the cart needs.
type Store interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any) error
}

type Options struct {
	// List receives the rendered line items; Summary receives the totals.
	// Either may be nil when the caller only needs cart state.
	List    surface.Container
	Summary surface.Container

	Templates Templates
	Log       *zap.Logger
	Metrics   *kit.Metrics
}

// Manager owns one cart. Every mutation persists the whole list before the
// in-memory copy changes, so Totals always reflects what is stored.
type Manager struct {
	key     string
	store   Store
	list    surface.Container
	summary surface.Container
	tmpl    Templates
	log     *zap.Logger
	metrics *kit.Metrics

	items []LineItem
}

func NewManager(ctx context.Context, store Store, key string, opts Options) *Manager {
	if key == "" {
		key = DefaultKey
	}
	m := &Manager{
		key:     key,
		store:   store,
		list:    opts.List,
		summary: opts.Summary,
		tmpl:    opts.Templates.withDefaults(),
		log:     kit.OrNop(opts.Log),
		metrics: opts.Metrics,
	}
	m.Load(ctx)
	return m
}

// Load replaces the in-memory cart with the stored one. Missing or malformed
// data yields an empty cart.
func (m *Manager) Load(ctx context.Context) {
	var stored []LineItem
	if !m.store.Get(ctx, m.key, &stored) {
		stored = nil
	}
	m.items = sanitize(stored)
}

func (m *Manager) Items() []LineItem {
	return slices.Clone(m.items)
}

// Count is the number of units in the cart, as shown on the cart badge.
func (m *Manager) Count() int {
	n := 0
	for _, it := range m.items {
		n += it.Quantity
	}
	return n
}

func (m *Manager) Totals() Totals {
	return ComputeTotals(m.items)
}

// Add puts one unit of p in the cart, merging with an existing line.
func (m *Manager) Add(ctx context.Context, p catalog.Product) error {
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "add to cart")
	}

	next := slices.Clone(m.items)
	if i := m.indexOf(p.ID); i >= 0 {
		next[i].Quantity++
	} else {
		next = append(next, newLineItem(p))
	}
	return m.commit(ctx, "add", next)
}

// RemoveItem drops the line for productID. Removing an absent id is not an
// error.
func (m *Manager) RemoveItem(ctx context.Context, productID string) error {
	next := slices.DeleteFunc(slices.Clone(m.items), func(it LineItem) bool {
		return it.ID == productID
	})
	return m.commit(ctx, "remove", next)
}

// UpdateQuantity sets the quantity of productID's line; a quantity of zero or
// less removes it. Updating an absent id leaves the cart unchanged.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return m.RemoveItem(ctx, productID)
	}

	next := slices.Clone(m.items)
	if i := m.indexOf(productID); i >= 0 {
		next[i].Quantity = quantity
	}
	return m.commit(ctx, "update", next)
}

func (m *Manager) Clear(ctx context.Context) error {
	return m.commit(ctx, "clear", []LineItem{})
}

func (m *Manager) commit(ctx context.Context, op string, next []LineItem) error {
	if next == nil {
		next = []LineItem{}
	}
	if err := m.store.Set(ctx, m.key, next); err != nil {
		m.log.Error("persist cart failed", zap.String("op", op), zap.String("key", m.key), zap.Error(err))
		return errors.Wrapf(err, "cart %s", op)
	}

	m.items = next
	m.metrics.CountCartMutation(op)
	m.Render()
	return nil
}

func (m *Manager) indexOf(productID string) int {
	return slices.IndexFunc(m.items, func(it LineItem) bool { return it.ID == productID })
}
