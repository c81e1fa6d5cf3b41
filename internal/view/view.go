// Package view renders catalog pages onto a surface. Views never return
// catalog failures to their caller: they log them and leave an inline
// message in their container.
package view

import (
	"context"

	"Storefront/internal/catalog"
)

type State int

const (
	Idle State = iota
	Loading
	Rendered
	Empty
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Empty:
		return "empty"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Params is the navigation context. url.Values satisfies it.
type Params interface {
	Get(key string) string
}

type ProductLister interface {
	ListByCategory(ctx context.Context, category string) ([]catalog.Product, error)
}

type ProductGetter interface {
	GetByID(ctx context.Context, id string) (catalog.Product, error)
}

// CartAdder is satisfied by *cart.Manager.
type CartAdder interface {
	Add(ctx context.Context, p catalog.Product) error
}

const (
	LoadingMessage      = `<p class="loading">Loading products...</p>`
	NoProductsMessage   = `<p class="empty">No products found in this category.</p>`
	ListFailedMessage   = `<p class="error">Failed to load products. Please try again later.</p>`
	NoIDMessage         = `<p class="error">No product id was provided.</p>`
	DetailFailedMessage = `<p class="error">Failed to load product details. Please try again later.</p>`
	AddFailedMessage    = `<p class="error">Could not add the product to your cart.</p>`
)
