package storefront

import (
	"context"

	"Storefront/internal/render"
)

// Templates is every markup fragment the pages expand.
type Templates struct {
	Layout       string
	Home         string
	CategoryLink string
	ProductList  string
	ProductCard  string
	ProductPage  string
	ProductBody  string
	CartPage     string
	CartItem     string
	CartSummary  string
	CheckoutPage string
	CheckoutForm string
	OrderPlaced  string
}

// LoadTemplates reads each template from p, failing on the first missing one.
func LoadTemplates(ctx context.Context, p *render.Partials) (Templates, error) {
	var t Templates

	fields := []struct {
		name string
		dst  *string
	}{
		{"layout", &t.Layout},
		{"home-page", &t.Home},
		{"category-link", &t.CategoryLink},
		{"product-list-page", &t.ProductList},
		{"product-card", &t.ProductCard},
		{"product-page", &t.ProductPage},
		{"product-detail", &t.ProductBody},
		{"cart-page", &t.CartPage},
		{"cart-item", &t.CartItem},
		{"cart-summary", &t.CartSummary},
		{"checkout-page", &t.CheckoutPage},
		{"checkout-form", &t.CheckoutForm},
		{"order-placed", &t.OrderPlaced},
	}

	for _, f := range fields {
		s, err := p.Load(ctx, f.name)
		if err != nil {
			return Templates{}, err
		}
		*f.dst = s
	}
	return t, nil
}
