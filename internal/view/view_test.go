package view_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/storage"
	"Storefront/internal/surface"
	"Storefront/internal/view"
)

const cardTemplate = `<li data-id="{{id}}">{{name}} {{price}}</li>`

type fakeCatalog struct {
	products []catalog.Product
	err      error
	calls    int
}

func (f *fakeCatalog) ListByCategory(_ context.Context, _ string) ([]catalog.Product, error) {
	f.calls++
	return f.products, f.err
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (catalog.Product, error) {
	f.calls++
	if f.err != nil {
		return catalog.Product{}, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, &catalog.Error{Op: "get", Subject: "id=" + id, Err: catalog.ErrNotFound}
}

func tent(id, category string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     "Tent " + id,
		Price:    decimal.RequireFromString("99.5"),
		Category: category,
	}
}

func TestProductList_Rendered(t *testing.T) {
	src := &fakeCatalog{products: []catalog.Product{tent("t1", "tents"), tent("b1", "backpacks"), tent("x1", "")}}
	c := surface.NewPage().Container("product-list")

	l := view.NewProductList(url.Values{"category": {"Tents"}}, src, c, cardTemplate, nil)
	assert.Equal(t, view.Idle, l.State())

	assert.Equal(t, view.Rendered, l.Init(context.Background()))
	assert.Equal(t, `<li data-id="t1">Tent t1 $99.50</li><li data-id="x1">Tent x1 $99.50</li>`, c.Content())
	assert.Len(t, l.Products(), 2)
}

func TestProductList_Empty(t *testing.T) {
	src := &fakeCatalog{}
	c := surface.NewPage().Container("product-list")

	l := view.NewProductList(url.Values{"category": {"hammocks"}}, src, c, cardTemplate, nil)
	assert.Equal(t, view.Empty, l.Init(context.Background()))
	assert.Equal(t, view.NoProductsMessage, c.Content())
}

func TestProductList_FailureNeverLeavesLoading(t *testing.T) {
	src := &fakeCatalog{err: &catalog.Error{Op: "list", Err: catalog.ErrNetwork}}
	c := surface.NewPage().Container("product-list")

	l := view.NewProductList(url.Values{}, src, c, cardTemplate, nil)
	assert.Equal(t, view.Error, l.Init(context.Background()))
	assert.Equal(t, view.ListFailedMessage, c.Content())
	assert.NotEqual(t, view.LoadingMessage, c.Content())
}

func TestProductDetail_NoIDSkipsNetwork(t *testing.T) {
	src := &fakeCatalog{}
	c := surface.NewPage().Container("product-detail")

	d := view.NewProductDetail(url.Values{}, src, nil, c, nil, "{{name}}", nil)
	assert.Equal(t, view.Error, d.Init(context.Background()))
	assert.Equal(t, view.NoIDMessage, c.Content())
	assert.Zero(t, src.calls)
}

func TestProductDetail_NotFound(t *testing.T) {
	src := &fakeCatalog{}
	c := surface.NewPage().Container("product-detail")

	d := view.NewProductDetail(url.Values{"productId": {"missing"}}, src, nil, c, nil, "{{name}}", nil)
	assert.Equal(t, view.Error, d.Init(context.Background()))
	assert.Equal(t, view.DetailFailedMessage, c.Content())
	assert.Equal(t, 1, src.calls)
}

func TestProductDetail_AddToCart(t *testing.T) {
	ctx := context.Background()
	src := &fakeCatalog{products: []catalog.Product{tent("t1", "tents")}}
	page := surface.NewPage()
	m := cart.NewManager(ctx, storage.NewAdapter(storage.NewMemStore(), nil), cart.DefaultKey, cart.Options{})

	d := view.NewProductDetail(url.Values{"id": {"t1"}}, src, m, page.Container("main"), page.Container("notice"), "<h3>{{name}}</h3>", nil)
	require.Equal(t, view.Rendered, d.Init(ctx))
	assert.Equal(t, "<h3>Tent t1</h3>", page.Content("main"))

	for i := 0; i < 2; i++ {
		require.NoError(t, page.Dispatch(ctx, surface.Event{Type: "click", Target: view.AddToCartTarget}))
	}

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Contains(t, page.Content("notice"), "Tent t1 has been added to your cart.")
}

func TestProductDetail_EscapesIDInURLs(t *testing.T) {
	p := tent(`a/b "c"`, "sleeping bags")
	src := &fakeCatalog{products: []catalog.Product{p}}
	c := surface.NewPage().Container("product-detail")

	tmpl := `<form action="/products/{{pathId}}/events"></form><a href="/products?category={{categoryQuery}}">{{id}}</a>`
	d := view.NewProductDetail(url.Values{"id": {p.ID}}, src, nil, c, nil, tmpl, nil)
	require.Equal(t, view.Rendered, d.Init(context.Background()))

	assert.Equal(t,
		`<form action="/products/a%2Fb%20%22c%22/events"></form><a href="/products?category=sleeping+bags">a/b &#34;c&#34;</a>`,
		c.Content())
}

type brokenCart struct{}

func (brokenCart) Add(context.Context, catalog.Product) error { return errors.New("nope") }

func TestProductDetail_AddToCartFailure(t *testing.T) {
	ctx := context.Background()
	src := &fakeCatalog{products: []catalog.Product{tent("t1", "tents")}}
	page := surface.NewPage()

	d := view.NewProductDetail(url.Values{"id": {"t1"}}, src, brokenCart{}, page.Container("main"), page.Container("notice"), "{{name}}", nil)
	require.Equal(t, view.Rendered, d.Init(ctx))

	err := page.Dispatch(ctx, surface.Event{Type: "click", Target: view.AddToCartTarget})
	require.Error(t, err)
	assert.Equal(t, view.AddFailedMessage, page.Content("notice"))
}
