package view

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/render"
	"Storefront/internal/surface"
	"Storefront/pkg/kit"
)

type ProductList struct {
	Category  string
	Source    ProductLister
	Container surface.Container
	Template  string
	Log       *zap.Logger

	state    State
	products []catalog.Product
}

// NewProductList reads the category from the navigation context.
func NewProductList(params Params, src ProductLister, c surface.Container, tmpl string, log *zap.Logger) *ProductList {
	return &ProductList{
		Category:  strings.TrimSpace(params.Get("category")),
		Source:    src,
		Container: c,
		Template:  tmpl,
		Log:       log,
	}
}

func (l *ProductList) State() State { return l.state }

func (l *ProductList) Products() []catalog.Product { return l.products }

// Init fetches and renders the category. It always leaves the container in
// a terminal state: Rendered, Empty or Error.
func (l *ProductList) Init(ctx context.Context) State {
	log := kit.OrNop(l.Log)

	l.state = Loading
	l.Container.SetContent(LoadingMessage)

	products, err := l.Source.ListByCategory(ctx, l.Category)
	if err != nil {
		log.Error("load product list failed", zap.String("category", l.Category), zap.Error(err))
		l.Container.SetContent(ListFailedMessage)
		l.state = Error
		return l.state
	}

	l.products = filterByCategory(products, l.Category)
	if len(l.products) == 0 {
		l.Container.SetContent(NoProductsMessage)
		l.state = Empty
		return l.state
	}

	records := make([]render.Record, 0, len(l.products))
	for _, p := range l.products {
		records = append(records, productRecord(p))
	}
	l.Container.SetContent(render.RenderList(l.Template, records))
	l.state = Rendered
	return l.state
}

// filterByCategory keeps products tagged with category, plus untagged ones;
// the catalog already scoped the request, so a missing tag is not a mismatch.
func filterByCategory(in []catalog.Product, category string) []catalog.Product {
	if category == "" {
		return in
	}

	out := make([]catalog.Product, 0, len(in))
	for _, p := range in {
		if p.Category == "" || strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// productRecord exposes pathId and categoryQuery for markup that puts the id
// or category into a URL.
func productRecord(p catalog.Product) render.Record {
	return render.Record{
		"id":            p.ID,
		"pathId":        url.PathEscape(p.ID),
		"categoryQuery": url.QueryEscape(p.Category),
		"name":          p.Name,
		"image":         p.Image,
		"price":         render.Currency(p.Price),
		"category":      p.Category,
	}
}
