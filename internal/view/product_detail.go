package view

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/render"
	"Storefront/internal/surface"
	"Storefront/pkg/kit"
)

const (
	AddToCartTarget = "add-to-cart"

	addedTemplate = `<p class="success">{{name}} has been added to your cart.</p>`
)

type ProductDetail struct {
	ID        string
	Source    ProductGetter
	Cart      CartAdder
	Container surface.Container
	// Notice receives the add-to-cart confirmation; may be nil.
	Notice   surface.Container
	Template string
	Log      *zap.Logger

	state   State
	product catalog.Product
}

// NewProductDetail reads the product id from "id", falling back to
// "productId".
func NewProductDetail(params Params, src ProductGetter, cart CartAdder, c, notice surface.Container, tmpl string, log *zap.Logger) *ProductDetail {
	id := strings.TrimSpace(params.Get("id"))
	if id == "" {
		id = strings.TrimSpace(params.Get("productId"))
	}
	return &ProductDetail{
		ID:        id,
		Source:    src,
		Cart:      cart,
		Container: c,
		Notice:    notice,
		Template:  tmpl,
		Log:       log,
	}
}

func (d *ProductDetail) State() State { return d.state }

func (d *ProductDetail) Product() catalog.Product { return d.product }

func (d *ProductDetail) Init(ctx context.Context) State {
	log := kit.OrNop(d.Log)

	if d.ID == "" {
		log.Warn("product detail without id")
		d.Container.SetContent(NoIDMessage)
		d.state = Error
		return d.state
	}

	d.state = Loading
	d.Container.SetContent(LoadingMessage)

	p, err := d.Source.GetByID(ctx, d.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			log.Info("product not found", zap.String("id", d.ID))
		} else {
			log.Error("load product failed", zap.String("id", d.ID), zap.Error(err))
		}
		d.Container.SetContent(DetailFailedMessage)
		d.state = Error
		return d.state
	}

	d.product = p
	d.Container.SetContent(render.Render(d.Template, productRecord(p)))
	d.Container.On("click", AddToCartTarget, d.addToCart)
	d.state = Rendered
	return d.state
}

func (d *ProductDetail) addToCart(ctx context.Context, _ string) error {
	if err := d.Cart.Add(ctx, d.product); err != nil {
		kit.OrNop(d.Log).Error("add to cart failed", zap.String("id", d.product.ID), zap.Error(err))
		d.notify(AddFailedMessage)
		return err
	}
	d.notify(render.Render(addedTemplate, render.Record{"name": d.product.Name}))
	return nil
}

func (d *ProductDetail) notify(markup string) {
	if d.Notice != nil {
		d.Notice.SetContent(markup)
	}
}
