package cart

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"Storefront/internal/render"
)

const EmptyMessage = `<p class="cart-empty">Your cart is empty.</p>`

const (
	defaultItemTemplate    = `<li class="cart-card" data-id="{{id}}">{{name}} x {{quantity}} {{lineTotal}}</li>`
	defaultSummaryTemplate = `<p>Subtotal {{subtotal}} Tax {{tax}} Total {{total}}</p>`
)

type Templates struct {
	Item    string
	Summary string
}

func (t Templates) withDefaults() Templates {
	if t.Item == "" {
		t.Item = defaultItemTemplate
	}
	if t.Summary == "" {
		t.Summary = defaultSummaryTemplate
	}
	return t
}

// Render writes the cart into the list container and wires a remove click
// and a quantity change per line; totals go to the summary container.
func (m *Manager) Render() {
	m.renderSummary()

	if m.list == nil {
		return
	}
	if len(m.items) == 0 {
		m.list.SetContent(EmptyMessage)
		return
	}

	records := make([]render.Record, 0, len(m.items))
	for _, it := range m.items {
		records = append(records, itemRecord(it))
	}
	m.list.SetContent(render.RenderList(m.tmpl.Item, records))

	for _, it := range m.items {
		id := it.ID
		m.list.On("click", "remove:"+id, func(ctx context.Context, _ string) error {
			return m.RemoveItem(ctx, id)
		})
		m.list.On("change", "quantity:"+id, func(ctx context.Context, value string) error {
			qty, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return errors.Wrapf(ErrInvalidQuantity, "%q", value)
			}
			return m.UpdateQuantity(ctx, id, qty)
		})
	}
}

func (m *Manager) renderSummary() {
	if m.summary == nil {
		return
	}

	t := m.Totals()
	m.summary.SetContent(render.Render(m.tmpl.Summary, render.Record{
		"subtotal":  render.Currency(t.Subtotal),
		"tax":       render.Currency(t.Tax),
		"total":     render.Currency(t.Total),
		"itemCount": m.Count(),
	}))
	m.summary.On("click", "clear-cart", func(ctx context.Context, _ string) error {
		return m.Clear(ctx)
	})
}

func itemRecord(it LineItem) render.Record {
	return render.Record{
		"id":        it.ID,
		"name":      it.Name,
		"image":     it.Image,
		"price":     render.Currency(it.Price),
		"quantity":  it.Quantity,
		"lineTotal": render.Currency(it.LineTotal()),
	}
}
