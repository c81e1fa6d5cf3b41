// Package cart keeps a visitor's shopping cart: an ordered list of line items
// persisted as one JSON value under a fixed storage key.
package cart

import (
	"github.com/shopspring/decimal"

	"Storefront/internal/catalog"
)

// TaxRate is applied to the subtotal.
var TaxRate = decimal.RequireFromString("0.07")

// LineItem is one product in the cart. Display fields are copied from the
// product when it is first added.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func newLineItem(p catalog.Product) LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Image:    p.Image,
		Price:    p.Price,
		Quantity: 1,
	}
}

func (it LineItem) LineTotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

func ComputeTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	tax := subtotal.Mul(TaxRate)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// sanitize enforces the stored-cart invariants on data read back from
// storage: positive quantities and one line per product id.
func sanitize(in []LineItem) []LineItem {
	out := make([]LineItem, 0, len(in))
	index := make(map[string]int, len(in))

	for _, it := range in {
		if it.ID == "" || it.Quantity <= 0 {
			continue
		}
		if i, dup := index[it.ID]; dup {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}
