// Package checkout turns a cart into an order and submits it to the
// catalog's checkout endpoint.
package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"Storefront/internal/cart"
)

type OrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type Order struct {
	ID        string    `json:"id"`
	OrderDate time.Time `json:"orderDate"`
	Form

	Items    []OrderItem     `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"orderTotal"`
}

func BuildOrder(f Form, items []cart.LineItem, t cart.Totals, now time.Time) Order {
	out := make([]OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}

	return Order{
		ID:        "o_" + uuid.NewString(),
		OrderDate: now.UTC(),
		Form:      f,
		Items:     out,
		Subtotal:  t.Subtotal.Round(2),
		Tax:       t.Tax.Round(2),
		Total:     t.Total.Round(2),
	}
}
