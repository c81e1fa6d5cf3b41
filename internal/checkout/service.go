package checkout

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/pkg/kit"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrSubmission = errors.New("order submission failed")
)

// SubmissionError is a rejected or failed order submission. It matches
// ErrSubmission and unwraps to the catalog error.
type SubmissionError struct {
	OrderID string
	Err     error
}

func (e *SubmissionError) Error() string {
	return "order " + e.OrderID + ": " + ErrSubmission.Error() + ": " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmission }

type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order any) (catalog.Confirmation, error)
}

// Cart is satisfied by *cart.Manager.
type Cart interface {
	Items() []cart.LineItem
	Totals() cart.Totals
	Clear(ctx context.Context) error
}

type Service struct {
	Orders OrderSubmitter
	Log    *zap.Logger
	Now    func() time.Time
}

// Submit validates f, sends the cart as one order and clears the cart once
// the order is accepted. A rejected or failed submission leaves the cart
// intact and returns an error wrapping ErrSubmission.
func (s *Service) Submit(ctx context.Context, f Form, c Cart) (Order, catalog.Confirmation, error) {
	log := kit.OrNop(s.Log)

	if err := f.Validate(); err != nil {
		return Order{}, nil, err
	}

	items := c.Items()
	if len(items) == 0 {
		return Order{}, nil, ErrEmptyCart
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	order := BuildOrder(f, items, c.Totals(), now())

	conf, err := s.Orders.SubmitOrder(ctx, order)
	if err != nil {
		log.Error("order submission failed", zap.String("order_id", order.ID), zap.Error(err))
		return order, nil, &SubmissionError{OrderID: order.ID, Err: err}
	}

	if err := c.Clear(ctx); err != nil {
		log.Warn("order placed but cart not cleared", zap.String("order_id", order.ID), zap.Error(err))
	}

	log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return order, conf, nil
}
