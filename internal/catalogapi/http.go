// Package catalogapi serves the product catalog and checkout API the
// storefront consumes, backed by in-memory stores. It stands in for the
// remote catalog in local development and tests.
package catalogapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/pkg/kit"
)

const maxOrderBody = 1 << 20

type Server struct {
	Store  Store
	Orders *OrderStore
	Log    *zap.Logger
}

type resultEnvelope struct {
	Result any `json:"Result"`
}

type checkoutResp struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			kit.OrNop(s.Log).Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/products", s.list)
	r.Get("/products/search/{category}", s.search)
	r.Get("/products/{id}", s.get)
	r.Post("/checkout", s.checkout)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, ok := s.byCategory(w, r, r.URL.Query().Get("category"))
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	category, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad category", nil)
		return
	}
	products, ok := s.byCategory(w, r, category)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, resultEnvelope{Result: products})
}

func (s *Server) byCategory(w http.ResponseWriter, r *http.Request, category string) ([]catalog.Product, bool) {
	products, err := s.Store.ListByCategory(r.Context(), strings.TrimSpace(category))
	if err != nil {
		kit.OrNop(s.Log).Error("list products failed", zap.Error(err), zap.String("category", category))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return nil, false
	}
	return products, true
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", nil)
		return
	}

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		kit.OrNop(s.Log).Error("get product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, resultEnvelope{Result: p})
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	o, err := decodeOrder(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if problems := validateOrder(o); len(problems) > 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid order", problems)
		return
	}

	if o.ID == "" {
		o.ID = "o_" + uuid.NewString()
	}
	o.ReceivedAt = time.Now().UTC()
	s.Orders.Create(o)

	kit.OrNop(s.Log).Info("order received", zap.String("order_id", o.ID), zap.Int("items", len(o.Items)))
	kit.WriteJSON(w, http.StatusCreated, checkoutResp{OrderID: o.ID, Message: "Order Placed"})
}

func decodeOrder(w http.ResponseWriter, r *http.Request) (Order, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxOrderBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)

	var o Order
	if err := dec.Decode(&o); err != nil {
		return Order{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Order{}, errors.New("extra data after json object")
	}
	return o, nil
}

func validateOrder(o Order) map[string]string {
	problems := map[string]string{}

	if strings.TrimSpace(o.Email) == "" {
		problems["email"] = "required"
	}
	if len(o.Items) == 0 {
		problems["items"] = "required"
	}
	for _, it := range o.Items {
		if strings.TrimSpace(it.ID) == "" || it.Quantity <= 0 {
			problems["items"] = "each item needs an id and a positive quantity"
			break
		}
	}
	if o.OrderTotal.IsNegative() {
		problems["orderTotal"] = "must not be negative"
	}
	return problems
}
