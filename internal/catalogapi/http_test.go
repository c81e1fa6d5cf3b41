package catalogapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/catalogapi"
)

func newStub(t *testing.T) (*httptest.Server, *catalogapi.OrderStore) {
	t.Helper()

	store, err := catalogapi.NewFixtureStore()
	require.NoError(t, err)

	orders := catalogapi.NewOrderStore()
	s := &catalogapi.Server{Store: store, Orders: orders, Log: zap.NewNop()}

	h := catalogapi.NewHandler(s, catalogapi.HTTPDeps{
		Log:      zap.NewNop(),
		Service:  "catalog-stub",
		Registry: prometheus.NewRegistry(),
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, orders
}

func TestFixtureStore_ListsByCategory(t *testing.T) {
	store, err := catalogapi.NewFixtureStore()
	require.NoError(t, err)

	tents, err := store.ListByCategory(context.Background(), "tents")
	require.NoError(t, err)
	require.Len(t, tents, 4)
	for i := 1; i < len(tents); i++ {
		assert.Less(t, tents[i-1].ID, tents[i].ID)
	}

	all, err := store.ListByCategory(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestClientAgainstStub_List(t *testing.T) {
	ts, _ := newStub(t)
	c := catalog.NewClient(ts.URL, 0)

	got, err := c.ListByCategory(context.Background(), "backpacks")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "21KMF", got[0].ID)
	assert.True(t, decimal.RequireFromString("89.95").Equal(got[0].Price))

	got, err = c.Search(context.Background(), "tents")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = c.ListByCategory(context.Background(), "kayaks")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClientAgainstStub_GetByID(t *testing.T) {
	ts, _ := newStub(t)
	c := catalog.NewClient(ts.URL, 0)

	p, err := c.GetByID(context.Background(), "880RR")
	require.NoError(t, err)
	assert.Equal(t, "tents", p.Category)
	assert.NotEmpty(t, p.Name)
	assert.NotEmpty(t, p.Image)

	_, err = c.GetByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestClientAgainstStub_Checkout(t *testing.T) {
	ts, orders := newStub(t)
	c := catalog.NewClient(ts.URL, 0)

	conf, err := c.SubmitOrder(context.Background(), map[string]any{
		"id":         "o_test",
		"email":      "jo@example.com",
		"items":      []map[string]any{{"id": "880RR", "name": "Tent", "price": "199.99", "quantity": 2}},
		"orderTotal": "427.98",
		"fname":      "Jo",
	})
	require.NoError(t, err)
	assert.Equal(t, "o_test", conf["orderId"])
	assert.Equal(t, "Order Placed", conf["message"])

	stored, ok := orders.Get("o_test")
	require.True(t, ok)
	assert.Equal(t, "jo@example.com", stored.Email)
	assert.True(t, decimal.RequireFromString("427.98").Equal(stored.OrderTotal))
	assert.False(t, stored.ReceivedAt.IsZero())
}

func TestCheckout_RejectsInvalidOrders(t *testing.T) {
	ts, orders := newStub(t)

	cases := map[string]string{
		"bad json":       `{`,
		"trailing data":  `{"email":"a@b.co","items":[{"id":"x","quantity":1}]} {}`,
		"no items":       `{"email":"a@b.co","items":[]}`,
		"zero quantity":  `{"email":"a@b.co","items":[{"id":"x","quantity":0}]}`,
		"missing email":  `{"items":[{"id":"x","quantity":1}]}`,
		"negative total": `{"email":"a@b.co","items":[{"id":"x","quantity":1}],"orderTotal":"-1"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/checkout", "application/json", strings.NewReader(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Zero(t, orders.Len())
}

func TestProbes(t *testing.T) {
	ts, _ := newStub(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	require.NoError(t, catalog.NewClient(ts.URL, 0).Ping(context.Background()))
}

func TestDelay_TripsClientTimeout(t *testing.T) {
	store, err := catalogapi.NewFixtureStore()
	require.NoError(t, err)

	ts := httptest.NewServer(catalogapi.NewHandler(
		&catalogapi.Server{Store: store, Orders: catalogapi.NewOrderStore()},
		catalogapi.HTTPDeps{Log: zap.NewNop(), Delay: 200 * time.Millisecond},
	))
	t.Cleanup(ts.Close)

	_, err = catalog.NewClient(ts.URL, 20*time.Millisecond).ListByCategory(context.Background(), "tents")
	assert.True(t, errors.Is(err, catalog.ErrNetwork))

	got, err := catalog.NewClient(ts.URL, 0).ListByCategory(context.Background(), "tents")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestClientAgainstStub_IDNeedingEscape(t *testing.T) {
	odd := catalog.Product{ID: "kit/2 person", Name: "Duo Kit", Price: decimal.RequireFromString("10"), Category: "tents"}
	ts := httptest.NewServer(catalogapi.NewHandler(
		&catalogapi.Server{Store: catalogapi.NewMemStore(odd), Orders: catalogapi.NewOrderStore()},
		catalogapi.HTTPDeps{Log: zap.NewNop()},
	))
	t.Cleanup(ts.Close)

	p, err := catalog.NewClient(ts.URL, 0).GetByID(context.Background(), odd.ID)
	require.NoError(t, err)
	assert.Equal(t, "Duo Kit", p.Name)
}
