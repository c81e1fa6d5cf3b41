package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/catalog"
	"Storefront/pkg/kit"
)

func newClient(t *testing.T, h http.HandlerFunc) *catalog.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return catalog.NewClient(ts.URL+"/", 0)
}

func TestListByCategory_BareArray(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "tents", r.URL.Query().Get("category"))
		_, _ = io.WriteString(w, `[
			{"id":"p1","name":"Tent","price":10.5,"image":"/t.jpg","category":"tents"},
			{"name":"no id","price":1}
		]`)
	})

	got, err := c.ListByCategory(context.Background(), "tents")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.True(t, decimal.RequireFromString("10.5").Equal(got[0].Price))
}

func TestSearch_ResultEnvelope(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search/sleeping-bags", r.URL.Path)
		_, _ = io.WriteString(w, `{"Result":[{
			"Id":"880RR","Name":"Ajax Tent","FinalPrice":199.99,
			"Images":{"PrimaryMedium":"https://img/880RR.jpg"},"Category":"tents"
		}]}`)
	})

	got, err := c.Search(context.Background(), "sleeping-bags")
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, "880RR", p.ID)
	assert.Equal(t, "Ajax Tent", p.Name)
	assert.Equal(t, "199.99", p.Price.StringFixed(2))
	assert.Equal(t, "https://img/880RR.jpg", p.Image)
	assert.Equal(t, "tents", p.Category)
}

func TestListByCategory_Empty(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"Result":[]}`)
	})

	got, err := c.ListByCategory(context.Background(), "none")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListByCategory_BadStatus(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.ListByCategory(context.Background(), "tents")
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrBadResponse))

	var ce *catalog.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusInternalServerError, ce.Status)
	assert.Equal(t, "category=tents", ce.Subject)
}

func TestListByCategory_Malformed(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"items":[]}`)
	})

	_, err := c.ListByCategory(context.Background(), "tents")
	assert.True(t, errors.Is(err, catalog.ErrMalformed))
}

func TestGetByID(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/p1":
			_, _ = io.WriteString(w, `{"Result":{"Id":"p1","Name":"Lamp","FinalPrice":"5.00"}}`)
		case "/products/null":
			_, _ = io.WriteString(w, `{"Result":null}`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	p, err := c.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)

	_, err = c.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))

	_, err = c.GetByID(ctx, "null")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := catalog.NewClient(url, 0)
	_, err := c.GetByID(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrNetwork))
	assert.Error(t, c.Ping(context.Background()))
}

func TestSubmitOrder(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "o1", body["id"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"orderId":"o1","message":"Order Placed"}`)
	})

	conf, err := c.SubmitOrder(context.Background(), map[string]string{"id": "o1"})
	require.NoError(t, err)
	assert.Equal(t, "o1", conf["orderId"])
}

func TestSubmitOrder_Rejected(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.SubmitOrder(context.Background(), map[string]string{})
	assert.True(t, errors.Is(err, catalog.ErrBadResponse))
}

func TestMetricsRecorded(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	c.Metrics = kit.NewMetrics(prometheus.NewRegistry())

	_, err := c.ListByCategory(context.Background(), "tents")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Metrics.Upstream.WithLabelValues("list", "ok")))
}
