// Package catalog talks to the remote product catalog and checkout API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

const maxBody = 4 << 20

const (
	opList   = "list"
	opSearch = "search"
	opGet    = "get"
	opSubmit = "submit_order"
	opPing   = "ping"
)

// Confirmation is whatever JSON the checkout endpoint answers with.
type Confirmation map[string]any

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
	Metrics *kit.Metrics
}

// NewClient builds a client for baseURL. A zero timeout leaves requests
// bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// ListByCategory calls GET /products?category=c.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	path := "/products?category=" + url.QueryEscape(category)
	return c.list(ctx, opList, "category="+category, path)
}

// Search calls GET /products/search/c, which answers with a Result envelope.
func (c *Client) Search(ctx context.Context, category string) ([]Product, error) {
	path := "/products/search/" + url.PathEscape(category)
	return c.list(ctx, opSearch, "category="+category, path)
}

func (c *Client) GetByID(ctx context.Context, id string) (Product, error) {
	subject := "id=" + id

	var p Product
	err := c.observe(opGet, func() error {
		body, err := c.do(ctx, opGet, subject, http.MethodGet, "/products/"+url.PathEscape(id), nil)
		if err != nil {
			return err
		}

		p, err = decodeProduct(body)
		if err != nil {
			return &Error{Op: opGet, Subject: subject, Err: err}
		}
		return nil
	})
	return p, err
}

func (c *Client) SubmitOrder(ctx context.Context, order any) (Confirmation, error) {
	const subject = "order"

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, errors.Wrap(err, "encode order")
	}

	var conf Confirmation
	err = c.observe(opSubmit, func() error {
		body, err := c.do(ctx, opSubmit, subject, http.MethodPost, "/checkout", payload)
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(body)) == 0 {
			conf = Confirmation{}
			return nil
		}
		if err := json.Unmarshal(body, &conf); err != nil {
			return &Error{Op: opSubmit, Subject: subject, Err: errors.Wrap(ErrMalformed, err.Error())}
		}
		return nil
	})
	return conf, err
}

// Ping reports whether the catalog answers HTTP at all. Any status counts as
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &Error{Op: opPing, Subject: c.BaseURL, Err: errors.Wrap(ErrNetwork, err.Error())}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
	return nil
}

func (c *Client) list(ctx context.Context, op, subject, path string) ([]Product, error) {
	var out []Product
	err := c.observe(op, func() error {
		body, err := c.do(ctx, op, subject, http.MethodGet, path, nil)
		if err != nil {
			return err
		}

		raw, err := decodeList(body)
		if err != nil {
			return &Error{Op: op, Subject: subject, Err: err}
		}
		out = c.normalize(op, raw)
		return nil
	})
	return out, err
}

func (c *Client) do(ctx context.Context, op, subject, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, &Error{Op: op, Subject: subject, Err: errors.Wrap(ErrNetwork, err.Error())}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Subject: subject, Err: errors.Wrap(ErrNetwork, err.Error())}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && op == opGet:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &Error{Op: op, Subject: subject, Status: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &Error{Op: op, Subject: subject, Status: resp.StatusCode, Err: ErrBadResponse}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &Error{Op: op, Subject: subject, Status: resp.StatusCode, Err: errors.Wrap(ErrNetwork, err.Error())}
	}
	return raw, nil
}

func (c *Client) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)

	c.Metrics.ObserveUpstream(op, outcome(err), d)
	kit.OrNop(c.Log).Debug("catalog call",
		zap.String("op", op),
		zap.String("outcome", outcome(err)),
		zap.Duration("duration", d),
	)
	return err
}

// normalize drops records that fail validation so views never see a product
// without an id.
func (c *Client) normalize(op string, in []Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if err := p.Validate(); err != nil {
			kit.OrNop(c.Log).Warn("dropping catalog record", zap.String("op", op), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}

func decodeList(body []byte) ([]Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || isNull(body) {
		return nil, nil
	}

	if body[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		res, ok := fields["Result"]
		if !ok {
			return nil, errors.Wrap(ErrMalformed, "object without Result")
		}
		if isNull(res) {
			return nil, nil
		}
		body = res
	}

	var out []Product
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return out, nil
}

func decodeProduct(body []byte) (Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || isNull(body) {
		return Product{}, ErrNotFound
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Product{}, errors.Wrap(ErrMalformed, err.Error())
	}
	if res, ok := fields["Result"]; ok {
		if isNull(res) {
			return Product{}, ErrNotFound
		}
		body = res
	}

	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		return Product{}, errors.Wrap(ErrMalformed, err.Error())
	}
	if p.ID == "" {
		return Product{}, ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return Product{}, errors.Wrap(ErrMalformed, err.Error())
	}
	return p, nil
}
