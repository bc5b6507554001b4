// Package storefront is the HTTP client of the catalog read and order intake
// endpoints.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
)

var ErrNotFound = errors.New("product not found")

// StatusError is a non-2xx response.
type StatusError struct {
	Method  string
	URL     string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, e.Message)
}

type Client struct {
	BaseURL string // e.g. http://localhost:8081/api
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type ListOptions struct {
	Category catalog.Category
	Search   string
	Featured bool
}

func (c *Client) ListProducts(ctx context.Context, opt ListOptions) ([]catalog.PublicProduct, error) {
	q := url.Values{}
	if opt.Category != "" {
		q.Set("category", string(opt.Category))
	}
	if opt.Search != "" {
		q.Set("search", opt.Search)
	}
	if opt.Featured {
		q.Set("featured", "true")
	}
	u := c.BaseURL + "/products"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var out []catalog.PublicProduct
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (catalog.PublicProduct, error) {
	var out catalog.PublicProduct
	err := c.do(ctx, http.MethodGet, c.BaseURL+"/products/"+url.PathEscape(id), nil, &out)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return out, ErrNotFound
	}
	return out, err
}

// SubmitOrder posts the order to the intake endpoint.
func (c *Client) SubmitOrder(ctx context.Context, o orders.Order) (orders.Ack, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return orders.Ack{}, err
	}
	var ack orders.Ack
	err = c.do(ctx, http.MethodPost, c.BaseURL+"/orders", b, &ack)
	return ack, err
}

func (c *Client) do(ctx context.Context, method, u string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return &StatusError{Method: method, URL: u, Code: resp.StatusCode, Message: e.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}
