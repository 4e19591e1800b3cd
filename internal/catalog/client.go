// Package catalog talks to the remote demo commerce API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"
)

const DefaultBaseURL = "https://fakestoreapi.com"

type tokenKey struct{}

// WithToken attaches a bearer token to every request made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// Client is stateless; it is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewWithHTTPClient(&http.Client{Timeout: timeout}, baseURL)
}

func NewWithHTTPClient(hc *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login returns the token the server issued. Both a bare token string and an
// object with a token field are accepted.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return "", err
	}
	return decodeToken(raw)
}

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.getJSON(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.getJSON(ctx, "/products/category/"+url.PathEscape(category), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/products/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id int) (domain.Product, error) {
	var p domain.Product
	if err := c.getJSON(ctx, "/products/"+strconv.Itoa(id), &p); err != nil {
		return domain.Product{}, err
	}
	// The API answers unknown ids with 200 and an empty body.
	if p.ID == 0 {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, _ := ctx.Value(tokenKey{}).(string); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, newAPIError(res.StatusCode, raw)
	}
	return raw, nil
}

func decodeToken(raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	var tok string
	switch {
	case len(trimmed) == 0:
	case trimmed[0] == '"':
		if err := json.Unmarshal(trimmed, &tok); err != nil {
			return "", fmt.Errorf("decode token: %w", err)
		}
	case trimmed[0] == '{':
		var obj struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return "", fmt.Errorf("decode token: %w", err)
		}
		tok = obj.Token
	default:
		tok = string(trimmed)
	}
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}
