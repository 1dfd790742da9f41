package thunder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultBase = "https://warthunder.com"

// Client habla con el sitio público de War Thunder: la página claninfo
// (HTML) y el endpoint JSON del leaderboard de clanes. No hay API real,
// así que reintentamos con backoff ante los 5xx que tira seguido.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
}

func New(opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 1 * time.Second
	rc.RetryWaitMax = 8 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil // logueamos nosotros, no la lib

	c := &Client{
		http:    rc,
		baseURL: defaultBase,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// doGET baja el body entero; 404 -> ErrNotFound, resto de no-2xx -> APIError.
func (c *Client) doGET(ctx context.Context, path string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("thunder http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return io.ReadAll(res.Body)
}
