package thunder

import "github.com/hashicorp/go-retryablehttp"

type Option func(*Client)

func WithHTTPClient(h *retryablehttp.Client) Option {
	return func(c *Client) { c.http = h }
}
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}
