package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// Client talks to the molt auth service. All operations are stateless
// request/response calls; the flow types in this package compose them into
// complete authentication sequences.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
