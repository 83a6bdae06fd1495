package backendsdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made by a Client built with NewClient.
const DefaultTimeout = 10 * time.Second

// Client is a client for the onboarding backend. It holds no per-user state
// and is safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a backend client. baseURL may carry a path prefix, for
// example when the backend is mounted under /sandbox.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}
