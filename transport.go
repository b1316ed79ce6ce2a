package bustracker

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Transport fetches the raw response body for a request URL. The
// client builds the URL, the transport only moves bytes; tests swap in
// a canned implementation.
type Transport interface {
	Fetch(url string) ([]byte, error)
}

// HTTPTransport is the default Transport, a thin wrapper around
// net/http.
type HTTPTransport struct {
	client *http.Client
}

const defaultRequestTimeout = 10 * time.Second

// NewHTTPTransport returns a transport with a 10 second request
// timeout.
func NewHTTPTransport() *HTTPTransport {
	return NewHTTPTransportWithTimeout(defaultRequestTimeout)
}

// NewHTTPTransportWithTimeout returns a transport bounding each
// request with the given timeout.
func NewHTTPTransportWithTimeout(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs a GET and returns the response body. Transport and
// non-200 failures both surface as *NetworkError.
func (t *HTTPTransport) Fetch(url string) ([]byte, error) {
	resp, err := t.client.Get(url)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return body, nil
}
