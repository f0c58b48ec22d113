package github

import "net/http"

// NewTransport exposes the API transport to tests.
func NewTransport(
	token string,
	base http.RoundTripper,
) http.RoundTripper {
	return newTransport(token, base)
}
