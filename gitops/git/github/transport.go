package github

import (
	"fmt"
	"net/http"

	"github.com/byte4ever/remote_commit/gitops/git"
)

// tokenTransport authenticates requests with the
// "token" authorization scheme and refuses methods the
// commit sequence never issues.
type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func newTransport(
	token string,
	base http.RoundTripper,
) *tokenTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &tokenTransport{token: token, base: base}
}

// RoundTrip rejects unsupported methods before any
// network I/O, then forwards a copy of req carrying the
// authorization header.
func (t *tokenTransport) RoundTrip(
	req *http.Request,
) (*http.Response, error) {
	if err := checkMethod(req.Method); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}

		return nil, err
	}

	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "token "+t.token)

	return t.base.RoundTrip(out)
}

func checkMethod(method string) error {
	switch method {
	case http.MethodGet,
		http.MethodPost,
		http.MethodPatch:
		return nil
	default:
		return fmt.Errorf(
			"%w: %s", git.ErrUnsupportedMethod, method,
		)
	}
}
