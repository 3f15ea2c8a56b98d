// Package uri parses inbound clipdiff custom-scheme URIs.
//
// The OS custom-scheme handler invokes "clipdiff open" with the raw URI:
//
//	clipdiff://klb.clipdiff/diff?path=%2Fx%2Fy%2Ff.txt
package uri

import (
	"errors"
	"fmt"
	"net/url"
)

// Scheme is the registered custom scheme.
const Scheme = "clipdiff"

// IntegrationID is the expected URI authority.
const IntegrationID = "klb.clipdiff"

var (
	// ErrUnknownPath marks URI paths this integration does not handle.
	// Callers log and ignore; no error is shown to the user.
	ErrUnknownPath = errors.New("uri: unknown path")

	// ErrMissingPath marks a /diff request without a usable path parameter.
	// Callers surface this to the user.
	ErrMissingPath = errors.New("uri: missing path parameter")
)

// Request is a parsed diff request.
type Request struct {
	// FilePath is the absolute path of the file to diff against the clipboard.
	FilePath string
}

// Parse validates raw and extracts the diff request from it.
func Parse(raw string) (*Request, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("uri: %w", err)
	}
	if u.Scheme != Scheme {
		return nil, fmt.Errorf("uri: unexpected scheme %q", u.Scheme)
	}
	if u.Path != "/diff" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPath, u.Path)
	}
	path := u.Query().Get("path")
	if path == "" {
		return nil, ErrMissingPath
	}
	return &Request{FilePath: path}, nil
}
