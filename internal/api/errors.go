package api

import (
	"errors"
	"fmt"
)

// maxBodyPreview caps the response body excerpt carried by StatusError.
const maxBodyPreview = 200

// NetworkError is a transport-level failure: connection refused, DNS
// failure, or the request timing out before a response arrived.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-success HTTP response from the upstream.
type StatusError struct {
	StatusCode  int
	URL         string
	BodyPreview string
}

func (e *StatusError) Error() string {
	if e.BodyPreview != "" {
		return fmt.Sprintf("upstream returned HTTP %d for %s: %s", e.StatusCode, e.URL, e.BodyPreview)
	}
	return fmt.Sprintf("upstream returned HTTP %d for %s", e.StatusCode, e.URL)
}

// ParseError is a structurally invalid response body.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is (or wraps) a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsStatus reports whether err is (or wraps) a StatusError, returning the
// status code when it is.
func IsStatus(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

// IsParse reports whether err is (or wraps) a ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// preview truncates a response body for inclusion in error messages.
func preview(body []byte) string {
	if len(body) > maxBodyPreview {
		body = body[:maxBodyPreview]
	}
	return string(body)
}
