package api

import (
	"errors"
	"fmt"
)

// Kind classifies why a request failed.
type Kind int

const (
	// KindNetwork covers transport failures and timeouts.
	KindNetwork Kind = iota + 1
	// KindStatus covers non-2xx responses.
	KindStatus
	// KindDecode covers bodies that are not the expected JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// RequestError is the only error type returned by the client.
type RequestError struct {
	Kind   Kind
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Body != "" {
			return fmt.Sprintf("api: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
		}
		return fmt.Sprintf("api: %s %s: status %d", e.Method, e.Path, e.Status)
	default:
		return fmt.Sprintf("api: %s %s: %s error: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	return kindOf(err) == KindNetwork
}

// IsStatusError reports whether err is a non-2xx response.
func IsStatusError(err error) bool {
	return kindOf(err) == KindStatus
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

func kindOf(err error) Kind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return 0
}
