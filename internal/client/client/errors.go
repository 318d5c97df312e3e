package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrServer       = errors.New("server error")
	ErrBadResponse  = errors.New("unexpected response body")
)

// Kind classifies a failed API call.
type Kind int

const (
	KindClient    Kind = iota + 1 // 400 and other 4xx
	KindAuth                      // 401
	KindForbidden                 // 403
	KindServer                    // 5xx
	KindTransport                 // no response at all
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindServer:
		return "server"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// APIError describes a request that did not produce a 2xx response.
// Message is the server's "message" field when it sent one.
type APIError struct {
	Op      string
	Status  int
	Kind    Kind
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	switch {
	case e.Kind == KindTransport:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Is lets callers match on the package sentinels, e.g.
// errors.Is(err, client.ErrUnauthorized).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindTransport
	case ErrUnauthorized:
		return e.Kind == KindAuth
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

func kindOf(status int) Kind {
	switch {
	case status == 401:
		return KindAuth
	case status == 403:
		return KindForbidden
	case status >= 500:
		return KindServer
	default:
		return KindClient
	}
}
