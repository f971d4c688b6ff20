package remote

import "errors"

var (
	// ErrUnavailable wraps connection-level failures: timeouts, refused
	// connections, DNS errors. The whole sync run may be retried by the caller.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized signals a missing, expired or rejected session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrProtocol signals a malformed response: the server and client likely
	// disagree on the wire format.
	ErrProtocol = errors.New("protocol error")
)
