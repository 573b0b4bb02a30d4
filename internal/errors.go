package internal

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrCacheMiss means the server holds no item for the key.
	ErrCacheMiss = errors.New("cache miss")

	// ErrNotStored means a storage command's condition was not met.
	ErrNotStored = errors.New("item not stored")

	// ErrMalformedKey is returned for keys the text protocol cannot carry.
	ErrMalformedKey = errors.New("malformed key")

	// ErrNoServers is returned when no connection exists.
	ErrNoServers = errors.New("no server available")

	// ErrBrokenConn is returned once a previous transport failure left the
	// stream in an unknown state.
	ErrBrokenConn = errors.New("connection broken")

	ErrProtocol    = errors.New("protocol error")
	ErrClientError = errors.New("client error")
	ErrServerError = errors.New("server error")
)

// TransportError wraps a socket level failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline expiry.
func (e *TransportError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}
