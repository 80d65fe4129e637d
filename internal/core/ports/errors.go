package ports

import "errors"

// Sentinel errors adapters translate transport failures into, so services
// can branch without knowing the transport.
var (
	// ErrOffline marks failures caused by the server being unreachable
	// (connection refused, timeout, no route). HTTP error responses are
	// never ErrOffline; the server answered.
	ErrOffline = errors.New("server unreachable")

	// ErrUnauthorized marks rejected or expired credentials
	ErrUnauthorized = errors.New("not authenticated")

	// ErrNotFound marks a missing resource
	ErrNotFound = errors.New("not found")

	// ErrNoSession marks an empty token store
	ErrNoSession = errors.New("no stored session")

	// ErrCacheMiss marks a cache key that has never been stored
	ErrCacheMiss = errors.New("cache miss")
)
