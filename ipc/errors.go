package ipc

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed tags any OS-level failure to create, connect, or
	// wrap the client socket. The underlying system error is preserved in
	// the chain for diagnostics.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrEncoding tags malformed UTF-8 crossing the text-mode boundary, in
	// either direction. Distinct from ErrConnectionFailed so callers can
	// tell transport failures from content failures.
	ErrEncoding = errors.New("encoding error")
)

func wrapConnection(operation, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrConnectionFailed, operation, path, err)
}

func wrapEncoding(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrEncoding, operation, err)
}
