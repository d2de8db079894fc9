// Package ipc establishes client connections to the server's Unix domain
// socket and exposes them as paired input/output streams.
//
// It is strictly the client half: the server owns the socket file and its
// lifecycle, and the wire protocol exchanged over an open connection is up
// to the caller. The scoped entry points WithConnection and
// WithTextConnection guarantee the connection is closed on every exit path
// from the body, including panics, so callers cannot leak the descriptor.
package ipc
