// Package testsupport provides shared fixtures for exercising the
// connection helpers against real Unix domain sockets.
package testsupport

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// SocketPath returns a unique socket path short enough for sun_path.
// t.TempDir is deliberately avoided: its nested per-test directories can
// push the path over the platform socket address limit.
func SocketPath(t testing.TB) string {
	t.Helper()
	path := filepath.Join(os.TempDir(), fmt.Sprintf("pyreconn-%.8s.sock", uuid.NewString()))
	t.Cleanup(func() {
		_ = os.Remove(path)
	})
	return path
}

// StartEchoServer listens on path and echoes every accepted connection's
// bytes back until the client closes its end. The listener is shut down
// via t.Cleanup.
func StartEchoServer(t testing.TB, path string) {
	t.Helper()
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen %s: %v", path, err)
	}
	t.Cleanup(func() {
		_ = ln.Close()
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				_, _ = io.Copy(c, c)
			}(conn)
		}
	}()
}

// StartServer listens on path and delivers each accepted connection on the
// returned channel so tests can drive the server side of the conversation
// directly. The listener is shut down via t.Cleanup.
func StartServer(t testing.TB, path string) <-chan net.Conn {
	t.Helper()
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen %s: %v", path, err)
	}
	t.Cleanup(func() {
		_ = ln.Close()
	})
	accepted := make(chan net.Conn, 4)
	go func() {
		defer close(accepted)
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepted <- conn
		}
	}()
	return accepted
}
