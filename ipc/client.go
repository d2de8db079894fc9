package ipc

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"pyreconn/logging"
	"pyreconn/socketpath"
)

// Dialer opens client connections to the server socket. The zero value is
// ready to use: a single blocking connect attempt with no timeout and no
// logging, which is what the package-level helpers do.
type Dialer struct {
	// Timeout bounds the connect attempt. Zero means block until the OS
	// completes or rejects the connect.
	Timeout time.Duration
	// Logger receives debug traces. Nil discards them.
	Logger *slog.Logger
}

// Conn is an open client connection together with its buffered binary
// stream views. It is exclusively owned by whoever dialed it and must be
// closed exactly once; Close is idempotent to make teardown paths safe.
type Conn struct {
	conn net.Conn
	in   *bufio.Reader
	out  *bufio.Writer

	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

// Dial connects to the Unix domain socket at path. Exactly one connect
// attempt is made; every failure is tagged with ErrConnectionFailed.
func (d Dialer) Dial(path string) (*Conn, error) {
	if !socketpath.FitsAddressLimit(path) {
		return nil, wrapConnection("dial", path, errors.New("path exceeds platform socket address limit"))
	}
	logger := d.log()
	logger.Debug("dialing server socket", logging.String("socket", path))
	conn, err := net.DialTimeout("unix", path, d.Timeout)
	if err != nil {
		return nil, wrapConnection("dial", path, err)
	}
	return &Conn{
		conn:   conn,
		in:     bufio.NewReader(conn),
		out:    bufio.NewWriter(conn),
		logger: logger,
	}, nil
}

// WithConnection dials path and runs body with the connection's input and
// output streams. The connection is torn down when body returns, whether
// normally, with an error, or by panicking; a teardown failure never masks
// the error body was already propagating.
func (d Dialer) WithConnection(path string, body func(in *bufio.Reader, out *bufio.Writer) error) (err error) {
	conn, err := d.Dial(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); err == nil {
			err = closeErr
		}
	}()
	return body(conn.Input(), conn.Output())
}

func (d Dialer) log() *slog.Logger {
	if d.Logger == nil {
		return logging.NewNop()
	}
	return d.Logger
}

// Dial connects with the default Dialer.
func Dial(path string) (*Conn, error) {
	return Dialer{}.Dial(path)
}

// WithConnection runs body over a scoped connection using the default
// Dialer.
func WithConnection(path string, body func(in *bufio.Reader, out *bufio.Writer) error) error {
	return Dialer{}.WithConnection(path, body)
}

// Input returns the buffered read side of the connection.
func (c *Conn) Input() *bufio.Reader { return c.in }

// Output returns the buffered write side of the connection.
func (c *Conn) Output() *bufio.Writer { return c.out }

// Close flushes buffered output and closes the socket. A flush failure
// does not prevent the close; both errors are reported. Calls after the
// first return the original result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		flushErr := c.out.Flush()
		closeErr := c.conn.Close()
		c.closeErr = errors.Join(flushErr, closeErr)
		c.logger.Debug("connection closed", logging.Error(c.closeErr))
	})
	return c.closeErr
}
