package ipc

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// TextReader decodes the connection's input stream as UTF-8 text. Invalid
// byte sequences are not replaced: they surface as ErrEncoding, so the
// caller can distinguish garbled content from transport failures.
type TextReader struct {
	r *bufio.Reader
}

func newTextReader(r io.Reader) *TextReader {
	return &TextReader{r: bufio.NewReader(transform.NewReader(r, encoding.UTF8Validator))}
}

// ReadLine reads through the next newline and returns the line with the
// terminator stripped. A final unterminated line is returned once; the
// call after that reports io.EOF.
func (r *TextReader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return "", wrapEncoding("read", err)
		}
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// ReadRune decodes and returns the next character from the stream.
func (r *TextReader) ReadRune() (rune, error) {
	ch, _, err := r.r.ReadRune()
	if err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return 0, wrapEncoding("read", err)
		}
		return 0, err
	}
	return ch, nil
}

// TextWriter encodes UTF-8 text onto the connection's output stream with
// line-buffered semantics: any write containing a newline flushes pending
// output to the server immediately.
type TextWriter struct {
	w *bufio.Writer
}

func newTextWriter(w *bufio.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteString writes s, rejecting invalid UTF-8 with ErrEncoding before
// any bytes reach the connection, and flushes if s contains a newline.
func (w *TextWriter) WriteString(s string) error {
	if _, _, err := transform.String(encoding.UTF8Validator, s); err != nil {
		return wrapEncoding("write", err)
	}
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}
	if strings.ContainsRune(s, '\n') {
		return w.w.Flush()
	}
	return nil
}

// WriteLine writes s followed by a newline, flushing the stream.
func (w *TextWriter) WriteLine(s string) error {
	return w.WriteString(s + "\n")
}

// Flush forces pending output onto the connection without a newline.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// WithTextConnection dials path and runs body with UTF-8 line-buffered
// views over the binary streams. Layered strictly on WithConnection: the
// same teardown guarantees apply, and releasing the text wrappers releases
// the binary streams beneath them.
func (d Dialer) WithTextConnection(path string, body func(in *TextReader, out *TextWriter) error) error {
	return d.WithConnection(path, func(in *bufio.Reader, out *bufio.Writer) error {
		return body(newTextReader(in), newTextWriter(out))
	})
}

// WithTextConnection runs body over a scoped text-mode connection using
// the default Dialer.
func WithTextConnection(path string, body func(in *TextReader, out *TextWriter) error) error {
	return Dialer{}.WithTextConnection(path, body)
}
