package ipc_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"pyreconn/internal/testsupport"
	"pyreconn/ipc"
)

func TestTextRoundTrip(t *testing.T) {
	path := testsupport.SocketPath(t)
	testsupport.StartEchoServer(t, path)

	var got string
	err := ipc.WithTextConnection(path, func(in *ipc.TextReader, out *ipc.TextWriter) error {
		if err := out.WriteLine("héllo wörld ⌛"); err != nil {
			return err
		}
		line, err := in.ReadLine()
		if err != nil {
			return err
		}
		got = line
		return nil
	})
	if err != nil {
		t.Fatalf("WithTextConnection: %v", err)
	}
	if got != "héllo wörld ⌛" {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestBinaryTextEquivalence(t *testing.T) {
	path := testsupport.SocketPath(t)
	accepted := testsupport.StartServer(t, path)

	err := ipc.WithTextConnection(path, func(in *ipc.TextReader, out *ipc.TextWriter) error {
		if err := out.WriteLine("status check"); err != nil {
			return err
		}
		server := <-accepted
		_ = server.SetReadDeadline(time.Now().Add(2 * time.Second))
		raw := make([]byte, len("status check\n"))
		if _, err := io.ReadFull(server, raw); err != nil {
			return err
		}
		if string(raw) != "status check\n" {
			t.Errorf("raw bytes mismatch: %q", raw)
		}
		if _, err := server.Write([]byte("all good\n")); err != nil {
			return err
		}
		line, err := in.ReadLine()
		if err != nil {
			return err
		}
		if line != "all good" {
			t.Errorf("decoded line mismatch: %q", line)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTextConnection: %v", err)
	}
}

func TestLineFlushBehavior(t *testing.T) {
	path := testsupport.SocketPath(t)
	accepted := testsupport.StartServer(t, path)

	err := ipc.WithTextConnection(path, func(in *ipc.TextReader, out *ipc.TextWriter) error {
		if err := out.WriteString("partial"); err != nil {
			return err
		}
		server := <-accepted

		// No newline written yet, so nothing may be visible server-side.
		_ = server.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		buf := make([]byte, 64)
		if n, err := server.Read(buf); err == nil || n != 0 {
			t.Errorf("expected no bytes before newline, got n=%d err=%v", n, err)
		}

		if err := out.WriteString("\n"); err != nil {
			return err
		}
		_ = server.SetReadDeadline(time.Now().Add(2 * time.Second))
		line := make([]byte, len("partial\n"))
		if _, err := io.ReadFull(server, line); err != nil {
			return err
		}
		if string(line) != "partial\n" {
			t.Errorf("expected full line after newline, got %q", line)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTextConnection: %v", err)
	}
}

func TestExplicitFlushWithoutNewline(t *testing.T) {
	path := testsupport.SocketPath(t)
	accepted := testsupport.StartServer(t, path)

	err := ipc.WithTextConnection(path, func(in *ipc.TextReader, out *ipc.TextWriter) error {
		if err := out.WriteString("no newline"); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return err
		}
		server := <-accepted
		_ = server.SetReadDeadline(time.Now().Add(2 * time.Second))
		buf := make([]byte, len("no newline"))
		if _, err := io.ReadFull(server, buf); err != nil {
			return err
		}
		if string(buf) != "no newline" {
			t.Errorf("expected flushed bytes, got %q", buf)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTextConnection: %v", err)
	}
}

func TestReadInvalidUTF8(t *testing.T) {
	path := testsupport.SocketPath(t)
	accepted := testsupport.StartServer(t, path)

	err := ipc.WithTextConnection(path, func(in *ipc.TextReader, out *ipc.TextWriter) error {
		server := <-accepted
		if _, err := server.Write([]byte{0xff, 0xfe, '\n'}); err != nil {
			return err
		}
		_, err := in.ReadLine()
		return err
	})
	if !errors.Is(err, ipc.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
	if errors.Is(err, ipc.ErrConnectionFailed) {
		t.Fatalf("decode failure must not look like a transport failure: %v", err)
	}
}

func TestWriteInvalidUTF8(t *testing.T) {
	path := testsupport.SocketPath(t)
	testsupport.StartEchoServer(t, path)

	err := ipc.WithTextConnection(path, func(in *ipc.TextReader, out *ipc.TextWriter) error {
		return out.WriteString(string([]byte{'o', 'k', 0xff}))
	})
	if !errors.Is(err, ipc.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestReadLineAtEOF(t *testing.T) {
	path := testsupport.SocketPath(t)
	accepted := testsupport.StartServer(t, path)

	err := ipc.WithTextConnection(path, func(in *ipc.TextReader, out *ipc.TextWriter) error {
		server := <-accepted
		if _, err := server.Write([]byte("unterminated")); err != nil {
			return err
		}
		if err := server.Close(); err != nil {
			return err
		}
		line, err := in.ReadLine()
		if err != nil {
			return err
		}
		if line != "unterminated" {
			t.Errorf("expected final partial line, got %q", line)
		}
		if _, err := in.ReadLine(); !errors.Is(err, io.EOF) {
			t.Errorf("expected io.EOF after final line, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTextConnection: %v", err)
	}
}

func TestReadRune(t *testing.T) {
	path := testsupport.SocketPath(t)
	accepted := testsupport.StartServer(t, path)

	err := ipc.WithTextConnection(path, func(in *ipc.TextReader, out *ipc.TextWriter) error {
		server := <-accepted
		if _, err := server.Write([]byte("⌘x")); err != nil {
			return err
		}
		first, err := in.ReadRune()
		if err != nil {
			return err
		}
		if first != '⌘' {
			t.Errorf("expected ⌘, got %q", first)
		}
		second, err := in.ReadRune()
		if err != nil {
			return err
		}
		if second != 'x' {
			t.Errorf("expected x, got %q", second)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTextConnection: %v", err)
	}
}

func TestTextConnectionPropagatesDialFailure(t *testing.T) {
	path := testsupport.SocketPath(t)
	err := ipc.WithTextConnection(path, func(in *ipc.TextReader, out *ipc.TextWriter) error {
		t.Error("body must not run when dial fails")
		return nil
	})
	if !errors.Is(err, ipc.ErrConnectionFailed) {
		t.Fatalf("expected ErrConnectionFailed, got %v", err)
	}
}
