package socketpath

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// sunPathMax is the capacity of sockaddr_un.sun_path on this platform,
// less the trailing NUL.
var sunPathMax = len(unix.RawSockaddrUnix{}.Path) - 1

// Resolve returns the path of the server socket for the given log
// directory, placed under root. The computation must be kept in sync with
// the server side: both processes derive the path independently and agree
// only through this convention.
//
// The log directory does not have to exist. It is canonicalized as far as
// the filesystem allows and hashed, so the result is stable across calls
// and across processes regardless of which one computes it first.
func Resolve(root, logDirectory string) (string, error) {
	canonical, err := Canonicalize(logDirectory)
	if err != nil {
		return "", err
	}
	digest := md5.Sum([]byte(canonical))
	return filepath.Join(root, fmt.Sprintf("pyre_server_%x.sock", digest)), nil
}

// Canonicalize resolves path to its absolute, symlink-free form without
// requiring it to exist. Symlinks are followed over the longest existing
// prefix; components below that are appended literally.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("canonicalize %s: %w", path, err)
	}
	return resolveExistingPrefix(abs), nil
}

// FitsAddressLimit reports whether path fits in sockaddr_un.sun_path.
// A path over the limit cannot be bound or dialed on this platform, which
// is the condition the digest scheme exists to avoid; callers can use this
// to reject an unsuitable root up front instead of surfacing EINVAL later.
func FitsAddressLimit(path string) bool {
	return len(path) <= sunPathMax
}

func resolveExistingPrefix(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(resolveExistingPrefix(parent), filepath.Base(path))
}

// Exists reports whether a socket file is present at path. It says nothing
// about whether anything is listening; ownership of the file belongs to
// the server.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
