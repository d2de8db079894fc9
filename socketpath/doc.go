// Package socketpath derives the filesystem location of the server's Unix
// domain socket from a log directory.
//
// Server and client never exchange the socket path directly: both sides
// compute it from the same convention, so the derivation here must stay
// bit-for-bit identical to the server's. The log directory is hashed rather
// than embedded because Unix socket paths are capped at roughly 100 bytes
// on common platforms and project directories routinely exceed that.
package socketpath
