// Package digest computes the content digests used as certificate keys.
//
// A digest is the lowercase hex encoding of SHA-256 over the raw document
// bytes. Identical bytes always produce an identical digest.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

const (
	// Size is the raw digest length in bytes.
	Size = sha256.Size

	// HexLen is the length of a hex-encoded digest.
	HexLen = Size * 2
)

// Sum returns the hex digest of data.
func Sum(data []byte) string {
	return hex.EncodeToString(bsvhash.Sha256(data))
}

// FromReader streams r to EOF and returns its hex digest.
// Any read error is returned wrapped in ErrRead; no partial digest is produced.
func FromReader(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: nil reader", ErrRead)
	}
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FromFile returns the hex digest of the file at path.
func FromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrRead, path)
	}
	return FromReader(f)
}

// Valid reports whether s is a well-formed hex digest (either case).
func Valid(s string) bool {
	if len(s) != HexLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// Normalize trims surrounding whitespace and lowercases s, returning
// ErrInvalidDigest if the result is not a digest.
func Normalize(s string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	if !Valid(n) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDigest, s)
	}
	return n, nil
}
