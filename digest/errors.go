package digest

import "errors"

var (
	// ErrRead indicates the byte source could not be fully consumed.
	ErrRead = errors.New("digest: read failed")

	// ErrInvalidDigest indicates a string is not a 64-character hex digest.
	ErrInvalidDigest = errors.New("digest: invalid hex digest")
)
