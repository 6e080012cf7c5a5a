package identity

import "errors"

var (
	// ErrInvalidPrincipal indicates a textual principal failed to decode or its checksum did not match.
	ErrInvalidPrincipal = errors.New("identity: invalid principal")

	// ErrInvalidKey indicates private or public key bytes are malformed.
	ErrInvalidKey = errors.New("identity: invalid key")

	// ErrBadSignature indicates a signature did not verify against the message and public key.
	ErrBadSignature = errors.New("identity: signature verification failed")

	// ErrKeyFileNotFound indicates the identity key file does not exist.
	ErrKeyFileNotFound = errors.New("identity: key file not found")

	// ErrDecryptionFailed indicates wrong password or corrupted key file data.
	ErrDecryptionFailed = errors.New("identity: key decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates key checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("identity: key checksum mismatch")

	// ErrEmptyPassword indicates an empty password was supplied for key encryption.
	ErrEmptyPassword = errors.New("identity: password is required")
)
