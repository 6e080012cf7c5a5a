// Package identity models the caller of ledger operations.
//
// A Principal is an opaque byte string with a self-checking textual form:
// lowercase base32 of crc32(bytes) || bytes, split into groups of five
// characters by dashes (for example "2vxsx-fae" for the anonymous caller).
// Self-authenticating principals are derived from a secp256k1 public key.
package identity

import (
	"bytes"
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"
)

const (
	// MaxPrincipalLen is the maximum raw length of a principal.
	MaxPrincipalLen = 29

	tagSelfAuthenticating = 0x02
	tagAnonymous          = 0x04

	groupLen = 5
)

var principalEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is the raw form of a caller or canister identifier.
type Principal []byte

// Anonymous returns the principal used for unauthenticated callers.
func Anonymous() Principal { return Principal{tagAnonymous} }

// SelfAuthenticating derives the principal of a public key:
// SHA-224(pubKey) followed by the self-authenticating tag byte.
func SelfAuthenticating(pubKey []byte) Principal {
	sum := sha256.Sum224(pubKey)
	p := make(Principal, 0, len(sum)+1)
	p = append(p, sum[:]...)
	return append(p, tagSelfAuthenticating)
}

// IsAnonymous reports whether p is the anonymous principal.
func (p Principal) IsAnonymous() bool {
	return len(p) == 1 && p[0] == tagAnonymous
}

// Equal reports whether p and other are the same principal.
func (p Principal) Equal(other Principal) bool { return bytes.Equal(p, other) }

// String returns the canonical textual form.
func (p Principal) String() string {
	buf := make([]byte, 4+len(p))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE(p))
	copy(buf[4:], p)
	enc := strings.ToLower(principalEncoding.EncodeToString(buf))

	var sb strings.Builder
	for i := 0; i < len(enc); i += groupLen {
		if i > 0 {
			sb.WriteByte('-')
		}
		end := i + groupLen
		if end > len(enc) {
			end = len(enc)
		}
		sb.WriteString(enc[i:end])
	}
	return sb.String()
}

// ParsePrincipal decodes a textual principal and verifies its checksum and
// canonical grouping.
func ParsePrincipal(text string) (Principal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPrincipal)
	}
	raw, err := principalEncoding.DecodeString(strings.ToUpper(strings.ReplaceAll(text, "-", "")))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPrincipal, text, err)
	}
	if len(raw) < 4 {
		return nil, fmt.Errorf("%w: %q too short", ErrInvalidPrincipal, text)
	}
	if len(raw)-4 > MaxPrincipalLen {
		return nil, fmt.Errorf("%w: %q exceeds %d bytes", ErrInvalidPrincipal, text, MaxPrincipalLen)
	}

	p := Principal(raw[4:])
	if binary.BigEndian.Uint32(raw[:4]) != crc32.ChecksumIEEE(p) {
		return nil, fmt.Errorf("%w: %q checksum mismatch", ErrInvalidPrincipal, text)
	}
	if p.String() != strings.ToLower(text) {
		return nil, fmt.Errorf("%w: %q is not in canonical form", ErrInvalidPrincipal, text)
	}
	return p, nil
}
