package identity

import (
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// PrivateKeyLen is the length of a serialized secp256k1 private key.
const PrivateKeyLen = 32

// Identity is a signing key together with the principal derived from it.
type Identity struct {
	key       *ec.PrivateKey
	principal Principal
}

// Generate creates a new random identity.
func Generate() (*Identity, error) {
	key, err := ec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("identity: generate key: %w", err)
	}
	return fromKey(key), nil
}

// FromPrivateKey restores an identity from a 32-byte private key.
func FromPrivateKey(b []byte) (*Identity, error) {
	if len(b) != PrivateKeyLen {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d", ErrInvalidKey, PrivateKeyLen, len(b))
	}
	zero := true
	for _, c := range b {
		if c != 0 {
			zero = false
			break
		}
	}
	if zero {
		return nil, fmt.Errorf("%w: private key is zero", ErrInvalidKey)
	}
	key, _ := ec.PrivateKeyFromBytes(b)
	return fromKey(key), nil
}

func fromKey(key *ec.PrivateKey) *Identity {
	return &Identity{
		key:       key,
		principal: SelfAuthenticating(key.PubKey().Compressed()),
	}
}

// Principal returns the self-authenticating principal of the identity.
func (id *Identity) Principal() Principal { return id.principal }

// PublicKey returns the 33-byte compressed public key.
func (id *Identity) PublicKey() []byte { return id.key.PubKey().Compressed() }

// PublicKeyHex returns the compressed public key as hex.
func (id *Identity) PublicKeyHex() string { return hex.EncodeToString(id.PublicKey()) }

// Sign returns a DER-encoded ECDSA signature over SHA-256(msg).
func (id *Identity) Sign(msg []byte) ([]byte, error) {
	sig, err := id.key.Sign(bsvhash.Sha256(msg))
	if err != nil {
		return nil, fmt.Errorf("identity: sign: %w", err)
	}
	return sig.Serialize(), nil
}

func (id *Identity) privateKeyBytes() []byte { return id.key.Serialize() }

// VerifySignature checks a DER signature produced by Sign.
func VerifySignature(pubKey, msg, sig []byte) error {
	pub, err := ec.PublicKeyFromBytes(pubKey)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	s, err := ec.ParseDERSignature(sig)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	if !s.Verify(bsvhash.Sha256(msg), pub) {
		return ErrBadSignature
	}
	return nil
}
