package identity

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for key file encryption.
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // 64 MB
	Argon2Parallelism = 4
	Argon2KeyLen      = 32

	// Encryption format sizes.
	SaltLen     = 16
	NonceLen    = 12
	ChecksumLen = 4
)

// EncryptKey encrypts the identity's private key with Argon2id + AES-256-GCM.
//
// Output format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, key||checksum)
//
// The checksum is SHA256(key)[:4].
func EncryptKey(id *Identity, password string) ([]byte, error) {
	if id == nil {
		return nil, fmt.Errorf("%w: nil identity", ErrInvalidKey)
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("identity: generate salt: %w", err)
	}
	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	key := id.privateKeyBytes()
	sum := sha256.Sum256(key)
	plaintext := make([]byte, 0, len(key)+ChecksumLen)
	plaintext = append(plaintext, key...)
	plaintext = append(plaintext, sum[:ChecksumLen]...)

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("identity: generate nonce: %w", err)
	}

	out := make([]byte, 0, SaltLen+NonceLen+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// DecryptKey reverses EncryptKey.
func DecryptKey(encrypted []byte, password string) (*Identity, error) {
	if len(encrypted) < SaltLen+NonceLen+ChecksumLen {
		return nil, ErrDecryptionFailed
	}
	salt := encrypted[:SaltLen]
	nonce := encrypted[SaltLen : SaltLen+NonceLen]
	ciphertext := encrypted[SaltLen+NonceLen:]

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil || len(plaintext) < ChecksumLen {
		return nil, ErrDecryptionFailed
	}

	key := plaintext[:len(plaintext)-ChecksumLen]
	sum := sha256.Sum256(key)
	if subtle.ConstantTimeCompare(plaintext[len(key):], sum[:ChecksumLen]) != 1 {
		return nil, ErrChecksumMismatch
	}
	return FromPrivateKey(key)
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	derived := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)
	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("identity: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("identity: GCM creation failed: %w", err)
	}
	return gcm, nil
}

// SaveKeyFile encrypts id and writes it to path, creating parent directories.
func SaveKeyFile(path string, id *Identity, password string) error {
	data, err := EncryptKey(id, password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("identity: create key directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("identity: write key file: %w", err)
	}
	return nil
}

// LoadKeyFile reads and decrypts the identity stored at path.
func LoadKeyFile(path, password string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrKeyFileNotFound, path)
		}
		return nil, fmt.Errorf("identity: read key file: %w", err)
	}
	return DecryptKey(data, password)
}
