package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptKey(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)

	enc, err := EncryptKey(id, "hunter2")
	require.NoError(t, err)
	assert.Greater(t, len(enc), SaltLen+NonceLen+PrivateKeyLen)

	got, err := DecryptKey(enc, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, id.Principal().String(), got.Principal().String())
}

func TestDecryptKeyWrongPassword(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)
	enc, err := EncryptKey(id, "right")
	require.NoError(t, err)

	_, err = DecryptKey(enc, "wrong")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptKeyTruncated(t *testing.T) {
	_, err := DecryptKey([]byte{1, 2, 3}, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEncryptKeyRejectsEmptyPassword(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)
	_, err = EncryptKey(id, "")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = EncryptKey(nil, "pw")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestKeyFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "identity.enc")
	id, err := Generate()
	require.NoError(t, err)

	require.NoError(t, SaveKeyFile(path, id, "pw"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := LoadKeyFile(path, "pw")
	require.NoError(t, err)
	assert.True(t, id.Principal().Equal(got.Principal()))
}

func TestLoadKeyFileMissing(t *testing.T) {
	_, err := LoadKeyFile(filepath.Join(t.TempDir(), "missing.enc"), "pw")
	assert.ErrorIs(t, err, ErrKeyFileNotFound)
}
