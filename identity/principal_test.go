package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWellKnownPrincipals(t *testing.T) {
	assert.Equal(t, "2vxsx-fae", Anonymous().String())
	assert.Equal(t, "aaaaa-aa", Principal{}.String())
	assert.True(t, Anonymous().IsAnonymous())
	assert.False(t, Principal{0x01}.IsAnonymous())
}

func TestParsePrincipalWellKnown(t *testing.T) {
	p, err := ParsePrincipal("2vxsx-fae")
	require.NoError(t, err)
	assert.True(t, p.IsAnonymous())

	mgmt, err := ParsePrincipal("aaaaa-aa")
	require.NoError(t, err)
	assert.Empty(t, mgmt)
}

func TestParsePrincipalCanisterID(t *testing.T) {
	const ledgerCanister = "ryjl3-tyaaa-aaaaa-aaaba-cai"
	p, err := ParsePrincipal(ledgerCanister)
	require.NoError(t, err)
	assert.Len(t, p, 10)
	assert.Equal(t, ledgerCanister, p.String())
}

func TestPrincipalRoundTrip(t *testing.T) {
	for n := 0; n <= MaxPrincipalLen; n++ {
		raw := make(Principal, n)
		for i := range raw {
			raw[i] = byte(i*7 + n)
		}
		text := raw.String()
		got, err := ParsePrincipal(text)
		require.NoError(t, err, "len %d text %s", n, text)
		assert.True(t, raw.Equal(got), "len %d", n)

		upper, err := ParsePrincipal(strings.ToUpper(text))
		require.NoError(t, err)
		assert.True(t, raw.Equal(upper))
	}
}

func TestParsePrincipalErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"not base32", "!!!!!-!!"},
		{"too short", "aa"},
		{"bad checksum", "2vxsx-faa"},
		{"bad grouping", "2vxs-xfae"},
		{"hex digest", "abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrincipal(tt.text)
			assert.ErrorIs(t, err, ErrInvalidPrincipal)
		})
	}
}

func TestSelfAuthenticating(t *testing.T) {
	pub := []byte{0x02, 0x01, 0x02, 0x03}
	p := SelfAuthenticating(pub)
	assert.Len(t, p, 29)
	assert.Equal(t, byte(tagSelfAuthenticating), p[len(p)-1])
	assert.True(t, p.Equal(SelfAuthenticating(pub)))
	assert.False(t, p.Equal(SelfAuthenticating([]byte{0x03})))
	assert.Len(t, p.String(), 63)
	assert.True(t, strings.HasSuffix(p.String(), "e"), p.String())
}
