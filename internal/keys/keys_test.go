package keys

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKey_TextRoundtrip(t *testing.T) {
	priv, err := Generate()
	require.NoError(t, err)

	pub := priv.Public()
	parsed, err := Parse(pub.String())
	require.NoError(t, err)
	assert.Equal(t, pub, parsed)

	raw, err := json.Marshal(struct {
		Key PublicKey `json:"key"`
	}{Key: pub})
	require.NoError(t, err)
	assert.Contains(t, string(raw), PublicKeyPrefix)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{name: "missing prefix", in: "EOS6MRyAjQq8ud7hVNYcfnVPJqcVpscN5So8BhtHuGYqET5GDW5CV"},
		{name: "bad base58", in: PublicKeyPrefix + "0OIl"},
		{name: "short key", in: PublicKeyPrefix + "3mJr7AoUXx2Wqd"},
		{name: "empty", in: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.in)
			assert.ErrorIs(t, err, ErrInvalidPublicKey)
		})
	}
}

func TestSignVerify(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	priv, err := FromSeed(seed)
	require.NoError(t, err)

	other, err := FromSeed(bytes.Repeat([]byte{8}, 32))
	require.NoError(t, err)

	digest := []byte("digest")
	sig := priv.Sign(digest)

	assert.True(t, Verify(priv.Public(), digest, sig))
	assert.False(t, Verify(other.Public(), digest, sig))
	assert.False(t, Verify(priv.Public(), []byte("other"), sig))
	assert.False(t, Verify(PublicKey{}, digest, sig))
}

func TestFromSeed_Deterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{1}, 32)
	a, err := FromSeed(seed)
	require.NoError(t, err)
	b, err := FromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.Public(), b.Public())

	_, err = FromSeed([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidSeed)
}
