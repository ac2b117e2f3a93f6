// Package keys holds the ed25519 key material used to sign ledger transactions
// and the text encoding of public keys used in authorities.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// PublicKeyPrefix marks the text form of an ed25519 public key.
const PublicKeyPrefix = "PUB_ED25519_"

var (
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidSeed      = errors.New("invalid private key seed")
)

// PublicKey is an ed25519 public key. The zero value is not a valid key.
type PublicKey struct {
	raw [ed25519.PublicKeySize]byte
}

// PrivateKey is an ed25519 signing key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// Generate creates a new random private key.
func Generate() (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("failed to generate key: %w", err)
	}
	return PrivateKey{key: priv}, nil
}

// FromSeed derives a private key from a 32-byte seed.
func FromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return PrivateKey{}, ErrInvalidSeed
	}
	return PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Public returns the public half of the key.
func (k PrivateKey) Public() PublicKey {
	var pub PublicKey
	copy(pub.raw[:], k.key.Public().(ed25519.PublicKey))
	return pub
}

// Sign signs the digest.
func (k PrivateKey) Sign(digest []byte) []byte {
	return ed25519.Sign(k.key, digest)
}

// Verify reports whether sig is a valid signature of digest by pub.
func Verify(pub PublicKey, digest, sig []byte) bool {
	if pub.IsZero() || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub.raw[:], digest, sig)
}

// Parse decodes the text form produced by PublicKey.String.
func Parse(s string) (PublicKey, error) {
	encoded, ok := strings.CutPrefix(s, PublicKeyPrefix)
	if !ok {
		return PublicKey{}, fmt.Errorf("%w: missing %s prefix", ErrInvalidPublicKey, PublicKeyPrefix)
	}
	raw, err := base58.Decode(encoded)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return PublicKey{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPublicKey, ed25519.PublicKeySize, len(raw))
	}
	var pub PublicKey
	copy(pub.raw[:], raw)
	return pub, nil
}

// MustParse is like Parse but panics on error. Used for fixtures.
func MustParse(s string) PublicKey {
	pub, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return pub
}

// IsZero reports whether the key is unset.
func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

// Bytes returns a copy of the raw key bytes.
func (k PublicKey) Bytes() []byte {
	out := make([]byte, len(k.raw))
	copy(out, k.raw[:])
	return out
}

func (k PublicKey) String() string {
	return PublicKeyPrefix + base58.Encode(k.raw[:])
}

// MarshalText implements encoding.TextMarshaler.
func (k PublicKey) MarshalText() ([]byte, error) {
	if k.IsZero() {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidPublicKey)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PublicKey) UnmarshalText(text []byte) error {
	pub, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = pub
	return nil
}
