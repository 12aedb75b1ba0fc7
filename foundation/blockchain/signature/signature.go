// Package signature provides the cryptographic primitives the blockchain
// needs: SHA-256 hashing, secp256k1 key generation, and ECDSA sign/verify
// over an explicit public key.
package signature

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// PublicKeySize is the width of an uncompressed SEC1 secp256k1 public key:
// one 0x04 prefix byte plus two 32-byte field elements.
const PublicKeySize = 65

// PrivateKeySize is the width of a raw secp256k1 scalar.
const PrivateKeySize = 32

// HashSize is the width of a SHA-256 digest.
const HashSize = 32

// PublicKey is the wire representation of an account's identity: the
// uncompressed SEC1 encoding of a secp256k1 point. See SPEC_FULL.md §D.1
// for why this module fixes on 65 bytes rather than 33.
type PublicKey [PublicKeySize]byte

// PrivateKey is a raw secp256k1 scalar.
type PrivateKey [PrivateKeySize]byte

// Hash is a SHA-256 digest.
type Hash [HashSize]byte

// String renders the hash as a 0x-prefixed hex string for logs and
// diagnostics, the same way the teacher's merkle and signature packages
// format hashes.
func (h Hash) String() string {
	return hexutil.Encode(h[:])
}

// String renders the public key as a 0x-prefixed hex string.
func (pk PublicKey) String() string {
	return hexutil.Encode(pk[:])
}

// ParsePublicKey decodes a 0x-prefixed hex string produced by PublicKey.String.
func ParsePublicKey(s string) (PublicKey, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return PublicKey{}, err
	}
	if len(b) != PublicKeySize {
		return PublicKey{}, fmt.Errorf("signature: public key must be %d bytes, got %d", PublicKeySize, len(b))
	}

	var pk PublicKey
	copy(pk[:], b)
	return pk, nil
}

// Hash256 returns the SHA-256 digest of data.
func Hash256(data []byte) Hash {
	return sha256.Sum256(data)
}

// GenerateKey produces a fresh secp256k1 key pair using a CSPRNG.
func GenerateKey() (PublicKey, PrivateKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return PublicKey{}, PrivateKey{}, err
	}

	var pub PublicKey
	copy(pub[:], priv.PubKey().SerializeUncompressed())

	var pk PrivateKey
	copy(pk[:], priv.Serialize())

	return pub, pk, nil
}

// SecureRandom returns n cryptographically random bytes.
func SecureRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Sign produces an ECDSA signature over digest using priv. The returned
// bytes are a DER-encoded (R, S) pair of variable length; spec.md §4.1
// stores this length as a bit count alongside the bytes.
func Sign(priv PrivateKey, digest Hash) ([]byte, error) {
	key := secp256k1.PrivKeyFromBytes(priv[:])
	defer key.Zero()

	sig := ecdsa.Sign(key, digest[:])
	return sig.Serialize(), nil
}

// Verify reports whether sig is a valid ECDSA signature over digest by the
// holder of pub's private key.
func Verify(pub PublicKey, digest Hash, sig []byte) bool {
	key, err := secp256k1.ParsePubKey(pub[:])
	if err != nil {
		return false
	}

	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}

	return parsed.Verify(digest[:], key)
}
