// Package keys implements the account key hierarchy: a spending key derived
// from a seed, the proof-generation key delegated to provers, the decryption
// key for incoming ciphertexts, and the public encryption key that serves as
// the account address. Every derivation step is deterministic.
package keys

import (
	"math/big"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"

	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/util"
)

const (
	// tagSpendingKey domain-separates the seed PRF.
	tagSpendingKey = "zech_sk"
	// tagDecryptionKey domain-separates the proof-generation-key hash.
	tagDecryptionKey = "zech_bdk"

	// SeedSize is the recommended seed length for new accounts.
	SeedSize = 32
)

// SpendingKey is the root secret of an account; the only value a user has to
// back up.
type SpendingKey struct {
	s *big.Int
}

// NewSpendingKey derives a spending key from an arbitrary-length seed: a
// 512-bit domain-separated BLAKE2b digest reduced into the scalar field.
func NewSpendingKey(seed []byte) *SpendingKey {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(tagSpendingKey))
	h.Write(seed)
	return &SpendingKey{s: jubjub.ToUniform(h.Sum(nil))}
}

// NewRandomSpendingKey derives a spending key from a fresh random seed. The
// seed is not recoverable; callers that need a backup must generate the seed
// themselves and hold on to it.
func NewRandomSpendingKey() *SpendingKey {
	return NewSpendingKey(util.RandomBytes(SeedSize))
}

// SpendingKeyFromScalar wraps an existing scalar as a spending key.
func SpendingKeyFromScalar(s *big.Int) *SpendingKey {
	return &SpendingKey{s: new(big.Int).Mod(s, jubjub.Order())}
}

// Scalar returns the underlying secret scalar.
func (sk *SpendingKey) Scalar() *big.Int {
	return new(big.Int).Set(sk.s)
}

// ProofGenerationKey returns sk * G_spend, the long-term signature verifying
// key. Sharing it delegates the ability to build proofs for the account
// without the ability to spend.
func (sk *SpendingKey) ProofGenerationKey() *ProofGenerationKey {
	return &ProofGenerationKey{
		point: new(jubjub.Point).ScalarMul(jubjub.GeneratorSpend(), sk.s),
	}
}

// RandomizedSigningKey returns sk + alpha, the per-transaction RedDSA signing
// key bound to the randomized verifying key by the same alpha.
func (sk *SpendingKey) RandomizedSigningKey(alpha *big.Int) *big.Int {
	rsk := new(big.Int).Add(sk.s, alpha)
	return rsk.Mod(rsk, jubjub.Order())
}

// ProofGenerationKey is the delegated proving key sk * G_spend.
type ProofGenerationKey struct {
	point *jubjub.Point
}

// ProofGenerationKeyFromBytes decodes a compressed proof-generation key.
func ProofGenerationKeyFromBytes(buf []byte) (*ProofGenerationKey, error) {
	p := jubjub.New()
	if err := p.UnmarshalChecked(buf); err != nil {
		return nil, err
	}
	return &ProofGenerationKey{point: p}, nil
}

// Point returns the underlying group element.
func (pgk *ProofGenerationKey) Point() *jubjub.Point {
	return new(jubjub.Point).Set(pgk.point)
}

// Bytes returns the compressed encoding.
func (pgk *ProofGenerationKey) Bytes() []byte {
	return pgk.point.Marshal()
}

// DecryptionKey hashes the compressed proof-generation key with the bdk tag,
// clears the top three bits of the last byte and interprets the result as a
// little-endian integer, reduced into the scalar field.
func (pgk *ProofGenerationKey) DecryptionKey() *DecryptionKey {
	h, err := blake2s.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(tagDecryptionKey))
	h.Write(pgk.point.Marshal())
	digest := h.Sum(nil)
	digest[31] &= 0x1f

	v := new(big.Int)
	for i := len(digest) - 1; i >= 0; i-- {
		v.Lsh(v, 8)
		v.Or(v, big.NewInt(int64(digest[i])))
	}
	v.Mod(v, jubjub.Order())
	return &DecryptionKey{s: v}
}

// DecryptionKey decrypts ElGamal ciphertexts addressed to the matching
// encryption key, and derives the per-epoch nonce dec * g_epoch.
type DecryptionKey struct {
	s *big.Int
}

// DecryptionKeyFromScalar wraps an existing scalar.
func DecryptionKeyFromScalar(s *big.Int) *DecryptionKey {
	return &DecryptionKey{s: new(big.Int).Mod(s, jubjub.Order())}
}

// Scalar returns the underlying secret scalar.
func (dk *DecryptionKey) Scalar() *big.Int {
	return new(big.Int).Set(dk.s)
}

// EncryptionKey returns dec * G_div, the public account address.
func (dk *DecryptionKey) EncryptionKey() *EncryptionKey {
	return &EncryptionKey{
		point: new(jubjub.Point).ScalarMul(jubjub.GeneratorDiv(), dk.s),
	}
}

// Nonce returns dec * gEpoch, the replay-protection nonce for the epoch the
// point belongs to.
func (dk *DecryptionKey) Nonce(gEpoch *jubjub.Point) *jubjub.Point {
	return new(jubjub.Point).ScalarMul(gEpoch, dk.s)
}

// EncryptionKey is the public address of an account; anyone holding it can
// pay the account.
type EncryptionKey struct {
	point *jubjub.Point
}

// EncryptionKeyFromBytes decodes a compressed encryption key, rejecting the
// identity and points outside the prime-order subgroup.
func EncryptionKeyFromBytes(buf []byte) (*EncryptionKey, error) {
	p := jubjub.New()
	if err := p.UnmarshalChecked(buf); err != nil {
		return nil, err
	}
	return &EncryptionKey{point: p}, nil
}

// EncryptionKeyFromPoint wraps an existing prime-subgroup point.
func EncryptionKeyFromPoint(p *jubjub.Point) *EncryptionKey {
	return &EncryptionKey{point: new(jubjub.Point).Set(p)}
}

// Point returns the underlying group element.
func (ek *EncryptionKey) Point() *jubjub.Point {
	return new(jubjub.Point).Set(ek.point)
}

// Bytes returns the compressed 32-byte address.
func (ek *EncryptionKey) Bytes() []byte {
	return ek.point.Marshal()
}

// Equal reports whether two encryption keys are the same address.
func (ek *EncryptionKey) Equal(other *EncryptionKey) bool {
	return ek.point.Equal(other.point)
}
