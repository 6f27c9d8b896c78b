// Package reddsa implements the re-randomizable Schnorr signature scheme
// that binds a transfer proof to the spender. The signing key can be shifted
// by a secret additive delta, yielding a one-time verifying key that cannot
// be linked to the account's long-term key.
package reddsa

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/zechproject/zech-core/crypto/jubjub"
)

// tagHashToScalar domain-separates the challenge hash.
const tagHashToScalar = "Zcash_RedJubjubH"

const (
	// SignatureSize is the wire size of a signature, R || S.
	SignatureSize = 64
	// randomnessSize is the amount of entropy hashed into the ephemeral
	// scalar alongside the message.
	randomnessSize = 80
)

// Signature is a RedDSA signature: the compressed commitment point R and the
// little-endian response scalar S.
type Signature struct {
	R [32]byte
	S [32]byte
}

// Bytes returns the 64-byte wire form R || S.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 0, SignatureSize)
	out = append(out, sig.R[:]...)
	out = append(out, sig.S[:]...)
	return out
}

// SignatureFromBytes decodes the 64-byte wire form. It does not validate the
// point or scalar; Verify does that.
func SignatureFromBytes(buf []byte) (*Signature, error) {
	if len(buf) != SignatureSize {
		return nil, fmt.Errorf("invalid signature length %d, expected %d", len(buf), SignatureSize)
	}
	sig := &Signature{}
	copy(sig.R[:], buf[:32])
	copy(sig.S[:], buf[32:])
	return sig, nil
}

// hashToScalar is H*: a 512-bit tagged BLAKE2b digest of the concatenated
// parts, reduced into the scalar field.
func hashToScalar(parts ...[]byte) *big.Int {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(tagHashToScalar))
	for _, p := range parts {
		h.Write(p)
	}
	return jubjub.ToUniform(h.Sum(nil))
}

// VerifyingKey returns sk * G_spend.
func VerifyingKey(sk *big.Int) *jubjub.Point {
	return new(jubjub.Point).ScalarMul(jubjub.GeneratorSpend(), sk)
}

// Sign signs msg with the secret scalar sk. The ephemeral scalar is derived
// by hashing fresh entropy together with the message, so a weak RNG degrades
// to a deterministic scheme instead of leaking the key.
func Sign(sk *big.Int, msg []byte) (*Signature, error) {
	t := make([]byte, randomnessSize)
	if _, err := rand.Read(t); err != nil {
		return nil, fmt.Errorf("failed to sample signing entropy: %w", err)
	}
	r := hashToScalar(t, msg)

	rPoint := new(jubjub.Point).ScalarMul(jubjub.GeneratorSpend(), r)
	sig := &Signature{}
	copy(sig.R[:], rPoint.Marshal())

	// S = r + H*(R || M) * sk
	c := hashToScalar(sig.R[:], msg)
	s := new(big.Int).Mul(c, sk)
	s.Add(s, r)
	s.Mod(s, jubjub.Order())
	copy(sig.S[:], jubjub.ScalarToLE(s))
	return sig, nil
}

// Verify reports whether sig is a valid signature on msg under vk. The final
// check is cofactor-cleared: [h] * (R + c*vk - S*G_spend) == 0. Without the
// cofactor multiplication a small-order component smuggled into R would
// forge the scheme.
func Verify(vk *jubjub.Point, msg []byte, sig *Signature) bool {
	rPoint := new(jubjub.Point)
	if err := rPoint.Unmarshal(sig.R[:]); err != nil {
		return false
	}
	s, err := jubjub.ScalarFromLE(sig.S[:])
	if err != nil {
		return false
	}
	c := hashToScalar(sig.R[:], msg)

	acc := new(jubjub.Point).ScalarMul(vk, c)
	acc.Add(acc, rPoint)
	sg := new(jubjub.Point).ScalarMul(jubjub.GeneratorSpend(), s)
	acc.Sub(acc, sg)
	acc.MulByCofactor(acc)
	return acc.IsZero()
}

// BatchEntry is one (verifying key, message, signature) triple for
// BatchVerify.
type BatchEntry struct {
	VerifyingKey *jubjub.Point
	Message      []byte
	Signature    *Signature
}

// BatchVerify checks all entries with a single cofactor-cleared equation,
// weighting each by a fresh random 128-bit coefficient so that invalid
// signatures cannot cancel each other out. It returns false on any bad
// encoding. An empty batch is valid.
func BatchVerify(entries []BatchEntry) bool {
	acc := jubjub.New()
	sAcc := new(big.Int)
	order := jubjub.Order()
	for _, e := range entries {
		rPoint := new(jubjub.Point)
		if err := rPoint.Unmarshal(e.Signature.R[:]); err != nil {
			return false
		}
		s, err := jubjub.ScalarFromLE(e.Signature.S[:])
		if err != nil {
			return false
		}
		z, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
		if err != nil {
			return false
		}
		c := hashToScalar(e.Signature.R[:], e.Message)

		// acc += z * (R + c * vk), sAcc += z * s
		term := new(jubjub.Point).ScalarMul(e.VerifyingKey, c)
		term.Add(term, rPoint)
		term.ScalarMul(term, z)
		acc.Add(acc, term)

		zs := new(big.Int).Mul(z, s)
		sAcc.Add(sAcc, zs)
		sAcc.Mod(sAcc, order)
	}
	sg := new(jubjub.Point).ScalarMul(jubjub.GeneratorSpend(), sAcc)
	acc.Sub(acc, sg)
	acc.MulByCofactor(acc)
	return acc.IsZero()
}

// RandomizePrivate shifts the signing key by alpha: sk' = sk + alpha.
func RandomizePrivate(sk, alpha *big.Int) *big.Int {
	out := new(big.Int).Add(sk, alpha)
	return out.Mod(out, jubjub.Order())
}

// RandomizePublic shifts the verifying key by the matching delta:
// vk' = vk + alpha * G_spend. Signatures produced under sk + alpha verify
// under the shifted key.
func RandomizePublic(vk *jubjub.Point, alpha *big.Int) *jubjub.Point {
	shift := new(jubjub.Point).ScalarMul(jubjub.GeneratorSpend(), alpha)
	return new(jubjub.Point).Add(vk, shift)
}

// RandAlpha samples the re-randomization delta.
func RandAlpha() (*big.Int, error) {
	a, err := jubjub.RandScalar()
	if err != nil {
		return nil, fmt.Errorf("failed to sample randomization delta: %w", err)
	}
	return a, nil
}
