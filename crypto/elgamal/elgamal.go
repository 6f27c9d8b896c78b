// Package elgamal implements lifted ElGamal over the Jubjub prime-order
// subgroup. The message is embedded as v * G_div, which makes the scheme
// additively homomorphic: balances are maintained on-chain purely by point
// addition and subtraction of ciphertexts. The price is that decryption has
// to solve a bounded discrete logarithm.
package elgamal

import (
	"fmt"
	"math"
	"math/big"

	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/crypto/keys"
)

// DefaultBruteBound is the exclusive upper bound of the discrete-log search
// used when no deployment-specific bound is configured. Amounts are 32 bits
// on the wire, but a balance only decrypts if it stays below the configured
// bound.
const DefaultBruteBound = 1 << 20

// RandNonce samples the encryption randomness r.
func RandNonce() (*big.Int, error) {
	r, err := jubjub.RandScalar()
	if err != nil {
		return nil, fmt.Errorf("failed to generate encryption randomness: %w", err)
	}
	return r, nil
}

// Encrypt encrypts amount under the public key with randomness r:
// R = r * G_div, L = amount * G_div + r * ek.
func Encrypt(amount uint32, r *big.Int, ek *keys.EncryptionKey) *Ciphertext {
	g := jubjub.GeneratorDiv()
	c := NewCiphertext()
	c.R.ScalarMul(g, r)
	c.L.ScalarMul(g, new(big.Int).SetUint64(uint64(amount)))
	shared := new(jubjub.Point).ScalarMul(ek.Point(), r)
	c.L.Add(c.L, shared)
	return c
}

// NegEncrypt encrypts the negated amount: L = -amount * G_div + r * ek,
// R = r * G_div. A sender uses it for its own slot in an anonymous transfer,
// so that adding the ciphertext to the sender's pending balance subtracts
// the amount.
func NegEncrypt(amount uint32, r *big.Int, ek *keys.EncryptionKey) *Ciphertext {
	g := jubjub.GeneratorDiv()
	c := NewCiphertext()
	c.R.ScalarMul(g, r)
	c.L.ScalarMul(g, new(big.Int).SetUint64(uint64(amount)))
	c.L.Neg(c.L)
	shared := new(jubjub.Point).ScalarMul(ek.Point(), r)
	c.L.Add(c.L, shared)
	return c
}

// EncryptZero returns an encryption of zero under ek, the ciphertext carried
// by decoy slots.
func EncryptZero(r *big.Int, ek *keys.EncryptionKey) *Ciphertext {
	return Encrypt(0, r, ek)
}

// Decrypt recovers the amount from the ciphertext using the decryption key,
// searching [0, bound). It returns false when the embedded value is outside
// the search range. The search is not constant-time; never decrypt where
// timing is observable by an adversary.
func Decrypt(c *Ciphertext, dk *keys.DecryptionKey, bound uint64) (uint64, bool) {
	// M = L - dec * R = v * G_div
	m := new(jubjub.Point).ScalarMul(c.R, dk.Scalar())
	m.Sub(c.L, m)
	return dlog(m, bound)
}

// dlog solves M = x * G_div for x in [0, bound) with baby-step giant-step.
func dlog(m *jubjub.Point, bound uint64) (uint64, bool) {
	if bound == 0 {
		return 0, false
	}
	g := jubjub.GeneratorDiv()
	steps := uint64(math.Sqrt(float64(bound))) + 1

	babySteps := make(map[string]uint64, steps)
	baby := jubjub.New()
	for j := uint64(0); j < steps; j++ {
		babySteps[string(baby.Marshal())] = j
		baby.Add(baby, g)
	}

	// giantStride = -steps * G_div
	giantStride := new(jubjub.Point).ScalarMul(g, new(big.Int).SetUint64(steps))
	giantStride.Neg(giantStride)

	giant := new(jubjub.Point).Set(m)
	for i := uint64(0); i <= steps; i++ {
		if j, found := babySteps[string(giant.Marshal())]; found {
			x := i*steps + j
			if x >= bound {
				return 0, false
			}
			return x, true
		}
		giant.Add(giant, giantStride)
	}
	return 0, false
}
