package keys

import (
	"bytes"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/zechproject/zech-core/crypto/jubjub"
)

func seed(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func TestDerivationDeterministic(t *testing.T) {
	skA := NewSpendingKey(seed(0x41))
	skB := NewSpendingKey(seed(0x41))
	qt.Assert(t, skA.Scalar().Cmp(skB.Scalar()), qt.Equals, 0)

	ekA := skA.ProofGenerationKey().DecryptionKey().EncryptionKey()
	ekB := skB.ProofGenerationKey().DecryptionKey().EncryptionKey()
	qt.Assert(t, ekA.Equal(ekB), qt.IsTrue)

	// A different seed must yield a different address.
	ekC := NewSpendingKey(seed(0x42)).ProofGenerationKey().DecryptionKey().EncryptionKey()
	qt.Assert(t, ekA.Equal(ekC), qt.IsFalse)
}

func TestRandomSpendingKeysAreDistinct(t *testing.T) {
	skA := NewRandomSpendingKey()
	skB := NewRandomSpendingKey()
	qt.Assert(t, skA.Scalar().Cmp(skB.Scalar()), qt.Not(qt.Equals), 0)
}

func TestDecryptionKeyInField(t *testing.T) {
	for b := byte(0); b < 16; b++ {
		dk := NewSpendingKey(seed(b)).ProofGenerationKey().DecryptionKey()
		qt.Assert(t, dk.Scalar().Cmp(jubjub.Order()) < 0, qt.IsTrue)
		qt.Assert(t, dk.Scalar().Sign() > 0, qt.IsTrue)
	}
}

func TestEncryptionKeyIsValidAddress(t *testing.T) {
	ek := NewSpendingKey(seed(0x41)).ProofGenerationKey().DecryptionKey().EncryptionKey()
	qt.Assert(t, ek.Point().IsZero(), qt.IsFalse)
	qt.Assert(t, ek.Point().InPrimeSubgroup(), qt.IsTrue)

	decoded, err := EncryptionKeyFromBytes(ek.Bytes())
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, decoded.Equal(ek), qt.IsTrue)
}

func TestEncryptionKeyMatchesDecryptionKey(t *testing.T) {
	dk := NewSpendingKey(seed(0x41)).ProofGenerationKey().DecryptionKey()
	expected := new(jubjub.Point).ScalarMul(jubjub.GeneratorDiv(), dk.Scalar())
	qt.Assert(t, dk.EncryptionKey().Point().Equal(expected), qt.IsTrue)
}

func TestProofGenerationKeyIsSigningKey(t *testing.T) {
	sk := NewSpendingKey(seed(0x41))
	expected := new(jubjub.Point).ScalarMul(jubjub.GeneratorSpend(), sk.Scalar())
	qt.Assert(t, sk.ProofGenerationKey().Point().Equal(expected), qt.IsTrue)
}

func TestRandomizedSigningKey(t *testing.T) {
	sk := NewSpendingKey(seed(0x41))
	alpha, err := jubjub.RandScalar()
	qt.Assert(t, err, qt.IsNil)

	rsk := sk.RandomizedSigningKey(alpha)
	expected := new(big.Int).Add(sk.Scalar(), alpha)
	expected.Mod(expected, jubjub.Order())
	qt.Assert(t, rsk.Cmp(expected), qt.Equals, 0)
}

func TestRejectBadEncryptionKey(t *testing.T) {
	_, err := EncryptionKeyFromBytes(jubjub.New().Marshal())
	qt.Assert(t, err, qt.Equals, jubjub.ErrPointInfinity)

	_, err = EncryptionKeyFromBytes(make([]byte, 16))
	qt.Assert(t, err, qt.Equals, jubjub.ErrUnexpectedEOF)
}
