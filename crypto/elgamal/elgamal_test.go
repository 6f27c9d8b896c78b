package elgamal

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/zechproject/zech-core/crypto/keys"
)

func testKeys(t *testing.T, seedByte byte) (*keys.DecryptionKey, *keys.EncryptionKey) {
	t.Helper()
	dk := keys.NewSpendingKey(bytes.Repeat([]byte{seedByte}, 32)).
		ProofGenerationKey().DecryptionKey()
	return dk, dk.EncryptionKey()
}

func TestEncryptDecrypt(t *testing.T) {
	dk, ek := testKeys(t, 0x41)
	for _, v := range []uint32{0, 1, 42, 999, 1<<20 - 1} {
		r, err := RandNonce()
		qt.Assert(t, err, qt.IsNil)
		c := Encrypt(v, r, ek)

		recovered, ok := Decrypt(c, dk, DefaultBruteBound)
		qt.Assert(t, ok, qt.IsTrue)
		qt.Assert(t, recovered, qt.Equals, uint64(v))
	}
}

func TestDecryptWrongKey(t *testing.T) {
	_, ek := testKeys(t, 0x41)
	otherDk, _ := testKeys(t, 0x42)

	r, err := RandNonce()
	qt.Assert(t, err, qt.IsNil)
	c := Encrypt(7, r, ek)
	_, ok := Decrypt(c, otherDk, 1<<12)
	qt.Assert(t, ok, qt.IsFalse)
}

func TestDecryptBeyondBound(t *testing.T) {
	dk, ek := testKeys(t, 0x41)
	r, err := RandNonce()
	qt.Assert(t, err, qt.IsNil)
	c := Encrypt(5000, r, ek)
	_, ok := Decrypt(c, dk, 1000)
	qt.Assert(t, ok, qt.IsFalse)
}

func TestHomomorphicAddSub(t *testing.T) {
	dk, ek := testKeys(t, 0x41)
	r1, _ := RandNonce()
	r2, _ := RandNonce()

	a := Encrypt(100, r1, ek)
	b := Encrypt(11, r2, ek)

	sum := NewCiphertext().Add(a, b)
	v, ok := Decrypt(sum, dk, DefaultBruteBound)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, v, qt.Equals, uint64(111))

	diff := NewCiphertext().Sub(a, b)
	v, ok = Decrypt(diff, dk, DefaultBruteBound)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, v, qt.Equals, uint64(89))
}

func TestNegEncryptCancels(t *testing.T) {
	dk, ek := testKeys(t, 0x41)
	r1, _ := RandNonce()
	r2, _ := RandNonce()

	pos := Encrypt(50, r1, ek)
	neg := NegEncrypt(20, r2, ek)

	sum := NewCiphertext().Add(pos, neg)
	v, ok := Decrypt(sum, dk, DefaultBruteBound)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, v, qt.Equals, uint64(30))
}

func TestIdentityCiphertext(t *testing.T) {
	dk, ek := testKeys(t, 0x41)
	zero := NewCiphertext()
	qt.Assert(t, zero.IsZero(), qt.IsTrue)

	v, ok := Decrypt(zero, dk, 16)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, v, qt.Equals, uint64(0))

	// identity + c == c
	r, _ := RandNonce()
	c := Encrypt(9, r, ek)
	sum := NewCiphertext().Add(zero, c)
	qt.Assert(t, sum.Equal(c), qt.IsTrue)
}

func TestSerializeRoundTrip(t *testing.T) {
	_, ek := testKeys(t, 0x41)
	r, _ := RandNonce()
	c := Encrypt(123, r, ek)

	wire := c.Serialize()
	qt.Assert(t, len(wire), qt.Equals, 64)

	back := NewCiphertext()
	qt.Assert(t, back.Deserialize(wire), qt.IsNil)
	qt.Assert(t, back.Equal(c), qt.IsTrue)

	qt.Assert(t, back.Deserialize(wire[:32]), qt.IsNotNil)
}

func TestCiphertextJSON(t *testing.T) {
	_, ek := testKeys(t, 0x41)
	r, _ := RandNonce()
	c := Encrypt(77, r, ek)

	data, err := c.MarshalJSON()
	qt.Assert(t, err, qt.IsNil)

	back := NewCiphertext()
	qt.Assert(t, back.UnmarshalJSON(data), qt.IsNil)
	qt.Assert(t, back.Equal(c), qt.IsTrue)
}

func TestSharedRandomness(t *testing.T) {
	// Amount and fee ciphertexts of one transfer share R; their sum must
	// still decrypt correctly.
	dk, ek := testKeys(t, 0x41)
	r, _ := RandNonce()

	amount := Encrypt(10, r, ek)
	fee := Encrypt(1, r, ek)
	qt.Assert(t, amount.R.Equal(fee.R), qt.IsTrue)

	sum := NewCiphertext().Add(amount, fee)
	v, ok := Decrypt(sum, dk, DefaultBruteBound)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, v, qt.Equals, uint64(11))

	// The verifier subtracts (L_a + L_f, 2R) from the sender balance.
	base, _ := RandNonce()
	balance := Encrypt(100, base, ek)
	newBalance := NewCiphertext().Sub(balance, sum)
	v, ok = Decrypt(newBalance, dk, DefaultBruteBound)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, v, qt.Equals, uint64(89))
}
