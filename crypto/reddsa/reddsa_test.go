package reddsa

import (
	"bytes"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/crypto/keys"
)

func testKey(b byte) *big.Int {
	return keys.NewSpendingKey(bytes.Repeat([]byte{b}, 32)).Scalar()
}

func TestSignVerify(t *testing.T) {
	sk := testKey(0x41)
	vk := VerifyingKey(sk)
	msg := []byte("transfer body")

	sig, err := Sign(sk, msg)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, Verify(vk, msg, sig), qt.IsTrue)

	// Wrong message, wrong key.
	qt.Assert(t, Verify(vk, []byte("other body"), sig), qt.IsFalse)
	qt.Assert(t, Verify(VerifyingKey(testKey(0x42)), msg, sig), qt.IsFalse)
}

func TestTamperedSignature(t *testing.T) {
	sk := testKey(0x41)
	vk := VerifyingKey(sk)
	msg := []byte("transfer body")
	sig, err := Sign(sk, msg)
	qt.Assert(t, err, qt.IsNil)

	tampered := *sig
	tampered.S[0] ^= 0x01
	qt.Assert(t, Verify(vk, msg, &tampered), qt.IsFalse)

	tampered = *sig
	tampered.R[0] ^= 0x01
	qt.Assert(t, Verify(vk, msg, &tampered), qt.IsFalse)
}

func TestRejectsOutOfRangeScalar(t *testing.T) {
	sk := testKey(0x41)
	vk := VerifyingKey(sk)
	msg := []byte("transfer body")
	sig, err := Sign(sk, msg)
	qt.Assert(t, err, qt.IsNil)

	bad := *sig
	copy(bad.S[:], jubjub.ScalarToLE(new(big.Int).Sub(jubjub.Order(), big.NewInt(1))))
	bad.S[31] |= 0x80 // push the scalar past the group order
	qt.Assert(t, Verify(vk, msg, &bad), qt.IsFalse)
}

func TestSerializationRoundTrip(t *testing.T) {
	sk := testKey(0x41)
	msg := []byte("transfer body")
	sig, err := Sign(sk, msg)
	qt.Assert(t, err, qt.IsNil)

	raw := sig.Bytes()
	qt.Assert(t, raw, qt.HasLen, SignatureSize)
	decoded, err := SignatureFromBytes(raw)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, Verify(VerifyingKey(sk), msg, decoded), qt.IsTrue)

	_, err = SignatureFromBytes(raw[:63])
	qt.Assert(t, err, qt.IsNotNil)
}

func TestRandomization(t *testing.T) {
	sk := testKey(0x41)
	vk := VerifyingKey(sk)

	alpha, err := RandAlpha()
	qt.Assert(t, err, qt.IsNil)
	rsk := RandomizePrivate(sk, alpha)
	rvk := RandomizePublic(vk, alpha)

	// The randomized pair is consistent and unlinkable from the original.
	qt.Assert(t, VerifyingKey(rsk).Equal(rvk), qt.IsTrue)
	qt.Assert(t, rvk.Equal(vk), qt.IsFalse)

	msg := []byte("randomized transfer body")
	sig, err := Sign(rsk, msg)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, Verify(rvk, msg, sig), qt.IsTrue)
	qt.Assert(t, Verify(vk, msg, sig), qt.IsFalse)
}

func TestBatchVerify(t *testing.T) {
	var entries []BatchEntry
	for i := byte(0); i < 4; i++ {
		sk := testKey(0x10 + i)
		msg := []byte{0xaa, i}
		sig, err := Sign(sk, msg)
		qt.Assert(t, err, qt.IsNil)
		entries = append(entries, BatchEntry{
			VerifyingKey: VerifyingKey(sk),
			Message:      msg,
			Signature:    sig,
		})
	}
	qt.Assert(t, BatchVerify(entries), qt.IsTrue)
	qt.Assert(t, BatchVerify(nil), qt.IsTrue)

	// A single tampered entry fails the whole batch.
	entries[2].Signature.S[0] ^= 0x01
	qt.Assert(t, BatchVerify(entries), qt.IsFalse)
	entries[2].Signature.S[0] ^= 0x01
	qt.Assert(t, BatchVerify(entries), qt.IsTrue)

	// A signature that is valid under a different key does not pass for the
	// entry's own key, even on the same message.
	foreign, err := Sign(testKey(0x77), entries[2].Message)
	qt.Assert(t, err, qt.IsNil)
	entries[2].Signature = foreign
	qt.Assert(t, BatchVerify(entries), qt.IsFalse)
}
