// Package anonymous implements the circuit proving an anonymous transfer:
// among a ring of keys, one hidden slot sends an amount to one hidden
// recipient slot while every other slot carries an encryption of zero, all
// ciphertexts sharing one nonce so the verifier can credit every slot's
// pending balance uniformly.
package anonymous

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/zechproject/zech-core/circuits"
	"github.com/zechproject/zech-core/circuits/gadgets"
)

// Size is the ring size, sender and recipient included.
const Size = circuits.AnonymitySize

// Circuit is the anonymous transfer statement. The public fields are
// declared in the exact order the verifier rebuilds them.
type Circuit struct {
	Keys     [Size]twistededwards.Point `gnark:",public"`
	L        [Size]twistededwards.Point `gnark:",public"`
	BalanceL [Size]twistededwards.Point `gnark:",public"`
	BalanceR [Size]twistededwards.Point `gnark:",public"`
	R        twistededwards.Point       `gnark:",public"`
	Rvk      twistededwards.Point       `gnark:",public"`
	GEpoch   twistededwards.Point       `gnark:",public"`
	Nonce    twistededwards.Point       `gnark:",public"`

	SenderBits    [Size]frontend.Variable
	RecipientBits [Size]frontend.Variable
	Amount        frontend.Variable
	Remaining     frontend.Variable
	Randomness    frontend.Variable
	Alpha         frontend.Variable
	Dec           frontend.Variable
	Pgk           twistededwards.Point
}

// Define declares the circuit's constraints.
func (c *Circuit) Define(api frontend.API) error {
	curve, err := gadgets.Curve(api)
	if err != nil {
		return err
	}

	gadgets.AssertU32(api, c.Amount)
	gadgets.AssertU32(api, c.Remaining)

	// One-hot sender and recipient indicators over the ring.
	senderBits := gadgets.Binary(c.SenderBits[:])
	recipientBits := gadgets.Binary(c.RecipientBits[:])
	senderBits.AssertOneHot(api)
	recipientBits.AssertOneHot(api)
	// The slots must differ. With a shared slot the xor and nor constraints
	// below turn vacuous and the ring slot could receive the amount without
	// any slot paying it.
	senderBits.AssertDisjoint(api, recipientBits)

	// The hidden sender slot is bound to the secret decryption key.
	encSender := senderBits.Fold(api, curve, c.Keys[:])
	gadgets.AssertPointsEqual(api, encSender,
		gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseDiv, c.Dec))

	// Shared ElGamal randomness applied to every ring key.
	shared := make([]twistededwards.Point, Size)
	for i := range shared {
		shared[i] = curve.ScalarMul(c.Keys[i], c.Randomness)
	}

	// The recipient slot carries the amount.
	amountG := gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseDiv, c.Amount)
	foldL := recipientBits.Fold(api, curve, c.L[:])
	foldShared := recipientBits.Fold(api, curve, shared)
	gadgets.AssertPointsEqual(api, foldL, curve.Add(amountG, foldShared))

	// Every decoy slot carries an encryption of zero.
	senderBits.Nor(api, recipientBits).ConditionallyEquals(api, c.L[:], shared)

	// Sender and recipient slots cancel each other's amount, which pins the
	// sender slot to the negated amount under the shared R.
	xor := senderBits.Xor(api, recipientBits)
	gadgets.AssertPointsEqual(api,
		xor.Fold(api, curve, c.L[:]),
		xor.Fold(api, curve, shared))

	gadgets.AssertPointsEqual(api, c.R,
		gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseDiv, c.Randomness))

	// Balance equation over the sender slot only: the confirmed balance
	// plus the negated outgoing ciphertext decrypts to remaining.
	balancePlusL := make([]twistededwards.Point, Size)
	for i := range balancePlusL {
		balancePlusL[i] = curve.Add(c.BalanceL[i], c.L[i])
	}
	lhs := senderBits.Fold(api, curve, balancePlusL)
	foldBalanceR := senderBits.Fold(api, curve, c.BalanceR[:])
	remainingG := gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseDiv, c.Remaining)
	rhs := curve.Add(remainingG, curve.ScalarMul(curve.Add(foldBalanceR, c.R), c.Dec))
	gadgets.AssertPointsEqual(api, lhs, rhs)

	// Spend authority and replay protection.
	curve.AssertIsOnCurve(c.Pgk)
	gadgets.AssertNotSmallOrder(api, curve, c.Pgk)
	alphaG := gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseSpend, c.Alpha)
	rvk := curve.Add(c.Pgk, alphaG)
	gadgets.AssertNotSmallOrder(api, curve, rvk)
	gadgets.AssertPointsEqual(api, c.Rvk, rvk)

	curve.AssertIsOnCurve(c.GEpoch)
	gadgets.AssertPointsEqual(api, c.Nonce, curve.ScalarMul(c.GEpoch, c.Dec))
	return nil
}
