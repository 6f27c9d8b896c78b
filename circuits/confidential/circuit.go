// Package confidential implements the circuit proving a confidential
// transfer: the published ciphertexts encrypt the same amount for sender
// and recipient under a shared nonce, the sender knows the decryption key
// of the revealed sender address, and the sender's confirmed balance covers
// amount plus fee.
package confidential

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/zechproject/zech-core/circuits/gadgets"
)

// Circuit is the confidential transfer statement. The public fields are
// declared in the exact order the verifier rebuilds them; each point
// contributes its two affine coordinates.
type Circuit struct {
	EncSender    twistededwards.Point `gnark:",public"`
	EncRecipient twistededwards.Point `gnark:",public"`
	LSender      twistededwards.Point `gnark:",public"`
	LRecipient   twistededwards.Point `gnark:",public"`
	R            twistededwards.Point `gnark:",public"`
	LFee         twistededwards.Point `gnark:",public"`
	BalanceL     twistededwards.Point `gnark:",public"`
	BalanceR     twistededwards.Point `gnark:",public"`
	Rvk          twistededwards.Point `gnark:",public"`
	GEpoch       twistededwards.Point `gnark:",public"`
	Nonce        twistededwards.Point `gnark:",public"`

	Amount     frontend.Variable
	Fee        frontend.Variable
	Remaining  frontend.Variable
	Randomness frontend.Variable
	Alpha      frontend.Variable
	Dec        frontend.Variable
	Pgk        twistededwards.Point
}

// Define declares the circuit's constraints.
func (c *Circuit) Define(api frontend.API) error {
	curve, err := gadgets.Curve(api)
	if err != nil {
		return err
	}

	// Amounts must not wrap in the field.
	gadgets.AssertU32(api, c.Amount)
	gadgets.AssertU32(api, c.Fee)
	gadgets.AssertU32(api, c.Remaining)

	// The revealed sender address is bound to the secret decryption key.
	encSender := gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseDiv, c.Dec)
	gadgets.AssertPointsEqual(api, c.EncSender, encSender)

	// The recipient key is witnessed, not derived, so it has to be vetted
	// inside the circuit.
	curve.AssertIsOnCurve(c.EncRecipient)
	gadgets.AssertNotSmallOrder(api, curve, c.EncRecipient)

	// Encryption integrity with a shared R: the amount encrypts to both
	// parties and the fee to the sender under one nonce.
	amountG := gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseDiv, c.Amount)
	feeG := gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseDiv, c.Fee)
	sharedSender := curve.ScalarMul(c.EncSender, c.Randomness)
	sharedRecipient := curve.ScalarMul(c.EncRecipient, c.Randomness)
	gadgets.AssertPointsEqual(api, c.LSender, curve.Add(amountG, sharedSender))
	gadgets.AssertPointsEqual(api, c.LRecipient, curve.Add(amountG, sharedRecipient))
	gadgets.AssertPointsEqual(api, c.LFee, curve.Add(feeG, sharedSender))
	gadgets.AssertPointsEqual(api, c.R,
		gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseDiv, c.Randomness))

	// Balance equation: pre-balance minus amount minus fee equals the
	// remaining balance, under ElGamal. The two dec*R terms on the left
	// cancel the randomness of L_sender and L_fee on the right.
	decR := curve.ScalarMul(c.R, c.Dec)
	lhs := curve.Add(c.BalanceL, curve.Double(decR))
	remainingG := gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseDiv, c.Remaining)
	decBalanceR := curve.ScalarMul(c.BalanceR, c.Dec)
	rhs := curve.Add(curve.Add(remainingG, decBalanceR), curve.Add(c.LSender, c.LFee))
	gadgets.AssertPointsEqual(api, lhs, rhs)

	// Spend authority: rvk is the proof-generation key shifted by alpha.
	curve.AssertIsOnCurve(c.Pgk)
	gadgets.AssertNotSmallOrder(api, curve, c.Pgk)
	alphaG := gadgets.FixedBaseScalarMul(api, curve, gadgets.BaseSpend, c.Alpha)
	rvk := curve.Add(c.Pgk, alphaG)
	gadgets.AssertNotSmallOrder(api, curve, rvk)
	gadgets.AssertPointsEqual(api, c.Rvk, rvk)

	// Replay protection: the nonce is bound to the epoch and the dec key.
	curve.AssertIsOnCurve(c.GEpoch)
	nonce := curve.ScalarMul(c.GEpoch, c.Dec)
	gadgets.AssertPointsEqual(api, c.Nonce, nonce)
	return nil
}
