// Package circuits holds the constants and witness types shared by the
// transfer circuits.
package circuits

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/crypto/jubjub"
)

const (
	// AnonymitySize is the number of keys in an anonymous transfer ring,
	// sender and recipient included.
	AnonymitySize = 11
	// AmountBits is the bit width of amounts, fees and remaining balances.
	AmountBits = 32
	// SerializedFieldSize is the byte size of one base-field element.
	SerializedFieldSize = 32
)

// WitnessPoint converts a native curve point into its in-circuit affine
// form.
func WitnessPoint(p *jubjub.Point) twistededwards.Point {
	x, y := p.XY()
	return twistededwards.Point{X: x, Y: y}
}

// WitnessIdentity returns the in-circuit identity point.
func WitnessIdentity() twistededwards.Point {
	return twistededwards.Point{X: 0, Y: 1}
}

// WitnessCiphertext converts a native ciphertext into its in-circuit point
// pair. A nil ciphertext converts to the identity pair.
func WitnessCiphertext(c *elgamal.Ciphertext) (l, r twistededwards.Point) {
	if c == nil {
		return WitnessIdentity(), WitnessIdentity()
	}
	return WitnessPoint(c.L), WitnessPoint(c.R)
}

// FrontendError logs the error inside the circuit and makes it
// unsatisfiable.
func FrontendError(api frontend.API, msg string, trace error) {
	err := fmt.Errorf("%s", msg)
	if trace != nil {
		err = fmt.Errorf("%w: %v", err, trace)
	}
	api.Println(err.Error())
	api.AssertIsEqual(1, 0)
}
