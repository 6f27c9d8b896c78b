package gadgets

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
)

// Binary is an ordered vector of boolean wires, used as the one-hot sender
// and recipient indicators of an anonymous transfer.
type Binary []frontend.Variable

// AssertOneHot constrains every entry to a boolean and their sum to one.
func (b Binary) AssertOneHot(api frontend.API) {
	sum := frontend.Variable(0)
	for _, v := range b {
		api.AssertIsBoolean(v)
		sum = api.Add(sum, v)
	}
	api.AssertIsEqual(sum, 1)
}

// AssertDisjoint constrains b and other to never both be 1 at the same
// index.
func (b Binary) AssertDisjoint(api frontend.API, other Binary) {
	for i := range b {
		api.AssertIsEqual(api.Mul(b[i], other[i]), 0)
	}
}

// Xor returns the entrywise exclusive-or with other.
func (b Binary) Xor(api frontend.API, other Binary) Binary {
	out := make(Binary, len(b))
	for i := range b {
		out[i] = api.Xor(b[i], other[i])
	}
	return out
}

// Nor returns the entrywise not-or with other: 1 exactly where both vectors
// are 0.
func (b Binary) Nor(api frontend.API, other Binary) Binary {
	out := make(Binary, len(b))
	for i := range b {
		out[i] = api.Sub(1, api.Or(b[i], other[i]))
	}
	return out
}

// ConditionallyEquals constrains p[i] == q[i] wherever b[i] is 1.
func (b Binary) ConditionallyEquals(api frontend.API, p, q []twistededwards.Point) {
	for i := range b {
		api.AssertIsEqual(api.Mul(b[i], api.Sub(p[i].X, q[i].X)), 0)
		api.AssertIsEqual(api.Mul(b[i], api.Sub(p[i].Y, q[i].Y)), 0)
	}
}

// Fold sums the points whose indicator is 1.
func (b Binary) Fold(api frontend.API, curve twistededwards.Curve, points []twistededwards.Point) twistededwards.Point {
	acc := twistededwards.Point{X: 0, Y: 1}
	for i := range b {
		acc = curve.Add(acc, SelectPoint(api, b[i], points[i]))
	}
	return acc
}
