// Package gadgets provides the in-circuit building blocks of the transfer
// circuits: windowed fixed-base multiplication over the named generators,
// 32-bit range checks, point equality and selection, small-order rejection
// and one-hot indicator vectors.
package gadgets

import (
	"math/big"
	"sync"

	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/math/bits"

	"github.com/zechproject/zech-core/circuits"
	"github.com/zechproject/zech-core/crypto/jubjub"
)

const (
	// scalarBits covers the full subgroup order (251.86 bits).
	scalarBits = 252
	windowSize = 4
	numWindows = scalarBits / windowSize
)

// FixedBase identifies one of the named protocol generators.
type FixedBase int

const (
	BaseDiv FixedBase = iota
	BaseSpend
	BaseNote
)

// Curve returns the in-circuit form of the embedded curve.
func Curve(api frontend.API) (twistededwards.Curve, error) {
	return twistededwards.NewEdCurve(api, tedwards.BLS12_381)
}

// fixedBaseTable holds, per generator, the multiples [j * 2^(4i)] * G for
// every window i and nibble j. Built lazily on first use.
var (
	fixedBaseTables   [3][][16][2]*big.Int
	fixedBaseTableOne sync.Once
)

func buildTable(g *jubjub.Point) [][16][2]*big.Int {
	table := make([][16][2]*big.Int, numWindows)
	for i := range numWindows {
		table[i][0] = [2]*big.Int{big.NewInt(0), big.NewInt(1)}
		windowMultiplier := new(big.Int).Lsh(big.NewInt(1), uint(windowSize*i))
		for j := 1; j < 16; j++ {
			scalar := new(big.Int).Mul(big.NewInt(int64(j)), windowMultiplier)
			p := new(jubjub.Point).ScalarMul(g, scalar)
			x, y := p.XY()
			table[i][j] = [2]*big.Int{x, y}
		}
	}
	return table
}

func table(base FixedBase) [][16][2]*big.Int {
	fixedBaseTableOne.Do(func() {
		fixedBaseTables[BaseDiv] = buildTable(jubjub.GeneratorDiv())
		fixedBaseTables[BaseSpend] = buildTable(jubjub.GeneratorSpend())
		fixedBaseTables[BaseNote] = buildTable(jubjub.GeneratorNote())
	})
	return fixedBaseTables[base]
}

// FixedBaseScalarMul multiplies a named generator by scalar with a 4-bit
// windowed table, selecting each window's contribution through two levels
// of Lookup2. The scalar is constrained to 252 bits by the decomposition.
func FixedBaseScalarMul(api frontend.API, curve twistededwards.Curve, base FixedBase, scalar frontend.Variable) twistededwards.Point {
	tbl := table(base)
	digits := bits.ToBinary(api, scalar, bits.WithNbDigits(scalarBits))

	res := twistededwards.Point{X: 0, Y: 1}
	for i := range numWindows {
		b := digits[i*windowSize : (i+1)*windowSize]

		var xs, ys [16]frontend.Variable
		for j := 0; j < 16; j++ {
			xs[j] = tbl[i][j][0]
			ys[j] = tbl[i][j][1]
		}
		px0 := api.Lookup2(b[0], b[1], xs[0], xs[1], xs[2], xs[3])
		px1 := api.Lookup2(b[0], b[1], xs[4], xs[5], xs[6], xs[7])
		px2 := api.Lookup2(b[0], b[1], xs[8], xs[9], xs[10], xs[11])
		px3 := api.Lookup2(b[0], b[1], xs[12], xs[13], xs[14], xs[15])
		px := api.Lookup2(b[2], b[3], px0, px1, px2, px3)

		py0 := api.Lookup2(b[0], b[1], ys[0], ys[1], ys[2], ys[3])
		py1 := api.Lookup2(b[0], b[1], ys[4], ys[5], ys[6], ys[7])
		py2 := api.Lookup2(b[0], b[1], ys[8], ys[9], ys[10], ys[11])
		py3 := api.Lookup2(b[0], b[1], ys[12], ys[13], ys[14], ys[15])
		py := api.Lookup2(b[2], b[3], py0, py1, py2, py3)

		// Table entries are valid points, no on-curve check needed.
		res = curve.Add(res, twistededwards.Point{X: px, Y: py})
	}
	return res
}

// AssertU32 range-checks v to 32 bits. The binary decomposition is exact in
// the field, so no two in-range values alias.
func AssertU32(api frontend.API, v frontend.Variable) {
	bits.ToBinary(api, v, bits.WithNbDigits(circuits.AmountBits))
}

// AssertPointsEqual constrains p and q to the same affine point.
func AssertPointsEqual(api frontend.API, p, q twistededwards.Point) {
	api.AssertIsEqual(p.X, q.X)
	api.AssertIsEqual(p.Y, q.Y)
}

// NegatePoint returns (-x, y).
func NegatePoint(api frontend.API, p twistededwards.Point) twistededwards.Point {
	return twistededwards.Point{X: api.Neg(p.X), Y: p.Y}
}

// SelectPoint returns p when bit is 1 and the identity otherwise.
func SelectPoint(api frontend.API, bit frontend.Variable, p twistededwards.Point) twistededwards.Point {
	return twistededwards.Point{
		X: api.Select(bit, p.X, 0),
		Y: api.Select(bit, p.Y, 1),
	}
}

// AssertNotSmallOrder constrains p to have a component in the prime-order
// subgroup. Clearing the cofactor by three doublings collapses a small-order
// point to the identity, and the identity is the only prime-subgroup point
// with a zero x-coordinate.
func AssertNotSmallOrder(api frontend.API, curve twistededwards.Curve, p twistededwards.Point) {
	cleared := curve.Double(curve.Double(curve.Double(p)))
	api.AssertIsDifferent(cleared.X, 0)
}
