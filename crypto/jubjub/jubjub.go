// Package jubjub wraps the Jubjub twisted Edwards curve embedded in the
// BLS12-381 scalar field. All protocol points live in the prime-order
// subgroup of cofactor 8; the zero point (0, 1) is the group identity.
package jubjub

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
)

// Errors returned when decoding points and scalars from the wire.
var (
	ErrNotOnCurve    = errors.New("jubjub: encoded y is not on the curve")
	ErrNotInField    = errors.New("jubjub: coordinate is not a canonical field element")
	ErrPointInfinity = errors.New("jubjub: point is the identity")
	ErrUnexpectedEOF = errors.New("jubjub: unexpected end of input")
	ErrTrailingData  = errors.New("jubjub: trailing bytes after encoded element")
)

// PointSize is the length in bytes of a compressed point: the little-endian
// y coordinate with the sign of x in the high bit of the last byte.
const PointSize = 32

// ScalarSize is the length in bytes of a canonical little-endian scalar.
const ScalarSize = 32

// Cofactor of the full Jubjub group over the prime-order subgroup.
const Cofactor = 8

var curveParams twistededwards.CurveParams

func init() {
	curveParams = twistededwards.GetEdwardsCurve()
}

// Order returns the order of the prime subgroup (the Fs modulus).
func Order() *big.Int {
	return new(big.Int).Set(&curveParams.Order)
}

// FieldModulus returns the base field modulus (the Fr modulus, which is also
// the BLS12-381 scalar field over which the circuits are defined).
func FieldModulus() *big.Int {
	return fr.Modulus()
}

// Point is the affine representation of a Jubjub group element.
type Point struct {
	inner twistededwards.PointAffine
}

// New returns a new point set to the group identity.
func New() *Point {
	p := &Point{}
	p.SetZero()
	return p
}

// SetZero sets p to the identity element (0, 1) and returns it.
func (p *Point) SetZero() *Point {
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return p
}

// IsZero reports whether p is the identity element.
func (p *Point) IsZero() bool {
	return p.inner.X.IsZero() && p.inner.Y.IsOne()
}

// Set sets p to the value of a and returns it.
func (p *Point) Set(a *Point) *Point {
	p.inner.Set(&a.inner)
	return p
}

// Add sets p = a + b and returns it.
func (p *Point) Add(a, b *Point) *Point {
	p.inner.Add(&a.inner, &b.inner)
	return p
}

// Sub sets p = a - b and returns it.
func (p *Point) Sub(a, b *Point) *Point {
	var negB twistededwards.PointAffine
	negB.Neg(&b.inner)
	p.inner.Add(&a.inner, &negB)
	return p
}

// Neg sets p = -a and returns it.
func (p *Point) Neg(a *Point) *Point {
	p.inner.Neg(&a.inner)
	return p
}

// Double sets p = 2a and returns it.
func (p *Point) Double(a *Point) *Point {
	p.inner.Double(&a.inner)
	return p
}

// ScalarMul sets p = k * a and returns it.
func (p *Point) ScalarMul(a *Point, k *big.Int) *Point {
	p.inner.ScalarMultiplication(&a.inner, k)
	return p
}

// MulByCofactor sets p = 8a, mapping any group element into the prime-order
// subgroup, and returns it.
func (p *Point) MulByCofactor(a *Point) *Point {
	p.inner.Double(&a.inner)
	p.inner.Double(&p.inner)
	p.inner.Double(&p.inner)
	return p
}

// Equal reports whether p and a represent the same group element.
func (p *Point) Equal(a *Point) bool {
	return p.inner.Equal(&a.inner)
}

// IsOnCurve reports whether the affine coordinates satisfy the curve equation.
func (p *Point) IsOnCurve() bool {
	return p.inner.IsOnCurve()
}

// InPrimeSubgroup reports whether p is in the prime-order subgroup. Every
// externally supplied point must pass this check before use; small-order
// components would otherwise cancel terms in the protocol equations.
func (p *Point) InPrimeSubgroup() bool {
	var q twistededwards.PointAffine
	q.ScalarMultiplication(&p.inner, &curveParams.Order)
	return q.X.IsZero() && q.Y.IsOne()
}

// IsSmallOrder reports whether p has order dividing the cofactor.
func (p *Point) IsSmallOrder() bool {
	q := new(Point).MulByCofactor(p)
	return q.IsZero()
}

// Marshal serializes p to its 32-byte compressed encoding.
func (p *Point) Marshal() []byte {
	return p.inner.Marshal()
}

// Unmarshal decodes a 32-byte compressed point. The y coordinate must be a
// canonical field element and the decompressed point must be on the curve;
// subgroup membership is NOT checked here.
func (p *Point) Unmarshal(buf []byte) error {
	if len(buf) < PointSize {
		return ErrUnexpectedEOF
	}
	if len(buf) > PointSize {
		return ErrTrailingData
	}
	// The wire form is little-endian y with the x-sign in the top bit of the
	// last byte. Reject a non-canonical y before handing it to the library,
	// which would silently reduce it.
	var yRaw [PointSize]byte
	copy(yRaw[:], buf)
	yRaw[PointSize-1] &= 0x7f
	y := new(big.Int).SetBytes(reverse(yRaw[:]))
	if y.Cmp(fr.Modulus()) >= 0 {
		return ErrNotInField
	}
	if err := p.inner.Unmarshal(buf); err != nil {
		return ErrNotOnCurve
	}
	if !p.inner.IsOnCurve() {
		return ErrNotOnCurve
	}
	return nil
}

// UnmarshalChecked decodes a compressed point and additionally rejects the
// identity and points outside the prime-order subgroup. All protocol
// ciphertext points and keys are decoded through this path.
func (p *Point) UnmarshalChecked(buf []byte) error {
	if err := p.Unmarshal(buf); err != nil {
		return err
	}
	if p.IsZero() {
		return ErrPointInfinity
	}
	if !p.InPrimeSubgroup() {
		return ErrNotOnCurve
	}
	return nil
}

// XY returns the affine coordinates of p as big integers in [0, Fr).
func (p *Point) XY() (*big.Int, *big.Int) {
	x, y := new(big.Int), new(big.Int)
	p.inner.X.BigInt(x)
	p.inner.Y.BigInt(y)
	return x, y
}

// SetXY sets p from affine coordinates, checking the curve equation.
func (p *Point) SetXY(x, y *big.Int) error {
	if x.Sign() < 0 || x.Cmp(fr.Modulus()) >= 0 || y.Sign() < 0 || y.Cmp(fr.Modulus()) >= 0 {
		return ErrNotInField
	}
	p.inner.X.SetBigInt(x)
	p.inner.Y.SetBigInt(y)
	if !p.inner.IsOnCurve() {
		return ErrNotOnCurve
	}
	return nil
}

// String returns the affine coordinates as "x,y".
func (p *Point) String() string {
	x, y := p.XY()
	return fmt.Sprintf("%s,%s", x.String(), y.String())
}

// ToUniform interprets b (little-endian, typically 64 bytes) as an integer
// and reduces it modulo the subgroup order, yielding a uniform scalar.
func ToUniform(b []byte) *big.Int {
	v := new(big.Int).SetBytes(reverse(b))
	return v.Mod(v, &curveParams.Order)
}

// RandScalar samples a uniform scalar in [0, Order) from crypto/rand.
func RandScalar() (*big.Int, error) {
	wide := make([]byte, 64)
	if _, err := rand.Read(wide); err != nil {
		return nil, fmt.Errorf("failed to sample scalar: %w", err)
	}
	return ToUniform(wide), nil
}

// ScalarFromLE decodes a canonical 32-byte little-endian scalar, rejecting
// values at or above the subgroup order.
func ScalarFromLE(buf []byte) (*big.Int, error) {
	if len(buf) < ScalarSize {
		return nil, ErrUnexpectedEOF
	}
	if len(buf) > ScalarSize {
		return nil, ErrTrailingData
	}
	v := new(big.Int).SetBytes(reverse(buf))
	if v.Cmp(&curveParams.Order) >= 0 {
		return nil, ErrNotInField
	}
	return v, nil
}

// ScalarToLE encodes a scalar as 32 little-endian bytes.
func ScalarToLE(k *big.Int) []byte {
	buf := make([]byte, ScalarSize)
	k.FillBytes(buf)
	return reverse(buf)
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[i] = b[len(b)-1-i]
	}
	return out
}
