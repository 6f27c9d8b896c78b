package jubjub

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPointRoundTrip(t *testing.T) {
	for i := 0; i < 32; i++ {
		k, err := RandScalar()
		qt.Assert(t, err, qt.IsNil)
		p := new(Point).ScalarMul(GeneratorDiv(), k)

		buf := p.Marshal()
		qt.Assert(t, len(buf), qt.Equals, PointSize)

		q := New()
		qt.Assert(t, q.UnmarshalChecked(buf), qt.IsNil)
		qt.Assert(t, q.Equal(p), qt.IsTrue)
	}
}

func TestUnmarshalRejectsIdentity(t *testing.T) {
	buf := New().Marshal()
	p := New()
	qt.Assert(t, p.Unmarshal(buf), qt.IsNil)
	qt.Assert(t, p.UnmarshalChecked(buf), qt.Equals, ErrPointInfinity)
}

func TestUnmarshalRejectsNonCanonical(t *testing.T) {
	// y = field modulus is a non-canonical encoding of y = 0.
	buf := reverse(FieldModulus().Bytes())
	p := New()
	qt.Assert(t, p.Unmarshal(buf), qt.Equals, ErrNotInField)

	qt.Assert(t, p.Unmarshal(buf[:16]), qt.Equals, ErrUnexpectedEOF)
	qt.Assert(t, p.Unmarshal(append(buf, 0)), qt.Equals, ErrTrailingData)
}

func TestGeneratorsInPrimeSubgroup(t *testing.T) {
	for _, g := range []*Point{GeneratorNote(), GeneratorDiv(), GeneratorSpend()} {
		qt.Assert(t, g.IsZero(), qt.IsFalse)
		qt.Assert(t, g.IsOnCurve(), qt.IsTrue)
		qt.Assert(t, g.InPrimeSubgroup(), qt.IsTrue)
	}
	// Distinct tags must give distinct generators.
	qt.Assert(t, GeneratorNote().Equal(GeneratorDiv()), qt.IsFalse)
	qt.Assert(t, GeneratorDiv().Equal(GeneratorSpend()), qt.IsFalse)
}

func TestEpochPointDeterministic(t *testing.T) {
	a, b := EpochPoint(7), EpochPoint(7)
	qt.Assert(t, a.Equal(b), qt.IsTrue)
	qt.Assert(t, a.Equal(EpochPoint(8)), qt.IsFalse)
	qt.Assert(t, a.InPrimeSubgroup(), qt.IsTrue)
}

func TestScalarEncoding(t *testing.T) {
	k, err := RandScalar()
	qt.Assert(t, err, qt.IsNil)
	buf := ScalarToLE(k)
	qt.Assert(t, len(buf), qt.Equals, ScalarSize)
	back, err := ScalarFromLE(buf)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, back.Cmp(k), qt.Equals, 0)

	_, err = ScalarFromLE(ScalarToLE(Order()))
	qt.Assert(t, err, qt.Equals, ErrNotInField)
}

func TestMulByCofactorClearsTorsion(t *testing.T) {
	k, err := RandScalar()
	qt.Assert(t, err, qt.IsNil)
	p := new(Point).ScalarMul(GeneratorDiv(), k)
	q := new(Point).MulByCofactor(p)
	expected := new(Point).ScalarMul(p, big.NewInt(Cofactor))
	qt.Assert(t, q.Equal(expected), qt.IsTrue)
	qt.Assert(t, q.InPrimeSubgroup(), qt.IsTrue)
}

func TestToUniform(t *testing.T) {
	// A value just above the order must wrap around.
	over := new(big.Int).Add(Order(), big.NewInt(5))
	buf := make([]byte, 64)
	copy(buf, reverse(over.FillBytes(make([]byte, 64))))
	qt.Assert(t, ToUniform(buf).Cmp(big.NewInt(5)), qt.Equals, 0)
}
