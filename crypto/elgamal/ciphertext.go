package elgamal

import (
	"encoding/json"
	"fmt"

	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/types"
)

// Ciphertext is a lifted-ElGamal ciphertext (L, R). The identity ciphertext
// (0, 0) encrypts zero under every key and is the neutral element of the
// homomorphic addition; absent balances are treated as identity.
type Ciphertext struct {
	L *jubjub.Point
	R *jubjub.Point
}

// NewCiphertext returns the identity ciphertext.
func NewCiphertext() *Ciphertext {
	return &Ciphertext{L: jubjub.New(), R: jubjub.New()}
}

// Set sets z to the value of x and returns it.
func (z *Ciphertext) Set(x *Ciphertext) *Ciphertext {
	z.L.Set(x.L)
	z.R.Set(x.R)
	return z
}

// Add sets z = x + y pointwise and returns it.
func (z *Ciphertext) Add(x, y *Ciphertext) *Ciphertext {
	z.L.Add(x.L, y.L)
	z.R.Add(x.R, y.R)
	return z
}

// Sub sets z = x - y pointwise and returns it.
func (z *Ciphertext) Sub(x, y *Ciphertext) *Ciphertext {
	z.L.Sub(x.L, y.L)
	z.R.Sub(x.R, y.R)
	return z
}

// IsZero reports whether z is the identity ciphertext.
func (z *Ciphertext) IsZero() bool {
	return z.L.IsZero() && z.R.IsZero()
}

// Equal reports whether two ciphertexts are pointwise equal.
func (z *Ciphertext) Equal(x *Ciphertext) bool {
	return z.L.Equal(x.L) && z.R.Equal(x.R)
}

// Serialize returns the 64-byte wire form L || R, each point compressed.
func (z *Ciphertext) Serialize() []byte {
	buf := make([]byte, 0, types.CiphertextSize)
	buf = append(buf, z.L.Marshal()...)
	buf = append(buf, z.R.Marshal()...)
	return buf
}

// Deserialize reconstructs a ciphertext from its 64-byte wire form. Both
// points must decode to curve points; the identity is accepted here because
// accumulated balances legitimately pass through it.
func (z *Ciphertext) Deserialize(data []byte) error {
	if len(data) != types.CiphertextSize {
		return fmt.Errorf("invalid ciphertext length: got %d bytes, expected %d bytes",
			len(data), types.CiphertextSize)
	}
	if err := z.L.Unmarshal(data[:types.PointSize]); err != nil {
		return fmt.Errorf("invalid ciphertext L: %w", err)
	}
	if err := z.R.Unmarshal(data[types.PointSize:]); err != nil {
		return fmt.Errorf("invalid ciphertext R: %w", err)
	}
	if !z.L.InPrimeSubgroup() || !z.R.InPrimeSubgroup() {
		return jubjub.ErrNotOnCurve
	}
	return nil
}

// String returns a short human-readable representation.
func (z *Ciphertext) String() string {
	if z == nil || z.L == nil || z.R == nil {
		return "{L: nil, R: nil}"
	}
	return fmt.Sprintf("{L: %s, R: %s}", z.L.String(), z.R.String())
}

// MarshalJSON serializes the ciphertext as its hex-encoded wire form.
func (z *Ciphertext) MarshalJSON() ([]byte, error) {
	return json.Marshal(types.HexBytes(z.Serialize()))
}

// UnmarshalJSON deserializes the ciphertext from its hex-encoded wire form.
func (z *Ciphertext) UnmarshalJSON(data []byte) error {
	var raw types.HexBytes
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal ciphertext: %w", err)
	}
	if z.L == nil {
		z.L = jubjub.New()
	}
	if z.R == nil {
		z.R = jubjub.New()
	}
	return z.Deserialize(raw)
}
