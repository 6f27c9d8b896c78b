package types

const (
	// PointSize is the compressed encoding of a Jubjub point in bytes.
	PointSize = 32
	// CiphertextSize is the wire size of an ElGamal ciphertext (L || R).
	CiphertextSize = 2 * PointSize
)
