package jubjub

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2s"
)

// Domain tags for the fixed protocol generators and the per-epoch points.
const (
	tagNote  = "zech_g_note"
	tagDiv   = "zech_g_div"
	tagSpend = "zech_g_spend"
	tagEpoch = "zcgepoch"
)

var (
	gNote  *Point
	gDiv   *Point
	gSpend *Point
)

func init() {
	var err error
	if gNote, err = HashToPoint(tagNote, nil); err != nil {
		panic(err)
	}
	if gDiv, err = HashToPoint(tagDiv, nil); err != nil {
		panic(err)
	}
	if gSpend, err = HashToPoint(tagSpend, nil); err != nil {
		panic(err)
	}
}

// GeneratorNote returns the note-commitment generator G_note.
func GeneratorNote() *Point { return new(Point).Set(gNote) }

// GeneratorDiv returns the key and ciphertext generator G_div. Encryption
// keys and ElGamal ciphertexts are defined over this generator; prover and
// verifier must agree on it or every proof is rejected.
func GeneratorDiv() *Point { return new(Point).Set(gDiv) }

// GeneratorSpend returns the signing generator G_spend used by RedDSA.
func GeneratorSpend() *Point { return new(Point).Set(gSpend) }

// HashToPoint maps a domain tag and message to a point of the prime-order
// subgroup. The digest of tag || msg || counter is decompressed and cleared
// of its cofactor; the 4-byte counter is bumped until a valid non-identity
// point comes out.
func HashToPoint(tag string, msg []byte) (*Point, error) {
	var counter [4]byte
	for i := uint32(0); i < 256; i++ {
		binary.LittleEndian.PutUint32(counter[:], i)
		h, err := blake2s.New256(nil)
		if err != nil {
			return nil, err
		}
		h.Write([]byte(tag))
		h.Write(msg)
		h.Write(counter[:])
		digest := h.Sum(nil)

		p := New()
		if err := p.Unmarshal(digest); err != nil {
			continue
		}
		p.MulByCofactor(p)
		if p.IsZero() {
			continue
		}
		return p, nil
	}
	return nil, fmt.Errorf("jubjub: no valid point for tag %q after 256 attempts", tag)
}

// EpochPoint derives the per-epoch group element g_epoch. Nonces are computed
// as dec * g_epoch, so a decryption key yields exactly one valid nonce per
// epoch.
func EpochPoint(epoch uint32) *Point {
	var msg [4]byte
	binary.LittleEndian.PutUint32(msg[:], epoch)
	p, err := HashToPoint(tagEpoch, msg[:])
	if err != nil {
		// 256 consecutive failures of a 2^-1 Bernoulli trial cannot happen.
		panic(err)
	}
	return p
}
