package anonymous

import (
	"fmt"
	"math/big"

	"github.com/zechproject/zech-core/circuits"
	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/crypto/keys"
	"github.com/zechproject/zech-core/crypto/reddsa"
)

// Transfer holds the native points an anonymous transfer publishes. Slot
// order is fixed at proving time and never reveals which slots are sender
// and recipient.
type Transfer struct {
	Keys     [Size]*keys.EncryptionKey
	L        [Size]*jubjub.Point
	Balances [Size]*elgamal.Ciphertext
	R        *jubjub.Point
	Rvk      *jubjub.Point
	Epoch    uint32
	Nonce    *jubjub.Point
}

// NewTransfer computes every point of an anonymous transfer and the matching
// circuit assignment. ring holds the full anonymity set, balances the
// confirmed balance of each slot (nil for fresh accounts), senderIdx and
// recipientIdx the hidden positions. Equal indices are a caller bug and
// panic.
func NewTransfer(pgk *keys.ProofGenerationKey, ring []*keys.EncryptionKey,
	balances []*elgamal.Ciphertext, senderIdx, recipientIdx int,
	amount, remaining uint32, randomness, alpha *big.Int, epoch uint32) (*Transfer, *Circuit, error) {
	if senderIdx == recipientIdx {
		panic("anonymous: sender and recipient share a ring slot")
	}
	if len(ring) != Size || len(balances) != Size {
		return nil, nil, fmt.Errorf("ring size %d, expected %d", len(ring), Size)
	}
	if senderIdx < 0 || senderIdx >= Size || recipientIdx < 0 || recipientIdx >= Size {
		return nil, nil, fmt.Errorf("ring index out of range")
	}
	if randomness == nil || alpha == nil {
		return nil, nil, fmt.Errorf("missing transfer randomness")
	}

	dk := pgk.DecryptionKey()
	senderKey := dk.EncryptionKey()
	if ring[senderIdx] == nil || !ring[senderIdx].Equal(senderKey) {
		return nil, nil, fmt.Errorf("sender slot %d does not hold the prover's key", senderIdx)
	}

	gEpoch := jubjub.EpochPoint(epoch)
	t := &Transfer{
		R:     new(jubjub.Point).ScalarMul(jubjub.GeneratorDiv(), randomness),
		Rvk:   reddsa.RandomizePublic(pgk.Point(), alpha),
		Epoch: epoch,
		Nonce: dk.Nonce(gEpoch),
	}
	for i := range ring {
		if ring[i] == nil {
			return nil, nil, fmt.Errorf("ring slot %d is empty", i)
		}
		t.Keys[i] = ring[i]
		switch i {
		case senderIdx:
			t.L[i] = elgamal.NegEncrypt(amount, randomness, ring[i]).L
		case recipientIdx:
			t.L[i] = elgamal.Encrypt(amount, randomness, ring[i]).L
		default:
			t.L[i] = elgamal.EncryptZero(randomness, ring[i]).L
		}
		if balances[i] == nil {
			t.Balances[i] = elgamal.NewCiphertext()
		} else {
			t.Balances[i] = balances[i]
		}
	}

	assignment := t.PublicAssignment()
	for i := range assignment.SenderBits {
		assignment.SenderBits[i] = 0
		assignment.RecipientBits[i] = 0
	}
	assignment.SenderBits[senderIdx] = 1
	assignment.RecipientBits[recipientIdx] = 1
	assignment.Amount = amount
	assignment.Remaining = remaining
	assignment.Randomness = randomness
	assignment.Alpha = alpha
	assignment.Dec = dk.Scalar()
	assignment.Pgk = circuits.WitnessPoint(pgk.Point())
	return t, assignment, nil
}

// PublicAssignment returns a circuit assignment carrying only the public
// inputs, as used to rebuild the verification witness.
func (t *Transfer) PublicAssignment() *Circuit {
	c := &Circuit{
		R:      circuits.WitnessPoint(t.R),
		Rvk:    circuits.WitnessPoint(t.Rvk),
		GEpoch: circuits.WitnessPoint(jubjub.EpochPoint(t.Epoch)),
		Nonce:  circuits.WitnessPoint(t.Nonce),
	}
	for i := range t.Keys {
		c.Keys[i] = circuits.WitnessPoint(t.Keys[i].Point())
		c.L[i] = circuits.WitnessPoint(t.L[i])
		c.BalanceL[i], c.BalanceR[i] = circuits.WitnessCiphertext(t.Balances[i])
	}
	return c
}
