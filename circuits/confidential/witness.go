package confidential

import (
	"fmt"
	"math/big"

	"github.com/zechproject/zech-core/circuits"
	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/crypto/keys"
	"github.com/zechproject/zech-core/crypto/reddsa"
)

// Transfer holds the native points a confidential transfer publishes. The
// verifier rebuilds the circuit's public inputs from exactly these values.
type Transfer struct {
	SenderKey    *keys.EncryptionKey
	RecipientKey *keys.EncryptionKey
	LSender      *jubjub.Point
	LRecipient   *jubjub.Point
	LFee         *jubjub.Point
	R            *jubjub.Point
	Balance      *elgamal.Ciphertext
	Rvk          *jubjub.Point
	Epoch        uint32
	Nonce        *jubjub.Point
}

// NewTransfer computes every point of a confidential transfer and the
// matching circuit assignment. balance is the sender's confirmed balance
// ciphertext; nil stands for the identity of a fresh account. remaining
// must equal the balance minus amount minus fee or the circuit will not be
// satisfiable.
func NewTransfer(pgk *keys.ProofGenerationKey, recipient *keys.EncryptionKey,
	balance *elgamal.Ciphertext, amount, fee, remaining uint32,
	randomness, alpha *big.Int, epoch uint32) (*Transfer, *Circuit, error) {
	if recipient == nil {
		return nil, nil, fmt.Errorf("missing recipient encryption key")
	}
	if randomness == nil || alpha == nil {
		return nil, nil, fmt.Errorf("missing transfer randomness")
	}

	dk := pgk.DecryptionKey()
	senderKey := dk.EncryptionKey()

	senderCipher := elgamal.Encrypt(amount, randomness, senderKey)
	recipientCipher := elgamal.Encrypt(amount, randomness, recipient)
	feeCipher := elgamal.Encrypt(fee, randomness, senderKey)

	if balance == nil {
		balance = elgamal.NewCiphertext()
	}
	gEpoch := jubjub.EpochPoint(epoch)
	t := &Transfer{
		SenderKey:    senderKey,
		RecipientKey: recipient,
		LSender:      senderCipher.L,
		LRecipient:   recipientCipher.L,
		LFee:         feeCipher.L,
		R:            senderCipher.R,
		Balance:      balance,
		Rvk:          reddsa.RandomizePublic(pgk.Point(), alpha),
		Epoch:        epoch,
		Nonce:        dk.Nonce(gEpoch),
	}

	assignment := t.PublicAssignment()
	assignment.Amount = amount
	assignment.Fee = fee
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
	balanceL, balanceR := circuits.WitnessCiphertext(t.Balance)
	return &Circuit{
		EncSender:    circuits.WitnessPoint(t.SenderKey.Point()),
		EncRecipient: circuits.WitnessPoint(t.RecipientKey.Point()),
		LSender:      circuits.WitnessPoint(t.LSender),
		LRecipient:   circuits.WitnessPoint(t.LRecipient),
		R:            circuits.WitnessPoint(t.R),
		LFee:         circuits.WitnessPoint(t.LFee),
		BalanceL:     balanceL,
		BalanceR:     balanceR,
		Rvk:          circuits.WitnessPoint(t.Rvk),
		GEpoch:       circuits.WitnessPoint(jubjub.EpochPoint(t.Epoch)),
		Nonce:        circuits.WitnessPoint(t.Nonce),
	}
}
