package anonymous_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/test"

	"github.com/zechproject/zech-core/circuits"
	"github.com/zechproject/zech-core/circuits/anonymous"
	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/crypto/keys"
)

func circuitTestsDisabled(t *testing.T) bool {
	if os.Getenv("RUN_CIRCUIT_TESTS") == "" || os.Getenv("RUN_CIRCUIT_TESTS") == "false" {
		t.Skip("skipped, RUN_CIRCUIT_TESTS not set")
		return true
	}
	return false
}

// ringFixture builds an anonymity set where slot senderIdx belongs to the
// returned proof-generation key and starts with the given balance.
func ringFixture(t *testing.T, senderIdx int, startBalance uint32) (*keys.ProofGenerationKey, []*keys.EncryptionKey, []*elgamal.Ciphertext) {
	t.Helper()
	ring := make([]*keys.EncryptionKey, anonymous.Size)
	balances := make([]*elgamal.Ciphertext, anonymous.Size)
	var pgk *keys.ProofGenerationKey
	for i := range ring {
		sk := keys.NewSpendingKey(bytes.Repeat([]byte{0x50 + byte(i)}, 32))
		if i == senderIdx {
			pgk = sk.ProofGenerationKey()
		}
		ring[i] = sk.ProofGenerationKey().DecryptionKey().EncryptionKey()
	}
	r0, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	balances[senderIdx] = elgamal.Encrypt(startBalance, r0, ring[senderIdx])
	return pgk, ring, balances
}

func TestAnonymousTransferCircuit(t *testing.T) {
	if circuitTestsDisabled(t) {
		return
	}
	pgk, ring, balances := ringFixture(t, 3, 100)

	randomness, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	alpha, err := jubjub.RandScalar()
	if err != nil {
		t.Fatal(err)
	}

	_, assignment, err := anonymous.NewTransfer(
		pgk, ring, balances, 3, 7, 30, 70, randomness, alpha, 9)
	if err != nil {
		t.Fatal(err)
	}

	assert := test.NewAssert(t)
	assert.ProverSucceeded(
		&anonymous.Circuit{},
		assignment,
		test.WithCurves(ecc.BLS12_381),
		test.WithBackends(backend.GROTH16))
}

func TestAnonymousTransferCircuitRejectsWrongRemaining(t *testing.T) {
	if circuitTestsDisabled(t) {
		return
	}
	pgk, ring, balances := ringFixture(t, 3, 100)

	randomness, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	alpha, err := jubjub.RandScalar()
	if err != nil {
		t.Fatal(err)
	}

	_, assignment, err := anonymous.NewTransfer(
		pgk, ring, balances, 3, 7, 30, 71, randomness, alpha, 9)
	if err != nil {
		t.Fatal(err)
	}

	assert := test.NewAssert(t)
	assert.ProverFailed(
		&anonymous.Circuit{},
		assignment,
		test.WithCurves(ecc.BLS12_381),
		test.WithBackends(backend.GROTH16))
}

func TestAnonymousTransferCircuitRejectsTamperedDecoy(t *testing.T) {
	if circuitTestsDisabled(t) {
		return
	}
	pgk, ring, balances := ringFixture(t, 3, 100)

	randomness, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	alpha, err := jubjub.RandScalar()
	if err != nil {
		t.Fatal(err)
	}

	_, assignment, err := anonymous.NewTransfer(
		pgk, ring, balances, 3, 7, 30, 70, randomness, alpha, 9)
	if err != nil {
		t.Fatal(err)
	}

	// A decoy slot silently crediting itself must not prove.
	tampered := elgamal.EncryptZero(randomness, ring[5]).L
	tampered.Add(tampered, jubjub.GeneratorDiv())
	assignment.L[5] = circuits.WitnessPoint(tampered)

	assert := test.NewAssert(t)
	assert.ProverFailed(
		&anonymous.Circuit{},
		assignment,
		test.WithCurves(ecc.BLS12_381),
		test.WithBackends(backend.GROTH16))
}

func TestAnonymousTransferCircuitRejectsSharedSlot(t *testing.T) {
	if circuitTestsDisabled(t) {
		return
	}
	pgk, ring, balances := ringFixture(t, 3, 100)

	randomness, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	alpha, err := jubjub.RandScalar()
	if err != nil {
		t.Fatal(err)
	}

	_, assignment, err := anonymous.NewTransfer(
		pgk, ring, balances, 3, 7, 30, 70, randomness, alpha, 9)
	if err != nil {
		t.Fatal(err)
	}

	// Pointing both indicators at the sender slot would credit it with a
	// positive encryption while no slot pays: the remaining balance grows
	// by the amount instead of shrinking. The slots must stay disjoint.
	assignment.RecipientBits[7] = 0
	assignment.RecipientBits[3] = 1
	assignment.Amount = 500
	assignment.Remaining = 600
	assignment.L[3] = circuits.WitnessPoint(elgamal.Encrypt(500, randomness, ring[3]).L)
	assignment.L[7] = circuits.WitnessPoint(elgamal.EncryptZero(randomness, ring[7]).L)

	assert := test.NewAssert(t)
	assert.ProverFailed(
		&anonymous.Circuit{},
		assignment,
		test.WithCurves(ecc.BLS12_381),
		test.WithBackends(backend.GROTH16))
}

func TestAnonymousTransferRejectsForeignSenderSlot(t *testing.T) {
	pgk, ring, balances := ringFixture(t, 3, 100)

	randomness, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	alpha, err := jubjub.RandScalar()
	if err != nil {
		t.Fatal(err)
	}

	// Slot 4 does not hold the prover's key.
	_, _, err = anonymous.NewTransfer(
		pgk, ring, balances, 4, 7, 30, 70, randomness, alpha, 9)
	if err == nil {
		t.Fatal("expected an error for a foreign sender slot")
	}
}

func TestAnonymousTransferPanicsOnEqualSlots(t *testing.T) {
	pgk, ring, balances := ringFixture(t, 3, 100)
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for equal sender and recipient slots")
		}
	}()
	_, _, _ = anonymous.NewTransfer(pgk, ring, balances, 3, 3, 30, 70, nil, nil, 9)
}
