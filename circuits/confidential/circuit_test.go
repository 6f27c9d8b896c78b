package confidential_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/test"

	"github.com/zechproject/zech-core/circuits/confidential"
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

func TestConfidentialTransferCircuit(t *testing.T) {
	if circuitTestsDisabled(t) {
		return
	}
	sender := keys.NewSpendingKey(bytes.Repeat([]byte{0x41}, 32))
	pgk := sender.ProofGenerationKey()
	senderKey := pgk.DecryptionKey().EncryptionKey()
	recipient := keys.NewSpendingKey(bytes.Repeat([]byte{0x42}, 32)).
		ProofGenerationKey().DecryptionKey().EncryptionKey()

	r0, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	balance := elgamal.Encrypt(100, r0, senderKey)

	randomness, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	alpha, err := jubjub.RandScalar()
	if err != nil {
		t.Fatal(err)
	}

	_, assignment, err := confidential.NewTransfer(
		pgk, recipient, balance, 30, 5, 65, randomness, alpha, 7)
	if err != nil {
		t.Fatal(err)
	}

	assert := test.NewAssert(t)
	assert.ProverSucceeded(
		&confidential.Circuit{},
		assignment,
		test.WithCurves(ecc.BLS12_381),
		test.WithBackends(backend.GROTH16))
}

func TestConfidentialTransferCircuitRejectsWrongRemaining(t *testing.T) {
	if circuitTestsDisabled(t) {
		return
	}
	sender := keys.NewSpendingKey(bytes.Repeat([]byte{0x41}, 32))
	pgk := sender.ProofGenerationKey()
	senderKey := pgk.DecryptionKey().EncryptionKey()
	recipient := keys.NewSpendingKey(bytes.Repeat([]byte{0x42}, 32)).
		ProofGenerationKey().DecryptionKey().EncryptionKey()

	r0, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	balance := elgamal.Encrypt(100, r0, senderKey)

	randomness, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	alpha, err := jubjub.RandScalar()
	if err != nil {
		t.Fatal(err)
	}

	// The sender claims more remaining balance than the books allow.
	_, assignment, err := confidential.NewTransfer(
		pgk, recipient, balance, 30, 5, 66, randomness, alpha, 7)
	if err != nil {
		t.Fatal(err)
	}

	assert := test.NewAssert(t)
	assert.ProverFailed(
		&confidential.Circuit{},
		assignment,
		test.WithCurves(ecc.BLS12_381),
		test.WithBackends(backend.GROTH16))
}

func TestConfidentialTransferCircuitRejectsForeignBalance(t *testing.T) {
	if circuitTestsDisabled(t) {
		return
	}
	sender := keys.NewSpendingKey(bytes.Repeat([]byte{0x41}, 32))
	pgk := sender.ProofGenerationKey()
	recipient := keys.NewSpendingKey(bytes.Repeat([]byte{0x42}, 32)).
		ProofGenerationKey().DecryptionKey().EncryptionKey()

	// A balance encrypted for somebody else cannot be spent.
	r0, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	balance := elgamal.Encrypt(100, r0, recipient)

	randomness, err := elgamal.RandNonce()
	if err != nil {
		t.Fatal(err)
	}
	alpha, err := jubjub.RandScalar()
	if err != nil {
		t.Fatal(err)
	}

	_, assignment, err := confidential.NewTransfer(
		pgk, recipient, balance, 30, 5, 65, randomness, alpha, 7)
	if err != nil {
		t.Fatal(err)
	}

	assert := test.NewAssert(t)
	assert.ProverFailed(
		&confidential.Circuit{},
		assignment,
		test.WithCurves(ecc.BLS12_381),
		test.WithBackends(backend.GROTH16))
}
