// Package prover drives the Groth16 backend for both transfer circuits. It
// builds witnesses from native key and ciphertext material, self-verifies
// every proof against the documented public-input layout before releasing
// it, and signs the resulting payload with the re-randomized spending key.
// The verifier half rebuilds public inputs from payload bytes and runs the
// pure checks; nonce freshness and balance mutation belong to the state
// layer.
package prover

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/zechproject/zech-core/circuits/anonymous"
	"github.com/zechproject/zech-core/circuits/confidential"
	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/crypto/keys"
	"github.com/zechproject/zech-core/crypto/reddsa"
	"github.com/zechproject/zech-core/log"
)

// ErrUnsatisfiable is returned when a freshly generated proof fails the
// prover's own public-input rebuild, which means the witness contradicts
// the statement (typically a wrong remaining balance).
var ErrUnsatisfiable = errors.New("transfer statement is unsatisfiable")

// ErrInvalidProof is returned by the verifier on any failed pure check.
var ErrInvalidProof = errors.New("transfer proof is invalid")

// Prover holds the compiled circuits and Groth16 keys for both transfer
// modes. It is safe for concurrent use; proving is CPU-bound and blocking.
type Prover struct {
	confidential *artifacts
	anonymous    *artifacts
}

// New compiles both circuits and loads or generates their Groth16 keys
// under dataDir.
func New(dataDir string) (*Prover, error) {
	conf, err := confidentialArtifacts(dataDir)
	if err != nil {
		return nil, err
	}
	anon, err := anonymousArtifacts(dataDir)
	if err != nil {
		return nil, err
	}
	return &Prover{confidential: conf, anonymous: anon}, nil
}

// GenConfidentialTransfer proves and signs a confidential transfer of
// amount plus fee from the spending key's account, leaving remaining
// behind. balance is the sender's confirmed balance ciphertext, nil for a
// fresh account.
func (p *Prover) GenConfidentialTransfer(sk *keys.SpendingKey, recipient *keys.EncryptionKey,
	balance *elgamal.Ciphertext, amount, fee, remaining uint32, epoch uint32) (*ConfidentialPayload, error) {
	randomness, err := elgamal.RandNonce()
	if err != nil {
		return nil, err
	}
	alpha, err := reddsa.RandAlpha()
	if err != nil {
		return nil, err
	}

	transfer, assignment, err := confidential.NewTransfer(sk.ProofGenerationKey(), recipient,
		balance, amount, fee, remaining, randomness, alpha, epoch)
	if err != nil {
		return nil, err
	}
	proof, err := p.prove(p.confidential, assignment, transfer.PublicAssignment())
	if err != nil {
		return nil, err
	}

	payload := newConfidentialPayload(transfer, proof)
	body, err := payload.SigningBody()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer body: %w", err)
	}
	sig, err := reddsa.Sign(sk.RandomizedSigningKey(alpha), body)
	if err != nil {
		return nil, err
	}
	payload.Signature = sig.Bytes()
	return payload, nil
}

// GenAnonymousTransfer proves and signs an anonymous transfer of amount
// inside the given ring, from slot senderIdx to slot recipientIdx.
// balances holds each slot's confirmed balance as known to the network.
func (p *Prover) GenAnonymousTransfer(sk *keys.SpendingKey, ring []*keys.EncryptionKey,
	balances []*elgamal.Ciphertext, senderIdx, recipientIdx int,
	amount, remaining uint32, epoch uint32) (*AnonymousPayload, error) {
	randomness, err := elgamal.RandNonce()
	if err != nil {
		return nil, err
	}
	alpha, err := reddsa.RandAlpha()
	if err != nil {
		return nil, err
	}

	transfer, assignment, err := anonymous.NewTransfer(sk.ProofGenerationKey(), ring, balances,
		senderIdx, recipientIdx, amount, remaining, randomness, alpha, epoch)
	if err != nil {
		return nil, err
	}
	proof, err := p.prove(p.anonymous, assignment, transfer.PublicAssignment())
	if err != nil {
		return nil, err
	}

	payload := newAnonymousPayload(transfer, proof)
	body, err := payload.SigningBody()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer body: %w", err)
	}
	sig, err := reddsa.Sign(sk.RandomizedSigningKey(alpha), body)
	if err != nil {
		return nil, err
	}
	payload.Signature = sig.Bytes()
	return payload, nil
}

// prove runs Groth16 on the full assignment and self-verifies the proof
// against the rebuilt public inputs before returning its serialized form.
func (p *Prover) prove(a *artifacts, assignment, public frontend.Circuit) ([]byte, error) {
	witness, err := frontend.NewWitness(assignment, ecc.BLS12_381.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("failed to build witness: %w", err)
	}
	proof, err := groth16.Prove(a.ccs, a.pk, witness)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsatisfiable, err)
	}

	// Rebuild the public inputs the way the network will and verify
	// against them, so a layout mismatch dies here and not on-chain.
	publicWitness, err := frontend.NewWitness(public, ecc.BLS12_381.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to build public witness: %w", err)
	}
	if err := groth16.Verify(proof, a.vk, publicWitness); err != nil {
		log.Warnw("self-verification failed", "err", err)
		return nil, ErrUnsatisfiable
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize proof: %w", err)
	}
	return buf.Bytes(), nil
}

// VerifyConfidential runs the pure checks on a confidential payload: point
// vetting, Groth16 verification against the rebuilt public inputs, and the
// RedDSA signature under the randomized verifying key. The caller is
// responsible for checking that the payload's balance matches the sender's
// confirmed balance and that the nonce is fresh.
func (p *Prover) VerifyConfidential(payload *ConfidentialPayload) error {
	transfer, err := payload.Transfer()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if err := p.verify(p.confidential, payload.Proof, transfer.PublicAssignment()); err != nil {
		return err
	}
	return verifySignature(transfer.Rvk, payload.Signature, payload.SigningBody)
}

// VerifyAnonymous runs the pure checks on an anonymous payload, folding in
// the ring's confirmed balances from the caller's state.
func (p *Prover) VerifyAnonymous(payload *AnonymousPayload, balances []*elgamal.Ciphertext) error {
	transfer, err := payload.Transfer(balances)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if err := p.verify(p.anonymous, payload.Proof, transfer.PublicAssignment()); err != nil {
		return err
	}
	return verifySignature(transfer.Rvk, payload.Signature, payload.SigningBody)
}

func (p *Prover) verify(a *artifacts, proofBytes []byte, public frontend.Circuit) error {
	publicWitness, err := frontend.NewWitness(public, ecc.BLS12_381.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("failed to build public witness: %w", err)
	}
	proof := groth16.NewProof(ecc.BLS12_381)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("%w: malformed proof: %v", ErrInvalidProof, err)
	}
	if err := groth16.Verify(proof, a.vk, publicWitness); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	return nil
}

func verifySignature(rvk *jubjub.Point, sigBytes []byte, bodyFn func() ([]byte, error)) error {
	sig, err := reddsa.SignatureFromBytes(sigBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	body, err := bodyFn()
	if err != nil {
		return fmt.Errorf("failed to encode transfer body: %w", err)
	}
	if !reddsa.Verify(rvk, body, sig) {
		return fmt.Errorf("%w: bad signature", ErrInvalidProof)
	}
	return nil
}
