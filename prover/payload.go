package prover

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/zechproject/zech-core/circuits/anonymous"
	"github.com/zechproject/zech-core/circuits/confidential"
	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/crypto/keys"
	"github.com/zechproject/zech-core/types"
)

// ConfidentialPayload is the wire form of a confidential transfer: the
// proof, the points the verifier rebuilds the public inputs from, and the
// signature over everything else under the randomized verifying key.
type ConfidentialPayload struct {
	Proof        types.HexBytes `json:"proof" cbor:"1,keyasint"`
	SenderKey    types.HexBytes `json:"senderKey" cbor:"2,keyasint"`
	RecipientKey types.HexBytes `json:"recipientKey" cbor:"3,keyasint"`
	LSender      types.HexBytes `json:"lSender" cbor:"4,keyasint"`
	LRecipient   types.HexBytes `json:"lRecipient" cbor:"5,keyasint"`
	LFee         types.HexBytes `json:"lFee" cbor:"6,keyasint"`
	R            types.HexBytes `json:"r" cbor:"7,keyasint"`
	Rvk          types.HexBytes `json:"rvk" cbor:"8,keyasint"`
	Balance      types.HexBytes `json:"balance" cbor:"9,keyasint"`
	Epoch        uint32         `json:"epoch" cbor:"10,keyasint"`
	Nonce        types.HexBytes `json:"nonce" cbor:"11,keyasint"`
	Signature    types.HexBytes `json:"signature" cbor:"12,keyasint,omitempty"`
}

// SigningBody returns the canonical byte string the RedDSA signature
// covers: the CBOR encoding of the payload with the signature stripped.
func (p *ConfidentialPayload) SigningBody() ([]byte, error) {
	body := *p
	body.Signature = nil
	return cbor.Marshal(&body)
}

// Transfer decodes and vets the published points. Every point must decode
// canonically into the prime-order subgroup; the balance ciphertext alone
// may hold the identity, for accounts that never received funds.
func (p *ConfidentialPayload) Transfer() (*confidential.Transfer, error) {
	senderKey, err := keys.EncryptionKeyFromBytes(p.SenderKey)
	if err != nil {
		return nil, fmt.Errorf("invalid sender key: %w", err)
	}
	recipientKey, err := keys.EncryptionKeyFromBytes(p.RecipientKey)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient key: %w", err)
	}
	t := &confidential.Transfer{
		SenderKey:    senderKey,
		RecipientKey: recipientKey,
		Epoch:        p.Epoch,
	}
	for _, dec := range []struct {
		name string
		buf  types.HexBytes
		dst  **jubjub.Point
	}{
		{"lSender", p.LSender, &t.LSender},
		{"lRecipient", p.LRecipient, &t.LRecipient},
		{"lFee", p.LFee, &t.LFee},
		{"r", p.R, &t.R},
		{"rvk", p.Rvk, &t.Rvk},
		{"nonce", p.Nonce, &t.Nonce},
	} {
		point := new(jubjub.Point)
		if err := point.UnmarshalChecked(dec.buf); err != nil {
			return nil, fmt.Errorf("invalid %s point: %w", dec.name, err)
		}
		*dec.dst = point
	}
	balance := elgamal.NewCiphertext()
	if err := balance.Deserialize(p.Balance); err != nil {
		return nil, fmt.Errorf("invalid balance ciphertext: %w", err)
	}
	t.Balance = balance
	return t, nil
}

// newConfidentialPayload assembles the unsigned payload from the native
// transfer points.
func newConfidentialPayload(t *confidential.Transfer, proof []byte) *ConfidentialPayload {
	return &ConfidentialPayload{
		Proof:        proof,
		SenderKey:    t.SenderKey.Bytes(),
		RecipientKey: t.RecipientKey.Bytes(),
		LSender:      t.LSender.Marshal(),
		LRecipient:   t.LRecipient.Marshal(),
		LFee:         t.LFee.Marshal(),
		R:            t.R.Marshal(),
		Rvk:          t.Rvk.Marshal(),
		Balance:      t.Balance.Serialize(),
		Epoch:        t.Epoch,
		Nonce:        t.Nonce.Marshal(),
	}
}

// AnonymousPayload is the wire form of an anonymous transfer. The ring
// balances are deliberately absent: the verifier folds in its own confirmed
// balances, which forces the prover to build the proof against the state
// the network will actually apply it to.
type AnonymousPayload struct {
	Proof     types.HexBytes   `json:"proof" cbor:"1,keyasint"`
	Keys      []types.HexBytes `json:"keys" cbor:"2,keyasint"`
	L         []types.HexBytes `json:"l" cbor:"3,keyasint"`
	R         types.HexBytes   `json:"r" cbor:"4,keyasint"`
	Rvk       types.HexBytes   `json:"rvk" cbor:"5,keyasint"`
	Epoch     uint32           `json:"epoch" cbor:"6,keyasint"`
	Nonce     types.HexBytes   `json:"nonce" cbor:"7,keyasint"`
	Signature types.HexBytes   `json:"signature" cbor:"8,keyasint,omitempty"`
}

// SigningBody returns the canonical byte string the RedDSA signature covers.
func (p *AnonymousPayload) SigningBody() ([]byte, error) {
	body := *p
	body.Signature = nil
	return cbor.Marshal(&body)
}

// Transfer decodes and vets the published points, folding in the confirmed
// ring balances supplied by the caller's state.
func (p *AnonymousPayload) Transfer(balances []*elgamal.Ciphertext) (*anonymous.Transfer, error) {
	if len(p.Keys) != anonymous.Size || len(p.L) != anonymous.Size {
		return nil, fmt.Errorf("ring size %d, expected %d", len(p.Keys), anonymous.Size)
	}
	if len(balances) != anonymous.Size {
		return nil, fmt.Errorf("balance count %d, expected %d", len(balances), anonymous.Size)
	}
	t := &anonymous.Transfer{Epoch: p.Epoch}
	for i := range p.Keys {
		key, err := keys.EncryptionKeyFromBytes(p.Keys[i])
		if err != nil {
			return nil, fmt.Errorf("invalid ring key %d: %w", i, err)
		}
		t.Keys[i] = key
		point := new(jubjub.Point)
		if err := point.UnmarshalChecked(p.L[i]); err != nil {
			return nil, fmt.Errorf("invalid l point %d: %w", i, err)
		}
		t.L[i] = point
		if balances[i] == nil {
			t.Balances[i] = elgamal.NewCiphertext()
		} else {
			t.Balances[i] = balances[i]
		}
	}
	for _, dec := range []struct {
		name string
		buf  types.HexBytes
		dst  **jubjub.Point
	}{
		{"r", p.R, &t.R},
		{"rvk", p.Rvk, &t.Rvk},
		{"nonce", p.Nonce, &t.Nonce},
	} {
		point := new(jubjub.Point)
		if err := point.UnmarshalChecked(dec.buf); err != nil {
			return nil, fmt.Errorf("invalid %s point: %w", dec.name, err)
		}
		*dec.dst = point
	}
	return t, nil
}

// newAnonymousPayload assembles the unsigned payload from the native
// transfer points.
func newAnonymousPayload(t *anonymous.Transfer, proof []byte) *AnonymousPayload {
	p := &AnonymousPayload{
		Proof: proof,
		R:     t.R.Marshal(),
		Rvk:   t.Rvk.Marshal(),
		Epoch: t.Epoch,
		Nonce: t.Nonce.Marshal(),
	}
	for i := range t.Keys {
		p.Keys = append(p.Keys, types.HexBytes(t.Keys[i].Bytes()))
		p.L = append(p.L, types.HexBytes(t.L[i].Marshal()))
	}
	return p
}
