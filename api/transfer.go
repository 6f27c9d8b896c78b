package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zechproject/zech-core/circuits/anonymous"
	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/prover"
	"github.com/zechproject/zech-core/state"
	"github.com/zechproject/zech-core/types"
)

// TransferResponse acknowledges an applied transfer with the nonce that now
// sits in the epoch pool.
type TransferResponse struct {
	Epoch uint32         `json:"epoch"`
	Nonce types.HexBytes `json:"nonce"`
}

// newConfidentialTransfer verifies and applies a confidential transfer
// POST /transfers/confidential
func (a *API) newConfidentialTransfer(w http.ResponseWriter, r *http.Request) {
	payload := &prover.ConfidentialPayload{}
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if payload.Epoch != a.state.CurrentEpoch() {
		ErrWrongEpoch.Withf("payload epoch %d, current %d", payload.Epoch, a.state.CurrentEpoch()).Write(w)
		return
	}
	transfer, err := payload.Transfer()
	if err != nil {
		ErrMalformedPayload.WithErr(err).Write(w)
		return
	}
	err = a.state.ProcessConfidential(transfer, func() error {
		return a.prover.VerifyConfidential(payload)
	})
	if err != nil {
		writeTransferError(w, err)
		return
	}
	httpWriteJSON(w, &TransferResponse{
		Epoch: transfer.Epoch,
		Nonce: transfer.Nonce.Marshal(),
	})
}

// newAnonymousTransfer verifies and applies an anonymous transfer
// POST /transfers/anonymous
func (a *API) newAnonymousTransfer(w http.ResponseWriter, r *http.Request) {
	payload := &prover.AnonymousPayload{}
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if payload.Epoch != a.state.CurrentEpoch() {
		ErrWrongEpoch.Withf("payload epoch %d, current %d", payload.Epoch, a.state.CurrentEpoch()).Write(w)
		return
	}
	// The ring balances are read inside the state's critical section, so the
	// transfer is first decoded against placeholders.
	placeholder := make([]*elgamal.Ciphertext, anonymous.Size)
	transfer, err := payload.Transfer(placeholder)
	if err != nil {
		ErrMalformedPayload.WithErr(err).Write(w)
		return
	}
	err = a.state.ProcessAnonymous(transfer, func(balances []*elgamal.Ciphertext) error {
		return a.prover.VerifyAnonymous(payload, balances)
	})
	if err != nil {
		writeTransferError(w, err)
		return
	}
	httpWriteJSON(w, &TransferResponse{
		Epoch: transfer.Epoch,
		Nonce: transfer.Nonce.Marshal(),
	})
}

// writeTransferError maps state and prover errors to API error responses.
func writeTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrNonceUsed):
		ErrNonceAlreadyUsed.Write(w)
	case errors.Is(err, state.ErrStaleBalance):
		ErrStaleBalance.Write(w)
	case errors.Is(err, prover.ErrInvalidProof):
		ErrInvalidTransferProof.WithErr(err).Write(w)
	default:
		ErrGenericInternalServerError.WithErr(err).Write(w)
	}
}
