package api

import (
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"

	"github.com/zechproject/zech-core/circuits"
	"github.com/zechproject/zech-core/crypto/keys"
	"github.com/zechproject/zech-core/types"
)

// AccountResponse is the JSON view of a stored account. Balances are the
// serialized ElGamal ciphertexts, only decryptable by the key owner.
type AccountResponse struct {
	Key          types.HexBytes `json:"key"`
	Balance      types.HexBytes `json:"balance"`
	Pending      types.HexBytes `json:"pending"`
	LastRollover uint32         `json:"lastRollover"`
}

// EpochResponse reports the node's epoch clock.
type EpochResponse struct {
	Epoch  uint32 `json:"epoch"`
	Height uint64 `json:"height"`
}

// InfoResponse reports the deployment parameters a client needs to build
// transfers and decrypt balances against this node.
type InfoResponse struct {
	Epoch       uint32 `json:"epoch"`
	Height      uint64 `json:"height"`
	EpochLength uint64 `json:"epochLength"`
	BruteBound  uint64 `json:"bruteBound"`
	RingSize    int    `json:"ringSize"`
}

// account returns the account state for an encryption key
// GET /accounts/{key}
func (a *API) account(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, AccountURLParam)
	if !strings.HasPrefix(param, "0x") {
		param = "0x" + param
	}
	keyBytes, err := hexutil.Decode(param)
	if err != nil {
		ErrMalformedAccountKey.Withf("could not decode hex key: %v", err).Write(w)
		return
	}
	ek, err := keys.EncryptionKeyFromBytes(keyBytes)
	if err != nil {
		ErrMalformedAccountKey.WithErr(err).Write(w)
		return
	}
	account, err := a.state.Account(ek)
	if err != nil {
		ErrGenericInternalServerError.Withf("could not read account: %v", err).Write(w)
		return
	}
	httpWriteJSON(w, &AccountResponse{
		Key:          ek.Bytes(),
		Balance:      account.Balance.Serialize(),
		Pending:      account.Pending.Serialize(),
		LastRollover: account.LastRollover,
	})
}

// epoch returns the current epoch and block height
// GET /epoch
func (a *API) epoch(w http.ResponseWriter, r *http.Request) {
	httpWriteJSON(w, &EpochResponse{
		Epoch:  a.state.CurrentEpoch(),
		Height: a.state.Height(),
	})
}

// info returns the node's deployment parameters
// GET /info
func (a *API) info(w http.ResponseWriter, r *http.Request) {
	httpWriteJSON(w, &InfoResponse{
		Epoch:       a.state.CurrentEpoch(),
		Height:      a.state.Height(),
		EpochLength: a.state.EpochLength(),
		BruteBound:  a.bruteBound,
		RingSize:    circuits.AnonymitySize,
	})
}
