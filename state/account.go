package state

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/types"
)

// Account is the per-address record the verifier keeps: the confirmed
// balance spendable right now, the pending transfers accumulated since the
// last rollover, and the epoch of that rollover.
type Account struct {
	Balance      *elgamal.Ciphertext `json:"balance"`
	Pending      *elgamal.Ciphertext `json:"pending"`
	LastRollover uint32              `json:"lastRollover"`
}

// NewAccount returns a fresh account with identity balances.
func NewAccount() *Account {
	return &Account{
		Balance: elgamal.NewCiphertext(),
		Pending: elgamal.NewCiphertext(),
	}
}

// storedAccount is the CBOR representation on disk.
type storedAccount struct {
	Balance      types.HexBytes `cbor:"1,keyasint"`
	Pending      types.HexBytes `cbor:"2,keyasint"`
	LastRollover uint32         `cbor:"3,keyasint"`
}

func (a *Account) encode() ([]byte, error) {
	return cbor.Marshal(&storedAccount{
		Balance:      a.Balance.Serialize(),
		Pending:      a.Pending.Serialize(),
		LastRollover: a.LastRollover,
	})
}

func decodeAccount(data []byte) (*Account, error) {
	stored := &storedAccount{}
	if err := cbor.Unmarshal(data, stored); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}
	a := NewAccount()
	if err := a.Balance.Deserialize(stored.Balance); err != nil {
		return nil, fmt.Errorf("corrupt balance ciphertext: %w", err)
	}
	if err := a.Pending.Deserialize(stored.Pending); err != nil {
		return nil, fmt.Errorf("corrupt pending ciphertext: %w", err)
	}
	a.LastRollover = stored.LastRollover
	return a, nil
}
