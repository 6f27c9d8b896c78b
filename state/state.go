// Package state implements the verifier-side account state machine: per
// account a confirmed and a pending encrypted balance with epoch-based
// rollover, and a per-epoch nonce pool for replay protection. Every transfer
// is applied inside one critical section running from rollover to nonce
// insertion, so concurrent submissions serialize cleanly.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"

	"github.com/zechproject/zech-core/circuits/anonymous"
	"github.com/zechproject/zech-core/circuits/confidential"
	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/crypto/jubjub"
	"github.com/zechproject/zech-core/crypto/keys"
	"github.com/zechproject/zech-core/log"
)

var (
	accountPrefix = []byte("a/")
	noncePrefix   = []byte("n/")
)

var (
	// ErrNonceUsed rejects a transfer whose epoch nonce is already in the
	// current pool.
	ErrNonceUsed = errors.New("nonce already used in this epoch")
	// ErrStaleBalance rejects a confidential transfer proven against a
	// balance that is no longer the sender's confirmed balance.
	ErrStaleBalance = errors.New("transfer balance does not match confirmed balance")
)

// Epoch maps a block height to its epoch number.
func Epoch(height uint64, epochLength uint64) uint32 {
	if epochLength == 0 {
		return 0
	}
	return uint32(height / epochLength)
}

// DefaultEpochLength is the number of blocks an epoch spans when the
// caller does not configure one.
const DefaultEpochLength = 100

// State is the persistent account and nonce store.
type State struct {
	mu          sync.Mutex
	db          db.Database
	height      uint64
	epochLength uint64
}

// New creates a State on top of the given database.
func New(database db.Database) *State {
	return &State{db: database, epochLength: DefaultEpochLength}
}

// SetEpochLength sets the number of blocks per epoch.
func (s *State) SetEpochLength(blocks uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if blocks > 0 {
		s.epochLength = blocks
	}
}

// EpochLength returns the number of blocks per epoch.
func (s *State) EpochLength() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochLength
}

// CurrentEpoch returns the epoch of the current block height.
func (s *State) CurrentEpoch() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Epoch(s.height, s.epochLength)
}

// Height returns the current block height.
func (s *State) Height() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// AdvanceBlock increments the block height and returns the epoch it lands
// in, so callers can react to epoch boundaries.
func (s *State) AdvanceBlock() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.height++
	return Epoch(s.height, s.epochLength)
}

// SetEpoch jumps the block height to the first block of the given epoch.
// Heights only move forward.
func (s *State) SetEpoch(epoch uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := uint64(epoch) * s.epochLength
	if h > s.height {
		s.height = h
	}
}

// Close closes the underlying database.
func (s *State) Close() error {
	return s.db.Close()
}

// Account returns the stored account for the key, or a fresh one with
// identity balances if the key has never been seen.
func (s *State) Account(ek *keys.EncryptionKey) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rTx := prefixeddb.NewPrefixedReader(s.db, accountPrefix)
	return readAccount(rTx, ek.Bytes())
}

type reader interface {
	Get(key []byte) ([]byte, error)
}

func readAccount(r reader, key []byte) (*Account, error) {
	data, err := r.Get(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return NewAccount(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read account: %w", err)
	}
	return decodeAccount(data)
}

func writeAccount(w db.WriteTx, key []byte, a *Account) error {
	data, err := a.encode()
	if err != nil {
		return err
	}
	return w.Set(key, data)
}

// rollover folds the pending balance into the confirmed balance if the
// account has not rolled over in the current epoch yet. Idempotent within
// an epoch.
func rollover(a *Account, epoch uint32) {
	if a.LastRollover >= epoch {
		return
	}
	a.Balance.Add(a.Balance, a.Pending)
	a.Pending = elgamal.NewCiphertext()
	a.LastRollover = epoch
}

// Rollover folds the account's pending balance into its confirmed balance
// for the given epoch and persists the result.
func (s *State) Rollover(ek *keys.EncryptionKey, epoch uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), accountPrefix)
	defer wTx.Discard()
	a, err := readAccount(wTx, ek.Bytes())
	if err != nil {
		return err
	}
	rollover(a, epoch)
	if err := writeAccount(wTx, ek.Bytes(), a); err != nil {
		return err
	}
	return wTx.Commit()
}

func nonceKey(epoch uint32, nonce *jubjub.Point) []byte {
	key := make([]byte, 4, 4+32)
	binary.BigEndian.PutUint32(key, epoch)
	return append(key, nonce.Marshal()...)
}

// NonceUsed reports whether the nonce was already consumed in the epoch.
func (s *State) NonceUsed(epoch uint32, nonce *jubjub.Point) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rTx := prefixeddb.NewPrefixedReader(s.db, noncePrefix)
	_, err := rTx.Get(nonceKey(epoch, nonce))
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ProcessConfidential applies a confidential transfer: rollover of both
// parties, balance and nonce checks, the caller's pure verification, then
// the homomorphic balance updates. Either everything is applied or nothing
// is.
func (s *State) ProcessConfidential(t *confidential.Transfer, verify func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	baseTx := s.db.WriteTx()
	defer baseTx.Discard()
	accounts := prefixeddb.NewPrefixedWriteTx(baseTx, accountPrefix)
	nonces := prefixeddb.NewPrefixedWriteTx(baseTx, noncePrefix)

	senderKey := t.SenderKey.Bytes()
	recipientKey := t.RecipientKey.Bytes()
	sender, err := readAccount(accounts, senderKey)
	if err != nil {
		return err
	}
	rollover(sender, t.Epoch)
	recipient := sender
	if string(recipientKey) != string(senderKey) {
		if recipient, err = readAccount(accounts, recipientKey); err != nil {
			return err
		}
		rollover(recipient, t.Epoch)
	}

	// The proof only talks about the balance it was built against.
	if !sender.Balance.Equal(t.Balance) {
		return ErrStaleBalance
	}
	if verify != nil {
		if err := verify(); err != nil {
			return err
		}
	}
	if _, err := nonces.Get(nonceKey(t.Epoch, t.Nonce)); err == nil {
		return ErrNonceUsed
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		return err
	}

	// Subtract amount and fee from the sender's confirmed balance. The R
	// component doubles because amount and fee share one nonce.
	outgoing := elgamal.NewCiphertext()
	outgoing.L.Add(t.LSender, t.LFee)
	outgoing.R.Add(t.R, t.R)
	sender.Balance.Sub(sender.Balance, outgoing)

	// Credit the recipient's pending balance.
	incoming := elgamal.NewCiphertext()
	incoming.L.Set(t.LRecipient)
	incoming.R.Set(t.R)
	recipient.Pending.Add(recipient.Pending, incoming)

	if err := writeAccount(accounts, senderKey, sender); err != nil {
		return err
	}
	if recipient != sender {
		if err := writeAccount(accounts, recipientKey, recipient); err != nil {
			return err
		}
	}
	if err := nonces.Set(nonceKey(t.Epoch, t.Nonce), []byte{1}); err != nil {
		return err
	}
	if err := baseTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	log.Debugw("confidential transfer applied", "epoch", t.Epoch)
	return nil
}

// ProcessAnonymous applies an anonymous transfer: rollover of every ring
// account, the caller's pure verification against the rolled-over confirmed
// balances, nonce check, then a uniform pending credit to every slot.
func (s *State) ProcessAnonymous(t *anonymous.Transfer, verify func(balances []*elgamal.Ciphertext) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	baseTx := s.db.WriteTx()
	defer baseTx.Discard()
	accounts := prefixeddb.NewPrefixedWriteTx(baseTx, accountPrefix)
	nonces := prefixeddb.NewPrefixedWriteTx(baseTx, noncePrefix)

	// Ring slots may alias the same account; every key loads exactly once so
	// pending credits accumulate instead of overwriting each other.
	ring := make([]*Account, len(t.Keys))
	balances := make([]*elgamal.Ciphertext, len(t.Keys))
	loaded := make(map[string]*Account, len(t.Keys))
	for i, ek := range t.Keys {
		key := string(ek.Bytes())
		a, ok := loaded[key]
		if !ok {
			var err error
			if a, err = readAccount(accounts, ek.Bytes()); err != nil {
				return err
			}
			rollover(a, t.Epoch)
			loaded[key] = a
		}
		ring[i] = a
		balances[i] = a.Balance
	}
	if verify != nil {
		if err := verify(balances); err != nil {
			return err
		}
	}
	if _, err := nonces.Get(nonceKey(t.Epoch, t.Nonce)); err == nil {
		return ErrNonceUsed
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		return err
	}

	// Every slot gets the same treatment; the sender's slot carries the
	// negated amount so pending accumulates the correct signed change.
	for i := range ring {
		incoming := elgamal.NewCiphertext()
		incoming.L.Set(t.L[i])
		incoming.R.Set(t.R)
		ring[i].Pending.Add(ring[i].Pending, incoming)
		if err := writeAccount(accounts, t.Keys[i].Bytes(), ring[i]); err != nil {
			return err
		}
	}
	if err := nonces.Set(nonceKey(t.Epoch, t.Nonce), []byte{1}); err != nil {
		return err
	}
	if err := baseTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	log.Debugw("anonymous transfer applied", "epoch", t.Epoch, "ring", len(ring))
	return nil
}

// PruneNonces deletes nonce pool entries of epochs before the given one.
// Pool entries are keyed by epoch, so pruning is garbage collection rather
// than a correctness requirement.
func (s *State) PruneNonces(beforeEpoch uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := prefixeddb.NewPrefixedDatabase(s.db, noncePrefix)
	wTx := pool.WriteTx()
	defer wTx.Discard()
	deleted := 0
	err := pool.Iterate(nil, func(key, _ []byte) bool {
		if len(key) < 4 || binary.BigEndian.Uint32(key[:4]) >= beforeEpoch {
			return true
		}
		if err := wTx.Delete(append([]byte{}, key...)); err != nil {
			log.Warnw("could not delete nonce pool entry", "error", err)
		} else {
			deleted++
		}
		return true
	})
	if err != nil {
		return err
	}
	log.Debugw("nonce pool pruned", "deleted", deleted, "beforeEpoch", beforeEpoch)
	return wTx.Commit()
}
