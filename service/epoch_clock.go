package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vocdoni/arbo/memdb"

	"github.com/zechproject/zech-core/log"
	"github.com/zechproject/zech-core/state"
)

// EpochClock represents a service that advances the state's block height on
// a fixed interval and rotates the nonce pool at epoch boundaries.
type EpochClock struct {
	state     *state.State
	interval  time.Duration
	keepPools uint32
	mu        sync.Mutex
	cancel    context.CancelFunc
}

// NewEpochClock creates a new EpochClock service. If st is nil, it uses a
// state over memory storage. keepPools is the number of past epoch nonce
// pools to retain besides the current one.
func NewEpochClock(st *state.State, interval time.Duration, keepPools uint32) *EpochClock {
	if st == nil {
		st = state.New(memdb.New())
	}
	return &EpochClock{
		state:     st,
		interval:  interval,
		keepPools: keepPools,
	}
}

// Start begins ticking blocks. It returns an error if the service is
// already running.
func (ec *EpochClock) Start(ctx context.Context) error {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.cancel != nil {
		return fmt.Errorf("service already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	ec.cancel = cancel

	go ec.tick(ctx)
	return nil
}

// Stop halts the clock.
func (ec *EpochClock) Stop() {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.cancel != nil {
		ec.cancel()
		ec.cancel = nil
	}
}

func (ec *EpochClock) tick(ctx context.Context) {
	ticker := time.NewTicker(ec.interval)
	defer ticker.Stop()

	epoch := ec.state.CurrentEpoch()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			next := ec.state.AdvanceBlock()
			if next == epoch {
				continue
			}
			log.Infow("epoch boundary", "epoch", next, "height", ec.state.Height())
			epoch = next
			if next > ec.keepPools {
				if err := ec.state.PruneNonces(next - ec.keepPools); err != nil {
					log.Warnw("failed to prune nonce pools", "error", err)
				}
			}
		}
	}
}
