package service

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/arbo/memdb"

	"github.com/zechproject/zech-core/state"
)

func TestEpochClock(t *testing.T) {
	c := qt.New(t)

	st := state.New(memdb.New())
	defer st.Close()
	st.SetEpochLength(5)

	clock := NewEpochClock(st, 10*time.Millisecond, 1)
	ctx := context.Background()

	c.Assert(clock.Start(ctx), qt.IsNil)
	defer clock.Stop()
	c.Assert(clock.Start(ctx), qt.ErrorMatches, "service already running")

	// Wait for the clock to cross at least one epoch boundary.
	deadline := time.Now().Add(5 * time.Second)
	for st.CurrentEpoch() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("clock never advanced an epoch")
		}
		time.Sleep(10 * time.Millisecond)
	}

	clock.Stop()
	height := st.Height()
	time.Sleep(50 * time.Millisecond)
	c.Assert(st.Height(), qt.Equals, height)
}
