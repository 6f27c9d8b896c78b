// Package service wraps the node's long-running pieces with start/stop
// lifecycles so cmd binaries can compose them.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zechproject/zech-core/api"
	"github.com/zechproject/zech-core/log"
	"github.com/zechproject/zech-core/prover"
	"github.com/zechproject/zech-core/state"
)

// apiShutdownTimeout bounds how long Stop waits for in-flight requests.
const apiShutdownTimeout = 5 * time.Second

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	state      *state.State
	prover     *prover.Prover
	api        *api.API
	mu         sync.Mutex
	host       string
	port       int
	bruteBound uint64
}

// NewAPI creates a new APIService instance on top of an existing state and
// prover. bruteBound is advertised to clients on the info endpoint; zero
// selects the default.
func NewAPI(st *state.State, prv *prover.Prover, host string, port int, bruteBound uint64) *APIService {
	return &APIService{
		state:      st,
		prover:     prv,
		host:       host,
		port:       port,
		bruteBound: bruteBound,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to bind the listener.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.api != nil {
		return fmt.Errorf("service already running")
	}

	a, err := api.New(&api.APIConfig{
		Host:       as.host,
		Port:       as.port,
		State:      as.state,
		Prover:     as.prover,
		BruteBound: as.bruteBound,
	})
	if err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	as.api = a
	return nil
}

// Stop halts the API server and releases its listener.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.api == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), apiShutdownTimeout)
	defer cancel()
	if err := as.api.Shutdown(ctx); err != nil {
		log.Warnw("failed to stop API server", "error", err)
	}
	as.api = nil
}

// HostPort returns the host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.host, as.port
}
