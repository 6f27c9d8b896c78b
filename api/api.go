// Package api exposes the node's HTTP surface: account queries, epoch info
// and transfer submission. Handlers decode payloads, delegate proof checks
// to the prover and apply transfers through the state machine.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zechproject/zech-core/crypto/elgamal"
	"github.com/zechproject/zech-core/log"
	"github.com/zechproject/zech-core/prover"
	"github.com/zechproject/zech-core/state"
)

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host   string
	Port   int
	State  *state.State
	Prover *prover.Prover
	// BruteBound is the decryption search bound advertised to clients on
	// the info endpoint. Zero falls back to elgamal.DefaultBruteBound.
	BruteBound uint64
}

// API type represents the API HTTP server.
type API struct {
	router     *chi.Mux
	server     *http.Server
	state      *state.State
	prover     *prover.Prover
	bruteBound uint64
}

// New creates a new API instance with the given configuration and starts
// the HTTP server. Binding the listener happens synchronously so a busy
// port surfaces here instead of in a goroutine.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.State == nil {
		return nil, fmt.Errorf("missing state instance")
	}
	a := &API{
		state:      conf.State,
		prover:     conf.Prover,
		bruteBound: conf.BruteBound,
	}
	if a.bruteBound == 0 {
		a.bruteBound = elgamal.DefaultBruteBound
	}

	a.initRouter()
	addr := fmt.Sprintf("%s:%d", conf.Host, conf.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind API server on %s: %w", addr, err)
	}
	a.server = &http.Server{Handler: a.router}
	go func() {
		log.Infow("Starting API server", "host", conf.Host, "port", conf.Port)
		if err := a.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Errorw(err, "API server stopped")
		}
	}()
	return a, nil
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight
// requests up to the context deadline.
func (a *API) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", EpochEndpoint, "method", "GET")
	a.router.Get(EpochEndpoint, a.epoch)
	log.Infow("register handler", "endpoint", InfoEndpoint, "method", "GET")
	a.router.Get(InfoEndpoint, a.info)
	log.Infow("register handler", "endpoint", AccountEndpoint, "method", "GET")
	a.router.Get(AccountEndpoint, a.account)
	log.Infow("register handler", "endpoint", ConfidentialTransferEndpoint, "method", "POST")
	a.router.Post(ConfidentialTransferEndpoint, a.newConfidentialTransfer)
	log.Infow("register handler", "endpoint", AnonymousTransferEndpoint, "method", "POST")
	a.router.Post(AnonymousTransferEndpoint, a.newAnonymousTransfer)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}
