// Package config holds the deployment parameters of a zech node. Everything
// here is operator-facing; protocol constants live in the types package.
package config

// Config collects the tunable parameters of the node.
type Config struct {
	// DataDir is the directory holding the account database and the Groth16
	// proving and verifying keys.
	DataDir string

	// ListenHost and ListenPort configure the HTTP API.
	ListenHost string
	ListenPort int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// EpochLength is the number of blocks per epoch. The nonce pool is
	// rotated and pending balances become eligible for rollover at every
	// epoch boundary.
	EpochLength uint64

	// BruteBound is the exclusive upper bound searched by the discrete-log
	// recovery in ElGamal decryption. Raising it permits larger balances at
	// the cost of slower decryption; it never affects the verifier.
	BruteBound uint64
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() *Config {
	return &Config{
		DataDir:     ".zech",
		ListenHost:  "0.0.0.0",
		ListenPort:  8545,
		LogLevel:    "info",
		EpochLength: 32,
		BruteBound:  1 << 20,
	}
}
