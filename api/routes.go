package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// EpochEndpoint reports the current epoch and block height
	EpochEndpoint = "/epoch"
	// InfoEndpoint reports the node's deployment parameters
	InfoEndpoint = "/info"
	// AccountEndpoint returns the account state for an encryption key
	AccountURLParam = "key"
	AccountEndpoint = "/accounts/{" + AccountURLParam + "}"
	// ConfidentialTransferEndpoint is the endpoint for submitting a
	// confidential transfer payload
	ConfidentialTransferEndpoint = "/transfers/confidential"
	// AnonymousTransferEndpoint is the endpoint for submitting an
	// anonymous transfer payload
	AnonymousTransferEndpoint = "/transfers/anonymous"
)
