package api

import (
	"fmt"
	"net/http"
)

// Error codes in the 40001-49999 range are the client's fault and map to
// HTTP 400/404/409; codes 50001-59999 are the server's fault and map to
// 500/503. Never change or reuse a code once assigned, only append.
var (
	ErrResourceNotFound     = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody        = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMalformedAccountKey  = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed account key")}
	ErrMalformedPayload     = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed transfer payload")}
	ErrInvalidTransferProof = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid transfer proof")}
	ErrNonceAlreadyUsed     = Error{Code: 40006, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("nonce already used in this epoch")}
	ErrStaleBalance         = Error{Code: 40007, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("transfer balance is stale")}
	ErrWrongEpoch           = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("transfer epoch is not the current epoch")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
)
