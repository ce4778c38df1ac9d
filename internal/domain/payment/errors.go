package payment

import "errors"

var (
	// ErrTransactionNotFound indicates no transaction matched the lookup.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrAlreadyFinalized indicates a result arrived for a transaction
	// that already reached a terminal status.
	ErrAlreadyFinalized = errors.New("transaction already finalized")
	// ErrInvalidAmount indicates a non-positive payment amount.
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrGatewayUnavailable indicates the payment gateway could not be
	// reached or rejected the request outright.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
