package domain

import "errors"

var (
	// ErrAmountMismatch rejects an order whose claimed total differs from
	// the server-computed price. Nothing is persisted.
	ErrAmountMismatch = errors.New("amount_mismatch")
	// ErrInvalidOrder rejects malformed line items or counts.
	ErrInvalidOrder = errors.New("invalid_order")
	// ErrGatewayUnavailable surfaces a failed or unconfigured gateway call.
	ErrGatewayUnavailable = errors.New("gateway_unavailable")
	// ErrInvalidSignature rejects a webhook whose signature cannot be
	// verified. No handler is dispatched.
	ErrInvalidSignature = errors.New("invalid_signature")
	// ErrInvalidPayload rejects a webhook body that is not a parsable event.
	ErrInvalidPayload = errors.New("invalid_payload")
	// ErrAlreadyProcessed marks a redelivered event for an already-terminal
	// payment. Acknowledged as success, no side effects.
	ErrAlreadyProcessed = errors.New("already_processed")
	// ErrUnknownPayment marks an event whose intent id matches no local
	// payment row.
	ErrUnknownPayment = errors.New("unknown_payment")
)
