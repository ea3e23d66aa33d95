package responder

import "errors"

// Sentinel errors for responder construction and turns.
var (
	ErrNilInvoker          = errors.New("invoker is required")
	ErrUnknownStrategy     = errors.New("unknown context strategy")
	ErrNoContinuationToken = errors.New("invocation returned no continuation token")
)
