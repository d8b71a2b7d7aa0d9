package tokengate

import "errors"

var (
	// ErrSigning wraps failures of the underlying signing primitive
	// during Authenticate. Propagated to the caller; a failing signer
	// indicates misconfiguration, not a transient condition.
	ErrSigning = errors.New("token signing failed")
	// ErrModifierIssue wraps failures to mint the paired modifier token.
	ErrModifierIssue = errors.New("modifier token issue failed")
	// ErrEngineNotReady is returned when an engine method is called on a
	// nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
