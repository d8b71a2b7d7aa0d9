// Package tokengate is a per-request authentication layer for
// stateless HTTP services. It issues, transports, verifies, and
// invalidates signed identity tokens, and can pair each primary token
// with an independently transported modifier token so that a stolen
// cookie alone never authenticates a cross-origin request.
//
// The engine resolves every request to exactly one of three states:
// unauthenticated (no token), authenticated (token verified, claims
// available), or invalid (token present but rejected). Verification
// failure is never fatal to a request; the token is removed from the
// transport, an optional hook fires, and downstream guards see the
// invalid state.
//
// Build an engine with the fluent builder:
//
//	engine, err := tokengate.New().
//		WithConfig(cfg).
//		Build()
//
// and guard routes with the middleware package. There is no server-side
// session state: the signed token and its modifier live entirely on the
// client.
package tokengate
