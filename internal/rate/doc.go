// Package rate implements the Redis-backed invalid-token throttle.
// Sources that keep presenting rejected tokens are cut off before the
// signer is consulted again.
package rate
