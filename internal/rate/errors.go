package rate

import "errors"

var (
	// ErrThrottled is returned when a source has exceeded its
	// invalid-token budget for the current window.
	ErrThrottled = errors.New("invalid token attempts throttled")
	// ErrRedisUnavailable wraps Redis transport failures. Callers
	// degrade open on this error; a throttle outage never rejects
	// legitimate requests.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
