// Package middleware provides net/http middleware around a tokengate
// engine: a Verify stage that resolves the request's identity before
// downstream handlers run, and pure access predicates that allow or
// deny based on the resolved state without ever mutating it.
package middleware
