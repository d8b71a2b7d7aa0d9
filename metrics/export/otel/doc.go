// Package otel bridges engine metrics into OpenTelemetry observable
// instruments via a registered meter callback.
package otel
