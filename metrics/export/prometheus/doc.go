// Package prometheus renders engine metrics in the Prometheus text
// exposition format, served from a plain http.Handler.
package prometheus
