// Package internaldefs holds the shared metric name/help definitions
// used by the Prometheus and OTel exporters.
package internaldefs
