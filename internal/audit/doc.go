// Package audit defines the structured event model and sinks used by
// the engine's asynchronous audit dispatcher.
package audit
