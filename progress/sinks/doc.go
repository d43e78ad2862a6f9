// Package sinks holds the built-in progress.Sink implementations: structured
// zap logging and Prometheus collectors.
package sinks
