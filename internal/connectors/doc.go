// Package connectors provides implementations of the Connector interface
// for the supported lifelog vendors. Each connector knows how to fetch raw
// records from one vendor API (Limitless, Bee) or from a local export
// directory, handling pagination and rate limiting internally.
//
// Connectors are registered with the Registry at startup.
package connectors
