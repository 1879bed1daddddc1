// Package driven defines outbound ports: the interfaces the core
// requires from infrastructure (stores, indexes, embedding backends,
// vendor connectors). Adapters under internal/adapters/driven and
// internal/connectors implement them.
package driven
