// Package services holds the application core: each service
// implements one driving port and expresses business rules purely in
// terms of driven ports. Nothing side-effectful lives here; storage,
// embeddings, vendors, and clocks all arrive through interfaces.
package services
