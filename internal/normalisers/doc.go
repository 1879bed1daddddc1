// Package normalisers provides implementations of the Normaliser interface
// for the supported lifelog vendors. Each normaliser knows how to extract
// entry text and timestamps from one vendor's payload shape.
//
// Normalisers are registered with the Registry at startup.
package normalisers
