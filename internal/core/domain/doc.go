// Package domain defines the core entities of the lifelog archive.
// It has no dependencies on adapters or external libraries.
package domain
