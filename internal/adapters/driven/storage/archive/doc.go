// Package archive provides the file-backed implementation of the entry
// store. An archive is a matched pair of artifacts in one directory:
//
//   - entries.json: the ordered entry metadata sequence
//   - index.bin: the flat vector index, one vector per entry
//
// Entry i in the metadata sequence owns vector i in the index; every
// operation preserves that pairing. The pair is only trusted together:
// when either artifact is missing, unreadable, or their sizes disagree,
// the store starts empty rather than serving a torn state.
//
// # Data Location
//
// By default, the artifacts are stored under ~/.pensieve/data
//
// # Thread Safety
//
// All operations are thread-safe. A single RWMutex guards the metadata
// sequence; the index carries its own lock.
package archive
