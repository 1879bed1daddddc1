// Package flat provides an exact L2 nearest-neighbour index over dense
// float32 vectors. Vectors live in one contiguous in-memory slab and
// every search scans all of them, so results are exact rather than
// approximate. The index is append-only; deletions are handled by the
// store rebuilding it.
package flat

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.VectorIndex = (*Index)(nil)

// fileMagic identifies the index file format.
const fileMagic = "PFI1"

// headerSize is magic (4) + dimensions (4) + count (8).
const headerSize = 16

// Index is an in-memory exact L2 index with binary file persistence.
type Index struct {
	mu   sync.RWMutex
	dims int
	data []float32 // row-major, len(data) == count*dims
}

// New creates an empty index for vectors of the given dimensions.
func New(dims int) (*Index, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dims)
	}
	return &Index{dims: dims}, nil
}

// Add appends vectors and returns the position assigned to the first.
// Nothing is stored when any vector has the wrong dimensions.
func (ix *Index) Add(_ context.Context, vectors [][]float32) (int, error) {
	for i, v := range vectors {
		if len(v) != ix.dims {
			return 0, fmt.Errorf("%w: vector %d has %d dimensions, index expects %d",
				domain.ErrDimensionMismatch, i, len(v), ix.dims)
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	first := len(ix.data) / ix.dims
	for _, v := range vectors {
		ix.data = append(ix.data, v...)
	}
	return first, nil
}

// Search scans all stored vectors and returns the k nearest, closest
// first. Distance is squared Euclidean over the raw vectors; ordering
// is the same as true L2 and the square root is never needed. Ties
// resolve to the earlier position.
func (ix *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if len(query) != ix.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrDimensionMismatch, len(query), ix.dims)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	count := len(ix.data) / ix.dims
	hits := make([]driven.VectorHit, count)
	for pos := 0; pos < count; pos++ {
		row := ix.data[pos*ix.dims : (pos+1)*ix.dims]
		var sum float64
		for j, q := range query {
			d := float64(q) - float64(row[j])
			sum += d * d
		}
		hits[pos] = driven.VectorHit{
			Position: pos,
			Distance: float32(sum),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.data) / ix.dims
}

// Dimensions returns the vector size the index accepts.
func (ix *Index) Dimensions() int {
	return ix.dims
}

// Reset drops all stored vectors, keeping the dimensions.
func (ix *Index) Reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.data = nil
}

// Save writes the index to path atomically (temp file then rename).
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	count := len(ix.data) / ix.dims
	buf := make([]byte, headerSize+len(ix.data)*4)
	copy(buf[0:4], fileMagic)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(ix.dims))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(count))
	for i, f := range ix.data {
		binary.LittleEndian.PutUint32(buf[headerSize+i*4:], math.Float32bits(f))
	}
	ix.mu.RUnlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create index directory: %w", domain.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write index: %w", domain.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %w", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename index: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Load replaces the index contents from path.
// The file's dimensions must match the index's.
func (ix *Index) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read index: %w", domain.ErrPersistence, err)
	}
	if len(raw) < headerSize || string(raw[0:4]) != fileMagic {
		return fmt.Errorf("%w: not an index file: %s", domain.ErrPersistence, path)
	}

	dims := int(binary.LittleEndian.Uint32(raw[4:8]))
	count := int(binary.LittleEndian.Uint64(raw[8:16]))
	if dims != ix.dims {
		return fmt.Errorf("%w: file has %d dimensions, index expects %d",
			domain.ErrDimensionMismatch, dims, ix.dims)
	}
	want := headerSize + count*dims*4
	if len(raw) != want {
		return fmt.Errorf("%w: index file truncated: %d bytes, want %d",
			domain.ErrPersistence, len(raw), want)
	}

	data := make([]float32, count*dims)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[headerSize+i*4:]))
	}

	ix.mu.Lock()
	ix.data = data
	ix.mu.Unlock()
	return nil
}

// Close releases resources.
func (ix *Index) Close() error {
	return nil
}
