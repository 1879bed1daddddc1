package driven

import "context"

// VectorIndex stores embedding vectors and answers exact nearest-neighbour
// queries under L2 distance. The index is append-only: positions are
// assigned in insertion order and never reused. Removing vectors means
// rebuilding the index from scratch (Reset then Add).
type VectorIndex interface {
	// Add appends vectors to the index and returns the position assigned
	// to the first of them. Vectors must match Dimensions.
	Add(ctx context.Context, vectors [][]float32) (int, error)

	// Search returns the k nearest stored vectors to the query by exact
	// L2 distance, closest first. When k exceeds the index size, all
	// stored vectors are returned.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Dimensions returns the vector size the index accepts.
	Dimensions() int

	// Reset drops all stored vectors, keeping the dimensions.
	Reset()

	// Save writes the index to the given path.
	Save(path string) error

	// Load replaces the index contents from the given path.
	Load(path string) error

	// Close releases resources.
	Close() error
}

// VectorHit represents one nearest-neighbour result.
type VectorHit struct {
	// Position is the insertion position of the stored vector.
	Position int

	// Distance is the L2 distance to the query. Lower is closer.
	Distance float32
}
