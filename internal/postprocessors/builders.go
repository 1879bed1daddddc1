package postprocessors

import (
	"fmt"
	"sort"

	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/postprocessors/chunker"
)

// Builder constructs a processor from its config table, as parsed out of
// the user's TOML.
type Builder func(cfg map[string]any) (driven.PostProcessor, error)

// builders is the fixed set of processors a pipeline can name. New
// processors are added here.
var builders = map[string]Builder{
	"chunker": buildChunker,
}

// Build constructs the named processor.
func Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown processor %q (known: %v)", name, Known())
	}
	return builder(cfg)
}

// Known lists the buildable processor names, sorted.
func Known() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildChunker reads chunk_size, overlap and threshold from cfg; keys
// left out keep the chunker's defaults. Overlap zero is meaningful, so
// presence is checked before the value.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size := intValue(cfg, "chunk_size"); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if _, ok := cfg["overlap"]; ok {
		if overlap := intValue(cfg, "overlap"); overlap >= 0 {
			opts = append(opts, chunker.WithOverlap(overlap))
		}
	}
	if threshold := intValue(cfg, "threshold"); threshold > 0 {
		opts = append(opts, chunker.WithThreshold(threshold))
	}

	return chunker.New(opts...)
}

// intValue tolerates the numeric types TOML and JSON decoders produce.
func intValue(cfg map[string]any, key string) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
