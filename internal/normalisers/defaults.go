package normalisers

import (
	"github.com/pensieve-labs/pensieve-cli/internal/normalisers/bee"
	"github.com/pensieve-labs/pensieve-cli/internal/normalisers/limitless"
)

// Defaults returns a registry with all vendor normalisers registered.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(limitless.New())
	r.Register(bee.New())
	return r
}
