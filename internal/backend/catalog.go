// Package backend enumerates the compute backends built into this binary.
package backend

import (
	"fmt"

	"github.com/san-kum/moldyn/internal/backend/parallel"
	"github.com/san-kum/moldyn/internal/backend/reference"
	"github.com/san-kum/moldyn/internal/engine"
)

// All returns every available backend. The caller (usually engine.NewContext)
// picks the fastest one supporting the operations it needs.
func All() []engine.Backend {
	return []engine.Backend{reference.New(), parallel.New()}
}

// ByName returns the single named backend, for forcing a choice from config.
func ByName(name string) (engine.Backend, error) {
	for _, b := range All() {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: no backend named %q", engine.ErrNoBackend, name)
}
