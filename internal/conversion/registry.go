package conversion

import (
	"github.com/pkg/errors"

	"conv3d/internal/models"
)

// Tools names the external converter executables.
type Tools struct {
	FBX2GLTF string
	OBJ2GLTF string
	GLTFJSX  string
}

// Registry holds one adapter per source format.
type Registry struct {
	adapters map[models.Format]Adapter
}

// NewRegistry returns an error unless every source format has an adapter.
func NewRegistry(adapters map[models.Format]Adapter) (*Registry, error) {
	for _, f := range models.SourceFormats {
		if adapters[f] == nil {
			return nil, errors.Errorf("no converter registered for %s", f)
		}
	}
	return &Registry{adapters: adapters}, nil
}

// DefaultRegistry wires the built-in adapters to the given tools.
func DefaultRegistry(tools Tools, runner ToolRunner, optimize bool) (*Registry, error) {
	return NewRegistry(map[models.Format]Adapter{
		models.GLTF: GLTFAdapter{},
		models.OBJ:  &OBJAdapter{Tool: tools.OBJ2GLTF, Runner: runner},
		models.FBX:  &FBXAdapter{Tool: tools.FBX2GLTF, Runner: runner},
		models.GLB:  &ComponentAdapter{Tool: tools.GLTFJSX, Runner: runner, Optimize: optimize},
	})
}

// Adapter returns the adapter for f.
func (r *Registry) Adapter(f models.Format) (Adapter, error) {
	a, ok := r.adapters[f]
	if !ok {
		return nil, errors.Errorf("no converter registered for %s", f)
	}
	return a, nil
}
