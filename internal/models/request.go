package models

import (
	"path/filepath"

	"github.com/pkg/errors"
)

// Request is a fully resolved conversion request. It is built once by a
// RequestBuilder and passed by value afterwards.
type Request struct {
	InputDir       string
	OutputDir      string
	ModelType      ModelType
	Recursive      bool
	EmitComponents bool
	OptimizeForWeb bool
	ForceOverwrite bool
	// OnlyComponents skips model conversion (tsx-gen).
	OnlyComponents bool
}

// RequestBuilder merges flag values and prompt answers.
// Flags always win: a Fill* call never overrides a value set from a flag.
type RequestBuilder struct {
	inputDir       string
	outputDir      string
	modelType      *ModelType
	recursive      bool
	emitComponents *bool
	optimize       *bool
	force          bool
	onlyComponents bool
}

func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

func (b *RequestBuilder) InputDir(dir string) *RequestBuilder {
	b.inputDir = dir
	return b
}

func (b *RequestBuilder) OutputDir(dir string) *RequestBuilder {
	b.outputDir = dir
	return b
}

func (b *RequestBuilder) Recursive(v bool) *RequestBuilder {
	b.recursive = v
	return b
}

func (b *RequestBuilder) Force(v bool) *RequestBuilder {
	b.force = v
	return b
}

func (b *RequestBuilder) OnlyComponents() *RequestBuilder {
	b.onlyComponents = true
	t := true
	b.emitComponents = &t
	return b
}

// ModelTypeFlag sets the model type from a flag; nil means "ask".
func (b *RequestBuilder) ModelTypeFlag(m *ModelType) *RequestBuilder {
	if m != nil {
		v := *m
		b.modelType = &v
	}
	return b
}

// ComponentsFlag sets component emission from a flag; nil means "ask".
func (b *RequestBuilder) ComponentsFlag(v *bool) *RequestBuilder {
	if v != nil && !b.onlyComponents {
		c := *v
		b.emitComponents = &c
	}
	return b
}

// OptimizeFlag sets web optimization from a flag; nil means "ask".
func (b *RequestBuilder) OptimizeFlag(v *bool) *RequestBuilder {
	if v != nil {
		c := *v
		b.optimize = &c
	}
	return b
}

func (b *RequestBuilder) NeedsModelType() bool  { return b.modelType == nil }
func (b *RequestBuilder) NeedsComponents() bool { return b.emitComponents == nil }
func (b *RequestBuilder) NeedsOptimize() bool   { return b.optimize == nil }

// FillModelType applies a prompt answer unless a flag already decided.
func (b *RequestBuilder) FillModelType(m ModelType) *RequestBuilder {
	if b.modelType == nil {
		b.modelType = &m
	}
	return b
}

func (b *RequestBuilder) FillComponents(v bool) *RequestBuilder {
	if b.emitComponents == nil {
		b.emitComponents = &v
	}
	return b
}

func (b *RequestBuilder) FillOptimize(v bool) *RequestBuilder {
	if b.optimize == nil {
		b.optimize = &v
	}
	return b
}

// Build validates and returns the request. Missing decisions fall back to
// defaults: all model types, no components, optimization on.
func (b *RequestBuilder) Build() (Request, error) {
	if b.inputDir == "" {
		return Request{}, errors.New("input directory is required")
	}
	if b.outputDir == "" {
		return Request{}, errors.New("output directory is required")
	}
	if !filepath.IsAbs(b.inputDir) || !filepath.IsAbs(b.outputDir) {
		return Request{}, errors.Errorf("paths must be absolute (input %q, output %q)", b.inputDir, b.outputDir)
	}

	req := Request{
		InputDir:       filepath.Clean(b.inputDir),
		OutputDir:      filepath.Clean(b.outputDir),
		ModelType:      All,
		Recursive:      b.recursive,
		OptimizeForWeb: true,
		ForceOverwrite: b.force,
		OnlyComponents: b.onlyComponents,
	}
	if b.modelType != nil {
		m, err := ParseModelType(string(*b.modelType))
		if err != nil {
			return Request{}, err
		}
		req.ModelType = m
	}
	if b.emitComponents != nil {
		req.EmitComponents = *b.emitComponents
	}
	if b.optimize != nil {
		req.OptimizeForWeb = *b.optimize
	}
	return req, nil
}
