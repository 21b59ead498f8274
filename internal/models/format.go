package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format identifies a model or source file kind handled by the converter.
type Format string

const (
	GLTF Format = "GLTF"
	FBX  Format = "FBX"
	OBJ  Format = "OBJ"
	GLB  Format = "GLB"
	TSX  Format = "TSX"
)

// ModelFormats are the source formats offered for model conversion, in prompt order.
var ModelFormats = []Format{GLTF, FBX, OBJ}

// SourceFormats are all formats that have a converter.
var SourceFormats = []Format{GLTF, FBX, OBJ, GLB}

// transitions maps a source format to the format it is converted into.
var transitions = map[Format]Format{
	GLTF: GLB,
	FBX:  GLB,
	OBJ:  GLB,
	GLB:  TSX,
}

func init() {
	if err := validateTransitions(SourceFormats, transitions); err != nil {
		panic(err)
	}
}

func validateTransitions(sources []Format, table map[Format]Format) error {
	if len(sources) != len(table) {
		return fmt.Errorf("format table has %d entries, expected %d", len(table), len(sources))
	}
	for _, f := range sources {
		if _, ok := table[f]; !ok {
			return fmt.Errorf("no target format for %s", f)
		}
	}
	return nil
}

// Target returns the format f is converted into.
func (f Format) Target() (Format, error) {
	t, ok := transitions[f]
	if !ok {
		return "", errors.Errorf("unsupported source format: %s", f)
	}
	return t, nil
}

// Extension returns the lowercase file extension including the dot, e.g. ".glb".
func (f Format) Extension() string {
	return "." + strings.ToLower(string(f))
}

// Dir returns the output sub-directory name holding files of this format.
func (f Format) Dir() string {
	return strings.ToLower(string(f))
}

// ParseFormat parses a format name such as "fbx", ".FBX" or "Fbx".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if _, ok := transitions[f]; ok {
		return f, nil
	}
	return "", errors.Errorf("invalid format: %q", s)
}

// FormatFromPath infers the source format from the file extension, ignoring case.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.Errorf("no file extension: %s", filepath.Base(path))
	}
	return ParseFormat(ext)
}

// ModelType is the operator's selection of which model formats to convert.
type ModelType string

// All converts every recognized model format.
const All ModelType = "ALL"

// ParseModelType accepts GLTF, FBX, OBJ or ALL, case-insensitive with an optional leading dot.
func ParseModelType(s string) (ModelType, error) {
	v := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if ModelType(v) == All {
		return All, nil
	}
	for _, f := range ModelFormats {
		if string(f) == v {
			return ModelType(v), nil
		}
	}
	return "", errors.Errorf("invalid model type: %q", s)
}

// Includes reports whether f is selected by this model type.
func (m ModelType) Includes(f Format) bool {
	return m == All || string(m) == string(f)
}
