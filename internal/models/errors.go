package models

import "github.com/pkg/errors"

var (
	// ErrAborted means the operator declined a confirmation prompt.
	ErrAborted = errors.New("aborted by user")
	// ErrInterrupted means the process received an interrupt signal.
	ErrInterrupted = errors.New("interrupted")
)

// Counts is the number of available source files per model format.
type Counts struct {
	GLTF int
	FBX  int
	OBJ  int
}

// All is the total over every model format.
func (c Counts) All() int {
	return c.GLTF + c.FBX + c.OBJ
}

// Of returns the count for one format.
func (c Counts) Of(f Format) int {
	switch f {
	case GLTF:
		return c.GLTF
	case FBX:
		return c.FBX
	case OBJ:
		return c.OBJ
	}
	return 0
}
