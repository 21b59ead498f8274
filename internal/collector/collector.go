// Package collector finds source files in an input directory and groups
// them by format.
package collector

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"conv3d/internal/models"
	"conv3d/internal/utils"
)

// ListFiles returns the names of the regular files in dir, relative to dir,
// in directory listing order. With recursive set, subdirectories are walked.
func ListFiles(dir string, recursive bool) ([]string, error) {
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read directory %s", dir)
		}
		var files []string
		for _, e := range entries {
			if e.Type().IsRegular() {
				files = append(files, e.Name())
			}
		}
		return files, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not walk directory %s", dir)
	}
	return files, nil
}

// Collect returns the files whose extension is the lowercase name of format.
// Matching is case-sensitive.
func Collect(files []string, format models.Format) []string {
	ext := format.Extension()
	var out []string
	for _, f := range files {
		if strings.HasSuffix(f, ext) {
			out = append(out, f)
		}
	}
	return out
}

// CollectGLB returns .glb files that are not inside a previous output tree.
func CollectGLB(files []string) []string {
	var out []string
	for _, f := range Collect(files, models.GLB) {
		if !insideOutputDir(f) {
			out = append(out, f)
		}
	}
	return out
}

func insideOutputDir(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == utils.OutDirName {
			return true
		}
	}
	return false
}

// Batches groups files by model format.
type Batches map[models.Format][]string

// Partition splits a listing into one batch per model format.
func Partition(files []string) Batches {
	b := make(Batches, len(models.ModelFormats))
	for _, f := range models.ModelFormats {
		b[f] = Collect(files, f)
	}
	return b
}

// Counts returns the number of files per format.
func (b Batches) Counts() models.Counts {
	return models.Counts{
		GLTF: len(b[models.GLTF]),
		FBX:  len(b[models.FBX]),
		OBJ:  len(b[models.OBJ]),
	}
}

// Expected is the number of files selected by modelType.
func (b Batches) Expected(modelType models.ModelType) int {
	n := 0
	for _, f := range models.ModelFormats {
		if modelType.Includes(f) {
			n += len(b[f])
		}
	}
	return n
}
