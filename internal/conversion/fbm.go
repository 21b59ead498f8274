package conversion

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const fbmSuffix = ".fbm"

// fbmFolders returns the names of the .fbm directories directly inside dir.
func fbmFolders(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{})
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), fbmSuffix) {
			out[e.Name()] = struct{}{}
		}
	}
	return out, nil
}

// removeNewFbmFolders deletes .fbm directories in dir that are not in before.
func removeNewFbmFolders(dir string, before map[string]struct{}) error {
	after, err := fbmFolders(dir)
	if err != nil {
		return err
	}
	var firstErr error
	for name := range after {
		if _, existed := before[name]; existed {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, name)); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "remove %s", name)
		}
	}
	return firstErr
}
