package extraction

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/pkg/errors"
)

// IsArchive reports whether path has an archive extension we can unpack.
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".zip", ".rar", ".7z", ".tar", ".tar.gz", ".tgz"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// shouldIgnoreFile skips hidden and OS metadata entries.
func shouldIgnoreFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || base == "" {
		return true
	}
	if strings.EqualFold(base, "thumbs.db") {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == "__MACOSX" {
			return true
		}
	}
	return false
}

// ExtractArchive unpacks archivePath into a new temporary directory and
// returns the directory. The caller removes it when done.
func ExtractArchive(ctx context.Context, archivePath string) (string, error) {
	destDir, err := os.MkdirTemp("", "conv3d-extract-*")
	if err != nil {
		return "", errors.Wrap(err, "could not create extraction directory")
	}

	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		os.RemoveAll(destDir)
		return "", errors.Wrapf(err, "could not open archive %s", archivePath)
	}

	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || shouldIgnoreFile(path) {
			return nil
		}
		return extractFile(fsys, path, filepath.Join(destDir, filepath.FromSlash(path)))
	})
	if err != nil {
		os.RemoveAll(destDir)
		return "", errors.Wrap(err, "could not extract archive")
	}
	return destDir, nil
}

func extractFile(fsys fs.FS, name, destPath string) error {
	reader, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, reader)
	return err
}
