package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutDirName is the default output directory created next to the inputs.
const OutDirName = "_convert-3d-for-web"

const (
	glbDir = "glb"
	tsxDir = "tsx"
	webDir = "glb-for-web"
)

// Layout is the conventional output tree under one root.
type Layout struct {
	Root string
	GLB  string
	TSX  string
	Web  string
}

// NewLayout computes the sub-paths of root. root must already be absolute.
func NewLayout(root string) Layout {
	return Layout{
		Root: root,
		GLB:  filepath.Join(root, glbDir),
		TSX:  filepath.Join(root, tsxDir),
		Web:  filepath.Join(root, webDir),
	}
}

// WebDirFor returns the glb-for-web directory that is a sibling of the
// directory holding path.
func WebDirFor(path string) string {
	return filepath.Join(filepath.Dir(filepath.Dir(path)), webDir)
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && !info.IsDir()
}

// Tildify replaces the home directory prefix with "~" for display.
func Tildify(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" || home == "/" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}

// Plural formats "1 .glb file" / "3 .glb files".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// ReplaceExt swaps the extension of the base name of path.
func ReplaceExt(path, ext string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
