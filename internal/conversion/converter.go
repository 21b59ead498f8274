package conversion

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"conv3d/internal/logging"
	"conv3d/internal/utils"
)

// Adapter converts one input file into one output file.
type Adapter interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// AdapterFunc lets a plain function act as an Adapter.
type AdapterFunc func(ctx context.Context, inputPath, outputPath string) error

func (f AdapterFunc) Convert(ctx context.Context, inputPath, outputPath string) error {
	return f(ctx, inputPath, outputPath)
}

// GLTFAdapter packs a .gltf document and its resources into a .glb.
type GLTFAdapter struct{}

func (GLTFAdapter) Convert(ctx context.Context, inputPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return PackGLB(inputPath, outputPath)
}

// OBJAdapter runs obj2gltf in binary mode.
type OBJAdapter struct {
	Tool   string
	Runner ToolRunner
}

func (a *OBJAdapter) Convert(ctx context.Context, inputPath, outputPath string) error {
	return a.Runner.Run(ctx, a.Tool, "--binary", "--input", inputPath, "--output", outputPath)
}

// FBXAdapter runs FBX2glTF in binary mode with PBR metallic-roughness
// materials. FBX2glTF may leave a <name>.fbm texture folder next to the
// input; folders that appear during the call are removed afterwards.
type FBXAdapter struct {
	Tool   string
	Runner ToolRunner
}

func (a *FBXAdapter) Convert(ctx context.Context, inputPath, outputPath string) error {
	inputDir := filepath.Dir(inputPath)
	before, err := fbmFolders(inputDir)
	if err != nil {
		return errors.Wrap(err, "could not list texture folders")
	}
	defer func() {
		if cerr := removeNewFbmFolders(inputDir, before); cerr != nil {
			logging.L().Warn("could not remove texture folder",
				zap.String("input", inputPath), zap.Error(cerr))
		}
	}()

	// FBX2glTF appends the extension itself.
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	return a.Runner.Run(ctx, a.Tool,
		"--binary",
		"--pbr-metallic-roughness",
		"--input", inputPath,
		"--output", base,
	)
}

// ComponentAdapter runs gltfjsx to generate a typed component for a .glb.
// With Optimize set gltfjsx also writes <name>-transformed.glb next to the
// component; that file is moved to glb-for-web/<name>.glb.
type ComponentAdapter struct {
	Tool     string
	Runner   ToolRunner
	Optimize bool
}

func (a *ComponentAdapter) Convert(ctx context.Context, inputPath, outputPath string) (err error) {
	if a.Optimize {
		defer func() {
			rerr := relocateTransformed(outputPath)
			if rerr == nil {
				return
			}
			if err != nil {
				logging.L().Debug("no optimized model to relocate", zap.String("output", outputPath), zap.Error(rerr))
				return
			}
			err = rerr
		}()
	}

	args := []string{inputPath, "--output", outputPath, "--types"}
	if a.Optimize {
		args = append(args, "--transform")
	}
	return a.Runner.Run(ctx, a.Tool, args...)
}

// TransformedPath is where gltfjsx writes the optimized model for a component.
func TransformedPath(componentPath string) string {
	return strings.TrimSuffix(componentPath, filepath.Ext(componentPath)) + "-transformed.glb"
}

func relocateTransformed(componentPath string) error {
	src := TransformedPath(componentPath)
	dst := filepath.Join(utils.WebDirFor(componentPath), utils.ReplaceExt(componentPath, ".glb"))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, "could not create glb-for-web directory")
	}
	if err := os.Rename(src, dst); err != nil {
		return errors.Wrap(err, "could not move optimized model")
	}
	return nil
}
