// Package outdir prints the write plan, asks for confirmation and creates the
// output tree.
package outdir

import (
	"os"

	"github.com/pkg/errors"

	"conv3d/internal/console"
	"conv3d/internal/models"
	"conv3d/internal/utils"
)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// Prepare shows what will be written where and creates the directories once
// the operator agrees. Nothing is created when the answer is no; the
// returned error is then models.ErrAborted.
func Prepare(req models.Request, numFiles int, p Confirmer, c *console.Console) (utils.Layout, error) {
	layout := utils.NewLayout(req.OutputDir)

	if !req.OnlyComponents {
		c.Info("Will write %s to %s", utils.Plural(numFiles, ".glb file"), utils.Tildify(layout.GLB))
	}
	if req.EmitComponents {
		c.Info("Will write %s to %s", utils.Plural(numFiles, ".tsx file"), utils.Tildify(layout.TSX))
		if req.OptimizeForWeb {
			c.Info("Will write %s to %s", utils.Plural(numFiles, ".glb file"), utils.Tildify(layout.Web))
			c.Info("These will be optimized and much smaller!")
		}
	}

	ok, err := p.Confirm("Looking good?")
	if err != nil {
		return layout, err
	}
	if !ok {
		return layout, models.ErrAborted
	}

	dirs := []string{layout.Root}
	if !req.OnlyComponents {
		dirs = append(dirs, layout.GLB)
	}
	if req.EmitComponents {
		dirs = append(dirs, layout.TSX, layout.Web)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			c.Error("Error creating directories: %v", err)
			return layout, errors.Wrapf(err, "could not create %s", d)
		}
	}
	c.Success("Output directories created")
	return layout, nil
}
