package conversion

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"conv3d/internal/console"
	"conv3d/internal/logging"
	"conv3d/internal/models"
	"conv3d/internal/utils"
)

// Per-file results reported to a Recorder.
const (
	ResultConverted = "converted"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

// Overwriter decides whether an existing output may be replaced.
type Overwriter interface {
	Overwrite(path string) (bool, error)
}

// Recorder receives one observation per processed file.
type Recorder interface {
	Observe(format models.Format, result string, took time.Duration)
}

// Dispatcher converts batches of files one at a time.
type Dispatcher struct {
	registry *Registry
	prompt   Overwriter
	console  *console.Console
	recorder Recorder
	force    bool
}

func NewDispatcher(registry *Registry, prompt Overwriter, c *console.Console, recorder Recorder, force bool) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		prompt:   prompt,
		console:  c,
		recorder: recorder,
		force:    force,
	}
}

// Run converts inputs of the given source format. Relative inputs are
// resolved against inputDir; outputs go to outputDir/<target>/.
//
// A failing file is recorded in the outcome and the batch continues. The
// only error returned is models.ErrInterrupted, when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, format models.Format, inputs []string, inputDir, outputDir string) (*models.Outcome, error) {
	outcome := &models.Outcome{Format: format}
	if len(inputs) == 0 {
		d.console.Warn("No %s models found in the input directory, skipping...", format)
		return outcome, nil
	}

	target, err := format.Target()
	if err != nil {
		return outcome, err
	}
	adapter, err := d.registry.Adapter(format)
	if err != nil {
		return outcome, err
	}

	total := len(inputs)
	d.console.Info("Found %s to convert from input dir: %s",
		utils.Plural(total, fmt.Sprintf("%s model", format)), utils.Tildify(inputDir))

	label := fmt.Sprintf("Converting %s files to %s...", format, target)
	progress := d.console.NewProgress()
	progress.Start(label)

	for _, rel := range inputs {
		if ctx.Err() != nil {
			return outcome, d.cancel(progress)
		}

		inputPath := rel
		if !filepath.IsAbs(inputPath) {
			inputPath = filepath.Join(inputDir, rel)
		}
		outName := utils.ReplaceExt(rel, target.Extension())
		outputPath := filepath.Join(outputDir, target.Dir(), outName)

		if utils.FileExists(outputPath) && !d.force {
			progress.Pause()
			d.console.Warn("%s already exists in the output directory", outName)
			ok, err := d.prompt.Overwrite(outputPath)
			if errors.Is(err, models.ErrInterrupted) {
				return outcome, d.cancel(progress)
			}
			if err != nil {
				d.fail(outcome, format, inputPath, err, 0)
				progress.Resume()
				continue
			}
			if !ok {
				d.console.Warn("Skipping %s", outName)
				outcome.Skipped = append(outcome.Skipped, inputPath)
				d.observe(format, ResultSkipped, 0)
				progress.Resume()
				continue
			}
			progress.Resume()
		}

		start := time.Now()
		err := adapter.Convert(ctx, inputPath, outputPath)
		took := time.Since(start)
		if err != nil {
			if ctx.Err() != nil {
				return outcome, d.cancel(progress)
			}
			progress.Pause()
			d.fail(outcome, format, inputPath, err, took)
			d.console.Info("Continuing with the rest of the models...")
			progress.Resume()
			continue
		}

		outcome.Converted = append(outcome.Converted, outputPath)
		d.observe(format, ResultConverted, took)
		logging.L().Debug("converted", zap.String("input", inputPath), zap.String("output", outputPath), zap.Duration("took", took))
		progress.Update(fmt.Sprintf("%s (%d/%d) %s", label, len(outcome.Converted), total, filepath.Base(rel)))
	}

	progress.Succeed(fmt.Sprintf("%s (%d/%d)", label, len(outcome.Converted), total))
	d.console.Done("%s conversion completed", format)
	if n := len(outcome.Skipped); n > 0 {
		d.console.Info("Skipped %s", utils.Plural(n, "existing file"))
	}
	if n := len(outcome.Errors); n > 0 {
		d.console.Warn("%s failed", utils.Plural(n, "file"))
	}
	return outcome, nil
}

func (d *Dispatcher) fail(outcome *models.Outcome, format models.Format, inputPath string, err error, took time.Duration) {
	outcome.Errors = append(outcome.Errors, &FileError{Path: inputPath, Err: err})
	d.observe(format, ResultFailed, took)
	d.console.Error("Error converting %s", utils.Tildify(inputPath))
	d.console.Error("%v", err)
}

func (d *Dispatcher) cancel(progress console.Progress) error {
	progress.Cancel("Conversion cancelled")
	return models.ErrInterrupted
}

func (d *Dispatcher) observe(format models.Format, result string, took time.Duration) {
	if d.recorder != nil {
		d.recorder.Observe(format, result, took)
	}
}
