package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"conv3d/internal/collector"
	"conv3d/internal/config"
	"conv3d/internal/console"
	"conv3d/internal/conversion"
	"conv3d/internal/extraction"
	"conv3d/internal/logging"
	"conv3d/internal/metrics"
	"conv3d/internal/models"
	"conv3d/internal/outdir"
	"conv3d/internal/prompts"
	"conv3d/internal/services"
	"conv3d/internal/storage"
	"conv3d/internal/utils"
)

// Publisher uploads generated files.
type Publisher interface {
	Publish(ctx context.Context, runID uuid.UUID, root string, files []string) ([]models.PublishedObject, error)
}

// PublisherFactory connects to object storage. It is only called with --upload.
type PublisherFactory func(ctx context.Context, cfg *config.Config) (Publisher, error)

// NewMinioPublisher publishes to the bucket configured through MINIO_*.
func NewMinioPublisher(ctx context.Context, cfg *config.Config) (Publisher, error) {
	client, err := storage.NewMinioClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return services.NewPublishService(client, cfg.MinioBucket), nil
}

// CommandHandler implements the conv3d subcommands.
type CommandHandler struct {
	Config    *config.Config
	Console   *console.Console
	Prompter  prompts.Prompter
	Runner    conversion.ToolRunner
	Publisher PublisherFactory
}

// NewCommandHandler creates a CommandHandler that publishes to MinIO.
func NewCommandHandler(cfg *config.Config, c *console.Console, p prompts.Prompter, runner conversion.ToolRunner) *CommandHandler {
	return &CommandHandler{
		Config:    cfg,
		Console:   c,
		Prompter:  p,
		Runner:    runner,
		Publisher: NewMinioPublisher,
	}
}

type globalFlags struct {
	components  *bool
	optimize    *bool
	force       bool
	upload      bool
	metricsFile string
}

// run is the state of one command invocation.
type run struct {
	id        uuid.UUID
	flags     globalFlags
	metrics   *metrics.Collector
	publisher Publisher
	failed    int
}

func triState(cmd *cli.Command, on, off string) (*bool, error) {
	yes, no := cmd.Bool(on), cmd.Bool(off)
	switch {
	case yes && no:
		return nil, usageError("--%s and --%s cannot be used together", on, off)
	case yes:
		v := true
		return &v, nil
	case no:
		v := false
		return &v, nil
	}
	return nil, nil
}

func readGlobalFlags(cmd *cli.Command) (globalFlags, error) {
	components, err := triState(cmd, "tsx", "no-tsx")
	if err != nil {
		return globalFlags{}, err
	}
	optimize, err := triState(cmd, "optimize", "no-optimize")
	if err != nil {
		return globalFlags{}, err
	}
	return globalFlags{
		components:  components,
		optimize:    optimize,
		force:       cmd.Bool("force"),
		upload:      cmd.Bool("upload"),
		metricsFile: cmd.String("metrics-file"),
	}, nil
}

func (h *CommandHandler) banner(cmd *cli.Command) {
	root := cmd.Root()
	h.Console.Banner(root.Name, root.Version, root.Usage)
}

// begin prints the banner and resolves everything that must fail before any
// file is touched.
func (h *CommandHandler) begin(ctx context.Context, cmd *cli.Command) (*run, error) {
	h.banner(cmd)
	flags, err := readGlobalFlags(cmd)
	if err != nil {
		return nil, err
	}
	if cmd.Bool("debug") {
		logging.SetLevel("debug")
	}
	r := &run{id: uuid.New(), flags: flags}
	logging.L().Debug("run started", zap.String("run_id", r.id.String()), zap.String("command", cmd.Name))

	if flags.metricsFile != "" {
		r.metrics = metrics.NewCollector()
	}
	if flags.upload {
		p, err := h.Publisher(ctx, h.Config)
		if err != nil {
			return nil, usageError("Upload is not available: %v", err)
		}
		r.publisher = p
	}
	return r, nil
}

func (h *CommandHandler) finish(r *run) {
	if r.metrics == nil {
		return
	}
	if err := r.metrics.WriteTextfile(r.flags.metricsFile); err != nil {
		h.Console.Warn("Could not write metrics to %s: %v", r.flags.metricsFile, err)
		return
	}
	logging.L().Debug("metrics written", zap.String("path", r.flags.metricsFile))
}

func (h *CommandHandler) dispatcher(r *run, optimize bool) (*conversion.Dispatcher, error) {
	tools := conversion.Tools{
		FBX2GLTF: h.Config.FBX2GLTFPath,
		OBJ2GLTF: h.Config.OBJ2GLTFPath,
		GLTFJSX:  h.Config.GLTFJSXPath,
	}
	registry, err := conversion.DefaultRegistry(tools, h.Runner, optimize)
	if err != nil {
		return nil, err
	}
	var recorder conversion.Recorder
	if r.metrics != nil {
		recorder = r.metrics
	}
	return conversion.NewDispatcher(registry, h.Prompter, h.Console, recorder, r.flags.force), nil
}

// askComponents returns whether components will be generated, prompting
// only when no flag decided it.
func (h *CommandHandler) askComponents(b *models.RequestBuilder, flag *bool) (bool, error) {
	b.ComponentsFlag(flag)
	if flag != nil {
		return *flag, nil
	}
	v, err := h.Prompter.Components()
	if err != nil {
		return false, err
	}
	b.FillComponents(v)
	return v, nil
}

func (h *CommandHandler) askOptimize(b *models.RequestBuilder, flag *bool, components bool) error {
	b.OptimizeFlag(flag)
	if !components || !b.NeedsOptimize() {
		return nil
	}
	v, err := h.Prompter.Optimize()
	if err != nil {
		return err
	}
	b.FillOptimize(v)
	return nil
}

// Single converts one model file.
func (h *CommandHandler) Single(ctx context.Context, cmd *cli.Command) error {
	r, err := h.begin(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.finish(r)

	input := cmd.String("input-path")
	if input == "" {
		return usageError("Please specify an input path using the -i flag")
	}
	path, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(err, "could not resolve input path")
	}
	if utils.IsDirectory(path) {
		return usageError("Input path should point to a file, not a directory: %s", utils.Tildify(path))
	}
	if !utils.FileExists(path) {
		return usageError("Input file does not exist: %s", utils.Tildify(path))
	}
	format, err := models.FormatFromPath(path)
	if err != nil || !isModelFormat(format) {
		return usageError("Invalid input file type %q. Please provide a .gltf, .fbx or .obj file", filepath.Ext(path))
	}

	h.Console.Start("Starting conversion process...")
	inputDir := filepath.Dir(path)
	modelType := models.ModelType(format)
	b := models.NewRequestBuilder().
		InputDir(inputDir).
		OutputDir(filepath.Join(inputDir, utils.OutDirName)).
		Force(r.flags.force).
		ModelTypeFlag(&modelType)
	components, err := h.askComponents(b, r.flags.components)
	if err != nil {
		return err
	}
	if err := h.askOptimize(b, r.flags.optimize, components); err != nil {
		return err
	}
	req, err := b.Build()
	if err != nil {
		return err
	}

	batches := collector.Batches{format: {filepath.Base(path)}}
	return h.convert(ctx, r, req, batches, 1)
}

// Bulk converts every model in a directory or archive.
func (h *CommandHandler) Bulk(ctx context.Context, cmd *cli.Command) error {
	r, err := h.begin(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.finish(r)

	input := cmd.String("input-dir")
	if input == "" {
		return usageError("Please specify an input directory using the -i flag")
	}
	inputPath, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(err, "could not resolve input directory")
	}

	inputDir := inputPath
	outputDir := filepath.Join(inputPath, utils.OutDirName)
	switch {
	case utils.IsDirectory(inputPath):
	case utils.FileExists(inputPath) && extraction.IsArchive(inputPath):
		h.Console.Info("Extracting %s...", utils.Tildify(inputPath))
		dir, err := extraction.ExtractArchive(ctx, inputPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				logging.L().Warn("could not remove extracted archive", zap.String("dir", dir), zap.Error(err))
			}
		}()
		inputDir = dir
		outputDir = filepath.Join(filepath.Dir(inputPath), utils.OutDirName)
	default:
		return usageError("Invalid input directory: %s", utils.Tildify(inputPath))
	}

	if o := cmd.String("output-dir"); o != "" {
		if outputDir, err = filepath.Abs(o); err != nil {
			return errors.Wrap(err, "could not resolve output directory")
		}
	}

	var modelType *models.ModelType
	if m := cmd.String("model-type"); m != "" {
		mt, err := models.ParseModelType(m)
		if err != nil {
			return usageError("Invalid model type %q. Use one of GLTF, FBX, OBJ or ALL", m)
		}
		modelType = &mt
	}

	recursive := cmd.Bool("recursive")
	files, err := collector.ListFiles(inputDir, recursive)
	if err != nil {
		return err
	}
	batches := collector.Partition(files)
	counts := batches.Counts()
	if counts.All() == 0 {
		return usageError("No suitable models found in %s", utils.Tildify(inputPath))
	}

	h.Console.Start("Starting conversion process...")
	b := models.NewRequestBuilder().
		InputDir(inputDir).
		OutputDir(outputDir).
		Recursive(recursive).
		Force(r.flags.force).
		ModelTypeFlag(modelType)
	if b.NeedsModelType() {
		m, err := h.Prompter.ModelType(counts)
		if errors.Is(err, prompts.ErrNothingToConvert) {
			return usageError("No suitable models found in %s", utils.Tildify(inputPath))
		}
		if err != nil {
			return err
		}
		b.FillModelType(m)
	}
	components, err := h.askComponents(b, r.flags.components)
	if err != nil {
		return err
	}
	if err := h.askOptimize(b, r.flags.optimize, components); err != nil {
		return err
	}
	req, err := b.Build()
	if err != nil {
		return err
	}

	return h.convert(ctx, r, req, batches, batches.Expected(req.ModelType))
}

// TsxGen generates components for existing .glb files.
func (h *CommandHandler) TsxGen(ctx context.Context, cmd *cli.Command) error {
	r, err := h.begin(ctx, cmd)
	if err != nil {
		return err
	}
	defer h.finish(r)

	input := cmd.String("input-dir")
	if input == "" {
		return usageError("Please specify an input directory using the -i flag")
	}
	inputDir, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(err, "could not resolve input directory")
	}
	if !utils.IsDirectory(inputDir) {
		return usageError("Invalid input directory: %s", utils.Tildify(inputDir))
	}

	recursive := cmd.Bool("recursive")
	files, err := collector.ListFiles(inputDir, recursive)
	if err != nil {
		return err
	}
	glbs := collector.CollectGLB(files)
	if len(glbs) == 0 {
		return usageError("No .glb models found in %s", utils.Tildify(inputDir))
	}

	h.Console.Start("Starting .tsx generation...")
	b := models.NewRequestBuilder().
		InputDir(inputDir).
		OutputDir(filepath.Join(inputDir, utils.OutDirName)).
		Recursive(recursive).
		Force(r.flags.force).
		OnlyComponents()
	if err := h.askOptimize(b, r.flags.optimize, true); err != nil {
		return err
	}
	req, err := b.Build()
	if err != nil {
		return err
	}

	layout, err := outdir.Prepare(req, len(glbs), h.Prompter, h.Console)
	if err != nil {
		return err
	}
	d, err := h.dispatcher(r, req.OptimizeForWeb)
	if err != nil {
		return err
	}
	outcome, web, err := h.generate(ctx, d, req, layout, glbs)
	if err != nil {
		return err
	}
	r.failed += len(outcome.Errors)

	h.Console.Success("Successfully generated %d/%d components from %s", len(outcome.Converted), len(glbs), utils.Tildify(inputDir))
	h.Console.Info("Output saved to %s", utils.Tildify(layout.Root))
	if len(outcome.Converted) == 0 && r.failed > 0 {
		return &ExitError{Code: ExitFailure, Message: "No components were generated"}
	}
	return h.publish(ctx, r, layout.Root, web)
}

// Clean removes the output tree of previous runs.
func (h *CommandHandler) Clean(ctx context.Context, cmd *cli.Command) error {
	h.banner(cmd)

	dir, err := filepath.Abs(cmd.String("input-dir"))
	if err != nil {
		return errors.Wrap(err, "could not resolve input directory")
	}
	if !utils.IsDirectory(dir) {
		return usageError("Invalid input directory: %s", utils.Tildify(dir))
	}
	target := filepath.Join(dir, utils.OutDirName)
	if !utils.IsDirectory(target) {
		h.Console.Info("Nothing to clean in %s", utils.Tildify(dir))
		return nil
	}

	ok, err := h.Prompter.Confirm(fmt.Sprintf("Remove %s and everything in it?", utils.Tildify(target)))
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrAborted
	}
	if err := os.RemoveAll(target); err != nil {
		return errors.Wrapf(err, "could not remove %s", target)
	}
	h.Console.Success("Removed %s", utils.Tildify(target))
	return nil
}

// convert runs the model passes for every selected format, then the
// component pass over what was produced.
func (h *CommandHandler) convert(ctx context.Context, r *run, req models.Request, batches collector.Batches, expected int) error {
	layout, err := outdir.Prepare(req, expected, h.Prompter, h.Console)
	if err != nil {
		return err
	}
	d, err := h.dispatcher(r, req.OptimizeForWeb)
	if err != nil {
		return err
	}

	var converted []string
	for _, f := range models.ModelFormats {
		if !req.ModelType.Includes(f) {
			continue
		}
		outcome, err := d.Run(ctx, f, batches[f], req.InputDir, req.OutputDir)
		if err != nil {
			return err
		}
		converted = append(converted, outcome.Converted...)
		r.failed += len(outcome.Errors)
	}

	published := converted
	switch {
	case !req.EmitComponents:
		h.Console.Info("Skipped adding .tsx files, like instructed 🫡")
	case len(converted) == 0:
		h.Console.Warn("No .glb models were produced, skipping .tsx generation")
	default:
		outcome, web, err := h.generate(ctx, d, req, layout, converted)
		if err != nil {
			return err
		}
		r.failed += len(outcome.Errors)
		published = append(published, web...)
	}

	h.Console.Success("Successfully converted %d/%d models from %s", len(converted), expected, utils.Tildify(req.InputDir))
	h.Console.Info("Output saved to %s", utils.Tildify(layout.Root))
	if len(converted) == 0 && r.failed > 0 {
		return &ExitError{Code: ExitFailure, Message: "No models were converted"}
	}
	return h.publish(ctx, r, layout.Root, published)
}

// generate runs the component pass and returns the web-optimized models it
// left in glb-for-web/.
func (h *CommandHandler) generate(ctx context.Context, d *conversion.Dispatcher, req models.Request, layout utils.Layout, glbs []string) (*models.Outcome, []string, error) {
	outcome, err := d.Run(ctx, models.GLB, glbs, req.InputDir, req.OutputDir)
	if err != nil {
		return outcome, nil, err
	}
	var web []string
	if req.OptimizeForWeb {
		for _, tsx := range outcome.Converted {
			p := filepath.Join(layout.Web, utils.ReplaceExt(tsx, models.GLB.Extension()))
			if utils.FileExists(p) {
				web = append(web, p)
			}
		}
	}
	return outcome, web, nil
}

func (h *CommandHandler) publish(ctx context.Context, r *run, root string, files []string) error {
	if r.publisher == nil {
		return nil
	}
	if len(files) == 0 {
		h.Console.Warn("Nothing to upload")
		return nil
	}

	progress := h.Console.NewProgress()
	progress.Start(fmt.Sprintf("Uploading %s...", utils.Plural(len(files), ".glb file")))
	published, err := r.publisher.Publish(ctx, r.id, root, files)
	if err != nil {
		progress.Cancel(fmt.Sprintf("Upload stopped after %s", utils.Plural(len(published), "file")))
		return errors.Wrap(err, "upload failed")
	}
	progress.Succeed(fmt.Sprintf("Uploaded %s", utils.Plural(len(published), ".glb file")))
	h.Console.Info("Run ID: %s", r.id)
	return nil
}

func isModelFormat(f models.Format) bool {
	for _, m := range models.ModelFormats {
		if f == m {
			return true
		}
	}
	return false
}
