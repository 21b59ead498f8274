package handlers

import (
	"context"

	"github.com/urfave/cli/v3"

	"conv3d/internal/utils"
)

const (
	AppName        = "conv3d"
	AppVersion     = "1.2.0"
	AppDescription = "Convert .gltf, .fbx and .obj models to .glb and generate React components for the web"
)

// NewApp builds the command tree. Root flags apply to every subcommand.
func NewApp(h *CommandHandler) *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Version: AppVersion,
		Usage:   AppDescription,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tsx",
				Usage: "Generate .tsx components without asking",
			},
			&cli.BoolFlag{
				Name:  "no-tsx",
				Usage: "Do not generate .tsx components",
			},
			&cli.BoolFlag{
				Name:  "optimize",
				Usage: "Write web-optimized models to glb-for-web/ without asking",
			},
			&cli.BoolFlag{
				Name:  "no-optimize",
				Usage: "Skip the web optimization pass",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite existing output files without asking",
			},
			&cli.BoolFlag{
				Name:  "upload",
				Usage: "Upload generated .glb files to the configured MinIO bucket",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log converter invocations to stderr",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write conversion metrics in Prometheus text format to `FILE`",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:  "single",
				Usage: "Convert a single model file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input-path",
						Aliases: []string{"i"},
						Usage:   "Model file to convert",
					},
				},
				Action: h.Single,
			},
			{
				Name:  "bulk",
				Usage: "Convert every model in a directory or archive",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input-dir",
						Aliases: []string{"i"},
						Usage:   "Directory (or .zip/.tar.gz/.7z/.rar archive) with the models",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: <input>/_convert-3d-for-web)",
					},
					&cli.StringFlag{
						Name:    "model-type",
						Aliases: []string{"m"},
						Usage:   "GLTF, FBX, OBJ or ALL",
					},
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Also look for models in subdirectories",
					},
				},
				Action: h.Bulk,
			},
			{
				Name:  "tsx-gen",
				Usage: "Generate .tsx components for existing .glb models",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input-dir",
						Aliases: []string{"i"},
						Usage:   "Directory with the .glb models",
					},
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Also look for models in subdirectories",
					},
				},
				Action: h.TsxGen,
			},
			{
				Name:  "clean",
				Usage: "Remove the output of previous runs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input-dir",
						Aliases: []string{"i"},
						Value:   ".",
						Usage:   "Directory that contains " + utils.OutDirName,
					},
				},
				Action: h.Clean,
			},
		},
	}
}
