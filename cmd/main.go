package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"conv3d/internal/config"
	"conv3d/internal/console"
	"conv3d/internal/conversion"
	"conv3d/internal/handlers"
	"conv3d/internal/logging"
	"conv3d/internal/models"
	"conv3d/internal/prompts"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := InitConfig()
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		fmt.Fprintf(os.Stderr, "Logging error: %v\n", err)
		return handlers.ExitFailure
	}
	defer logging.Sync()

	// The first interrupt cancels the run; a second one kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	c := console.New()
	runner := &conversion.ExecRunner{Timeout: cfg.ToolTimeout}
	h := handlers.NewCommandHandler(cfg, c, prompts.NewSurvey(), runner)

	err := handlers.NewApp(h).Run(ctx, os.Args)
	code := handlers.ExitCode(err)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrInterrupted):
		c.Error("Received interrupt. Exiting program...")
	case errors.Is(err, models.ErrAborted):
		c.Info("Aborted, nothing was written")
	default:
		c.Error("%v", err)
		logging.L().Debug("command failed", zap.Int("exit_code", code), zap.Error(err))
	}
	return code
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(handlers.ExitFailure)
	}
	return cfg
}
