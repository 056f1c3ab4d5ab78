// Command eventum-core is the thin entry point that wires a
// pipeline.Supervisor from a validated config.Config. Argument parsing
// beyond locating the config file, progress bars and interactive prompts
// are a collaborator's job (spec.md §1 Non-goals); this binary only
// bootstraps logging, loads+validates the YAML, builds the supervisor, and
// runs it until completion or a shutdown signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/pipeline"
	"github.com/eventum-project/eventum-core/pkg/secrets"
	"github.com/eventum-project/eventum-core/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config", getEnv("EVENTUM_CONFIG", "./eventum.yaml"), "path to the pipeline YAML configuration")
	mode := flag.String("mode", getEnv("EVENTUM_MODE", "sample"), "run mode: sample or live")
	logFormat := flag.String("log-format", getEnv("EVENTUM_LOG_FORMAT", "json"), "log output format: json or text")
	flag.Parse()

	log := bootstrapLogger(*logFormat)
	slog.SetDefault(log)

	log.Info("starting eventum-core", "version", version.Full(), "config", *configPath, "mode", *mode)

	runMode, err := parseMode(*mode)
	if err != nil {
		log.Error("invalid mode", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := secrets.NewEnvProvider()
	cfg, err := config.Initialize(ctx, *configPath, provider)
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	sv, err := pipeline.New(pipeline.Options{
		Config: *cfg,
		Mode:   runMode,
		Logger: log,
	})
	if err != nil {
		log.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sv.Close(); err != nil {
			log.Error("error closing pipeline resources", "error", err)
		}
	}()

	start := time.Now()
	if err := sv.Run(ctx); err != nil {
		log.Error("pipeline run failed", "error", err, "elapsed", time.Since(start))
		os.Exit(1)
	}

	log.Info("pipeline run complete", "elapsed", time.Since(start))
}

func parseMode(s string) (pipeline.Mode, error) {
	switch s {
	case "sample":
		return pipeline.ModeSample, nil
	case "live":
		return pipeline.ModeLive, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want \"sample\" or \"live\")", s)
	}
}

func bootstrapLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
