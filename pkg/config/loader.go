package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/eventum-project/eventum-core/pkg/secrets"
	"gopkg.in/yaml.v3"
)

// Initialize loads, validates, and returns a ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Read the YAML file at path.
//  2. Resolve ${KEY} secret tokens via provider.
//  3. Parse YAML into Config.
//  4. Validate the result.
func Initialize(ctx context.Context, path string, provider secrets.Provider) (*Config, error) {
	log := slog.With("config_path", path)
	log.InfoContext(ctx, "loading configuration")

	cfg, err := load(path, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.InfoContext(ctx, "configuration loaded",
		"input_kind", stats.InputKind,
		"templates", stats.TemplateCount,
		"outputs", stats.OutputCount)

	return cfg, nil
}

func load(path string, provider secrets.Provider) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	if provider != nil {
		data, err = secrets.Resolve(data, provider)
		if err != nil {
			return nil, NewLoadError(path, err)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	v := NewValidator(cfg)
	return v.ValidateAll()
}
