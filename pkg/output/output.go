// Package output implements the five sink plugins of spec.md §4.7: file,
// stdout, http, opensearch, clickhouse. Every plugin satisfies the same
// open/close/write contract; the output pipeline unit fans a single event
// batch out to every configured plugin concurrently.
package output

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/format"
)

// Plugin is the contract every output sink implements (spec.md §4.7):
// Open/Close bracket the plugin's lifetime, Write delivers one batch and
// returns the count of events successfully delivered. The owning output
// unit hands each plugin one batch at a time and waits for every plugin
// before the next batch. The file and stdout plugins also guard their
// writer with a mutex; the http and opensearch plugins hold no lock of
// their own.
type Plugin interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error
	Write(ctx context.Context, events []string) (int, error)
}

// New constructs the Plugin for a validated config.OutputSpec, mirroring
// the kind-keyed constructor switches of pkg/input.New and pkg/picker.New.
func New(spec config.OutputSpec, log *slog.Logger) (Plugin, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("output", string(spec.Kind))

	switch spec.Kind {
	case config.OutputFile:
		formatter, err := format.New(spec.File.Formatter)
		if err != nil {
			return nil, fmt.Errorf("output: file: %w", err)
		}
		return newFileOutput(*spec.File, formatter, log), nil
	case config.OutputStdout:
		formatter, err := format.New(spec.Stdout.Formatter)
		if err != nil {
			return nil, fmt.Errorf("output: stdout: %w", err)
		}
		return newStdoutOutput(*spec.Stdout, formatter, log), nil
	case config.OutputHTTP:
		formatter, err := format.New(spec.HTTP.Formatter)
		if err != nil {
			return nil, fmt.Errorf("output: http: %w", err)
		}
		return newHTTPOutput(*spec.HTTP, formatter, log)
	case config.OutputOpenSearch:
		formatter, err := format.New(spec.OpenSearch.Formatter)
		if err != nil {
			return nil, fmt.Errorf("output: opensearch: %w", err)
		}
		return newOpenSearchOutput(*spec.OpenSearch, formatter, log)
	case config.OutputClickHouse:
		formatter, err := format.New(spec.ClickHouse.Formatter)
		if err != nil {
			return nil, fmt.Errorf("output: clickhouse: %w", err)
		}
		return newClickHouseOutput(*spec.ClickHouse, formatter, log)
	default:
		return nil, fmt.Errorf("output: unknown kind %q", spec.Kind)
	}
}
