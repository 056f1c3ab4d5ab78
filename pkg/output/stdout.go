package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/format"
)

// stdoutOutput writes formatted events to the process's stdout or stderr
// stream — the same shape as fileOutput minus the path-watchdog, since a
// standard stream is never unlinked or idle-closed.
type stdoutOutput struct {
	spec      config.StdoutOutputSpec
	formatter format.Formatter
	log       *slog.Logger
	separator string

	mu        sync.Mutex
	w         *bufio.Writer
	lastFlush time.Time
}

func newStdoutOutput(spec config.StdoutOutputSpec, formatter format.Formatter, log *slog.Logger) *stdoutOutput {
	sep := spec.Separator
	if sep == "" {
		sep = "\n"
	}
	return &stdoutOutput{spec: spec, formatter: formatter, log: log, separator: sep}
}

func (o *stdoutOutput) stream() io.Writer {
	if o.spec.StreamOrDefault() == config.StreamStderr {
		return os.Stderr
	}
	return os.Stdout
}

func (o *stdoutOutput) Open(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.w = bufio.NewWriter(o.stream())
	o.lastFlush = time.Now()
	return nil
}

func (o *stdoutOutput) Write(ctx context.Context, events []string) (int, error) {
	formatted, ok, errs := o.formatter.Format(events)
	for _, e := range errs {
		o.log.WarnContext(ctx, "event failed to format", "error", e.Err, "event", e.Event)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, line := range formatted {
		if _, err := o.w.WriteString(line); err != nil {
			return 0, fmt.Errorf("output: stdout: write: %w", err)
		}
		if _, err := o.w.WriteString(o.separator); err != nil {
			return 0, fmt.Errorf("output: stdout: write separator: %w", err)
		}
	}

	if o.spec.FlushInterval.Duration() == 0 || time.Since(o.lastFlush) >= o.spec.FlushInterval.Duration() {
		if err := o.w.Flush(); err != nil {
			return 0, fmt.Errorf("output: stdout: flush: %w", err)
		}
		o.lastFlush = time.Now()
	}

	return ok, nil
}

func (o *stdoutOutput) Close(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.w == nil {
		return nil
	}
	return o.w.Flush()
}
