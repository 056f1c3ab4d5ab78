package output

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/format"
)

// fileOutput appends (or overwrites) formatted events to a path on disk. It
// runs a background watchdog, grounded on the periodic ticker-driven
// start/stop service shape this codebase uses for background maintenance
// loops: the watchdog reopens the file if it was unlinked out from under
// the process (nlink reaches 0) and closes the descriptor after
// CleanupInterval of inactivity, reopening lazily on the next Write.
type fileOutput struct {
	spec      config.FileOutputSpec
	formatter format.Formatter
	log       *slog.Logger

	separator string

	mu         sync.Mutex
	f          *os.File
	w          *bufio.Writer
	lastWrite  time.Time
	lastFlush  time.Time
	stopWatch  chan struct{}
	watchDone  chan struct{}
}

func newFileOutput(spec config.FileOutputSpec, formatter format.Formatter, log *slog.Logger) *fileOutput {
	sep := spec.Separator
	if sep == "" {
		sep = "\n"
	}
	return &fileOutput{spec: spec, formatter: formatter, log: log, separator: sep}
}

func (o *fileOutput) Open(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.openLocked(); err != nil {
		return err
	}

	o.stopWatch = make(chan struct{})
	o.watchDone = make(chan struct{})
	go o.runWatchdog()

	return nil
}

func (o *fileOutput) openLocked() error {
	flags := os.O_CREATE | os.O_WRONLY
	if o.spec.WriteModeOrDefault() == config.WriteModeOverwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(o.spec.Path, flags, os.FileMode(o.spec.FileModeOrDefault()))
	if err != nil {
		return fmt.Errorf("output: file: open %s: %w", o.spec.Path, err)
	}
	o.f = f
	o.w = bufio.NewWriter(f)
	o.lastWrite = time.Now()
	return nil
}

// runWatchdog polls at half the cleanup interval (or every second when
// cleanup_interval is unset), checking for an unlinked path and for
// idle-timeout closure.
func (o *fileOutput) runWatchdog() {
	defer close(o.watchDone)

	interval := o.spec.CleanupInterval.Duration() / 2
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stopWatch:
			return
		case <-ticker.C:
			o.tick()
		}
	}
}

func (o *fileOutput) tick() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.f == nil {
		return
	}

	if unlinked(o.f) {
		o.log.Warn("file output target was unlinked, reopening", "path", o.spec.Path)
		_ = o.w.Flush()
		_ = o.f.Close()
		if err := o.openLocked(); err != nil {
			o.log.Error("failed to reopen unlinked file", "error", err)
		}
		return
	}

	if o.spec.CleanupInterval.Duration() > 0 && time.Since(o.lastWrite) >= o.spec.CleanupInterval.Duration() {
		_ = o.w.Flush()
		_ = o.f.Close()
		o.f = nil
		o.w = nil
		return
	}

	if o.spec.FlushInterval.Duration() > 0 && time.Since(o.lastFlush) >= o.spec.FlushInterval.Duration() {
		_ = o.w.Flush()
		o.lastFlush = time.Now()
	}
}

// unlinked reports whether f's underlying inode has a zero link count,
// meaning the path no longer refers to it.
func unlinked(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return true
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return stat.Nlink == 0
}

func (o *fileOutput) Write(ctx context.Context, events []string) (int, error) {
	formatted, ok, errs := o.formatter.Format(events)
	for _, e := range errs {
		o.log.WarnContext(ctx, "event failed to format", "error", e.Err, "event", e.Event)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.f == nil {
		if err := o.openLocked(); err != nil {
			return 0, err
		}
	}

	for _, line := range formatted {
		if _, err := o.w.WriteString(line); err != nil {
			return 0, fmt.Errorf("output: file: write: %w", err)
		}
		if _, err := o.w.WriteString(o.separator); err != nil {
			return 0, fmt.Errorf("output: file: write separator: %w", err)
		}
	}
	o.lastWrite = time.Now()

	if o.spec.FlushInterval.Duration() == 0 {
		if err := o.w.Flush(); err != nil {
			return 0, fmt.Errorf("output: file: flush: %w", err)
		}
		o.lastFlush = time.Now()
	}

	return ok, nil
}

func (o *fileOutput) Close(ctx context.Context) error {
	if o.stopWatch != nil {
		close(o.stopWatch)
		<-o.watchDone
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.f == nil {
		return nil
	}
	if err := o.w.Flush(); err != nil {
		_ = o.f.Close()
		return fmt.Errorf("output: file: flush on close: %w", err)
	}
	err := o.f.Close()
	o.f = nil
	return err
}
