// Package errors defines the error kinds shared across eventum-core: a
// fatal configuration error, a per-event recoverable runtime error, and the
// two batcher-specific sentinels. None of these are tied to a particular
// stdlib exception type; callers distinguish them with errors.As/errors.Is.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for batcher state transitions.
var (
	// ErrBatcherFull is returned by a non-blocking Add when the queue has no
	// free capacity.
	ErrBatcherFull = errors.New("batcher: queue is full")

	// ErrBatcherClosed is returned by Add (any mode) once Close has been
	// called. Adding after close is a programmer error and is unit-fatal.
	ErrBatcherClosed = errors.New("batcher: closed for input")
)

// ConfigurationError wraps a fatal, validation-time error with the location
// of the offending field, e.g. "input.cron.expression".
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error at %q: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError builds a ConfigurationError for the given field path.
func NewConfigurationError(field string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: err}
}

// RuntimeError is a per-event recoverable error: it carries the original
// event/payload that failed so the caller can log it without halting the
// batch. Component names the subsystem that raised it (e.g. "formatter",
// "renderer", "output:http").
type RuntimeError struct {
	Component string
	Event     string
	Err       error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Component, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// NewRuntimeError builds a RuntimeError for the given component and event.
func NewRuntimeError(component, event string, err error) *RuntimeError {
	return &RuntimeError{Component: component, Event: event, Err: err}
}

// UnitFatalError marks an error that should terminate the owning pipeline
// unit (producer crash, output Open failure, unreadable timestamp file mid
// stream, shared memory exhaustion). The supervisor escalates these into a
// full pipeline teardown.
type UnitFatalError struct {
	Unit string
	Err  error
}

func (e *UnitFatalError) Error() string {
	return fmt.Sprintf("unit %q failed fatally: %v", e.Unit, e.Err)
}

func (e *UnitFatalError) Unwrap() error { return e.Err }

// NewUnitFatalError builds a UnitFatalError for the given unit name.
func NewUnitFatalError(unit string, err error) *UnitFatalError {
	return &UnitFatalError{Unit: unit, Err: err}
}
