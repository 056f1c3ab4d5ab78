package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationErrorUnwrap(t *testing.T) {
	base := errors.New("bad range")
	err := NewConfigurationError("input.linspace.end", base)

	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "input.linspace.end")
	assert.Contains(t, err.Error(), "bad range")
}

func TestConfigurationErrorNoField(t *testing.T) {
	base := errors.New("boom")
	err := &ConfigurationError{Err: base}

	assert.Equal(t, "configuration error: boom", err.Error())
}

func TestRuntimeErrorCarriesEvent(t *testing.T) {
	base := errors.New("invalid json")
	err := NewRuntimeError("formatter:json", `{"a":`, base)

	assert.ErrorIs(t, err, base)
	assert.Equal(t, `{"a":`, err.Event)
	assert.Contains(t, err.Error(), "formatter:json")
}

func TestUnitFatalErrorUnwrap(t *testing.T) {
	base := errors.New("open failed")
	err := NewUnitFatalError("output", base)

	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), `unit "output"`)
}

func TestBatcherSentinels(t *testing.T) {
	assert.True(t, errors.Is(ErrBatcherFull, ErrBatcherFull))
	assert.False(t, errors.Is(ErrBatcherFull, ErrBatcherClosed))
}
