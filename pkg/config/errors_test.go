package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorFormatsWithAndWithoutField(t *testing.T) {
	withField := NewValidationError("output[0]", "path", errors.New("must be absolute"))
	assert.Contains(t, withField.Error(), "output[0]")
	assert.Contains(t, withField.Error(), "path")

	withoutField := NewValidationError("event", "", errors.New("boom"))
	assert.NotContains(t, withoutField.Error(), `field ""`)
}

func TestValidationErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := NewValidationError("event", "mode", inner)
	assert.ErrorIs(t, err, inner)
}

func TestLoadErrorUnwraps(t *testing.T) {
	err := NewLoadError("config.yaml", ErrInvalidYAML)
	assert.ErrorIs(t, err, ErrInvalidYAML)
	assert.Contains(t, err.Error(), "config.yaml")
}
