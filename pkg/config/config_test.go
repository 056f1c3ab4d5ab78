package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const validConfigYAML = `
input:
  static:
    count: 10
event:
  mode: all
  templates:
    - greeting:
        source: /templates/greeting.j2
output:
  - stdout:
      formatter:
        kind: plain
`

func parseConfig(t *testing.T, raw string) *Config {
	t.Helper()
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))
	return &cfg
}

func TestParseValidConfig(t *testing.T) {
	cfg := parseConfig(t, validConfigYAML)

	require.Equal(t, ProducerStatic, cfg.Input.Kind)
	require.NotNil(t, cfg.Input.Static)
	assert.Equal(t, 10, cfg.Input.Static.Count)

	require.Len(t, cfg.Event.Templates, 1)
	assert.Equal(t, "greeting", cfg.Event.Templates[0].Alias)

	require.Len(t, cfg.Output, 1)
	assert.Equal(t, OutputStdout, cfg.Output[0].Kind)
	assert.NoError(t, NewValidator(cfg).ValidateAll())
}

func TestParseAmbiguousProducerRejected(t *testing.T) {
	var cfg Config
	err := yaml.Unmarshal([]byte(`
input:
  static: {count: 1}
  cron: {expression: "* * * * * *", count: 1}
event: {mode: all, templates: [{a: {source: x}}]}
`), &cfg)
	assert.Error(t, err)
}

func TestValidateFSMRequiresExactlyOneInitial(t *testing.T) {
	cfg := parseConfig(t, `
input: {static: {count: 1}}
event:
  mode: fsm
  templates:
    - a: {source: x, initial: true}
    - b: {source: y, initial: true}
output: []
`)
	err := NewValidator(cfg).ValidateAll()
	assert.Error(t, err)
}

func TestValidateChanceModeRequiresChance(t *testing.T) {
	cfg := parseConfig(t, `
input: {static: {count: 1}}
event:
  mode: chance
  templates:
    - a: {source: x}
output: []
`)
	err := NewValidator(cfg).ValidateAll()
	assert.Error(t, err)
}

func TestValidateLinspaceRejectsNeverEnd(t *testing.T) {
	cfg := parseConfig(t, `
input:
  linspace: {start: "2024-01-01T00:00:00Z", end: never, count: 5}
event: {mode: all, templates: [{a: {source: x}}]}
output: []
`)
	err := NewValidator(cfg).ValidateAll()
	assert.Error(t, err)
}

func TestValidateFileOutputRequiresAbsolutePath(t *testing.T) {
	cfg := parseConfig(t, `
input: {static: {count: 1}}
event: {mode: all, templates: [{a: {source: x}}]}
output:
  - file:
      path: relative/path.log
      cleanup_interval: 30s
      formatter: {kind: plain}
`)
	err := NewValidator(cfg).ValidateAll()
	assert.Error(t, err)
}
