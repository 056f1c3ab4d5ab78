package output

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventum-project/eventum-core/pkg/config"
)

func TestNewUnknownKind(t *testing.T) {
	_, err := New(config.OutputSpec{Kind: "bogus"}, nil)
	require.Error(t, err)
}

func TestNewFileRejectsBadFormatter(t *testing.T) {
	_, err := New(config.OutputSpec{Kind: config.OutputFile, File: &config.FileOutputSpec{
		Path:      "/tmp/x",
		Formatter: config.FormatterSpec{Kind: "nope"},
	}}, nil)
	require.Error(t, err)
}

func TestRowErrorPatternExtractsIndex(t *testing.T) {
	match := rowErrorPattern.FindStringSubmatch("code: 27, message: some failure (at row 3)")
	require.NotNil(t, match)
	require.Equal(t, "3", match[1])
}
