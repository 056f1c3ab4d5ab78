package output

import (
	"bufio"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventum-project/eventum-core/pkg/config"
)

func TestStdoutOutputWritesToStream(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	o, err := New(config.OutputSpec{Kind: config.OutputStdout, Stdout: &config.StdoutOutputSpec{
		Formatter: config.FormatterSpec{Kind: config.FormatterPlain},
	}}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, o.Open(ctx))

	n, err := o.Write(ctx, []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, o.Close(ctx))
	require.NoError(t, w.Close())

	line, err := bufio.NewReader(r).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "hello\n", line)
}
