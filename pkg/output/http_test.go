package output

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventum-project/eventum-core/pkg/config"
)

func TestHTTPOutputDeliversPerEvent(t *testing.T) {
	var received []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		received = append(received, string(buf[:n]))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	o, err := New(config.OutputSpec{Kind: config.OutputHTTP, HTTP: &config.HTTPOutputSpec{
		URL:       srv.URL,
		Formatter: config.FormatterSpec{Kind: config.FormatterPlain},
		TLS:       config.TLSSpec{Verify: false},
		Timeouts:  config.DefaultTimeouts(),
	}}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	n, err := o.Write(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"a", "b"}, received)
}

func TestHTTPOutputCountsPerEventFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	o, err := New(config.OutputSpec{Kind: config.OutputHTTP, HTTP: &config.HTTPOutputSpec{
		URL:       srv.URL,
		Formatter: config.FormatterSpec{Kind: config.FormatterPlain},
		TLS:       config.TLSSpec{Verify: false},
		Timeouts:  config.DefaultTimeouts(),
	}}, nil)
	require.NoError(t, err)

	n, err := o.Write(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
