package output

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/format"
)

// httpOutput POSTs (or PUTs, etc.) one request per event to a configured
// URL. Transient network errors and 5xx responses are retried with
// exponential backoff (github.com/cenkalti/backoff/v4, the same retry
// primitive tarsy's pkg/mcp/recovery.go uses around MCP tool calls); any
// other non-success status is a per-event error that does not halt the
// batch, per spec.md §4.7.
type httpOutput struct {
	spec      config.HTTPOutputSpec
	client    *http.Client
	formatter format.Formatter
	log       *slog.Logger
}

func newHTTPOutput(spec config.HTTPOutputSpec, formatter format.Formatter, log *slog.Logger) (*httpOutput, error) {
	client, err := buildHTTPClient(spec.TLS, spec.Timeouts, spec.ProxyURL)
	if err != nil {
		return nil, fmt.Errorf("output: http: %w", err)
	}
	client = withAuth(client, spec.Username, spec.Password, spec.Headers)
	return &httpOutput{spec: spec, client: client, formatter: formatter, log: log}, nil
}

func (o *httpOutput) Open(ctx context.Context) error  { return nil }
func (o *httpOutput) Close(ctx context.Context) error { return nil }

func (o *httpOutput) Write(ctx context.Context, events []string) (int, error) {
	formatted, _, errs := o.formatter.Format(events)
	for _, e := range errs {
		o.log.WarnContext(ctx, "event failed to format", "error", e.Err, "event", e.Event)
	}

	delivered := 0
	for _, event := range formatted {
		if err := o.sendWithRetry(ctx, event); err != nil {
			o.log.WarnContext(ctx, "http delivery failed", "error", err, "url", o.spec.URL)
			continue
		}
		delivered++
	}
	return delivered, nil
}

func (o *httpOutput) sendWithRetry(ctx context.Context, event string) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	return backoff.Retry(func() error {
		status, err := o.send(ctx, event)
		if err != nil {
			return err
		}
		if status == o.spec.SuccessCodeOrDefault() {
			return nil
		}
		if status >= 500 {
			return fmt.Errorf("output: http: transient status %d", status)
		}
		return backoff.Permanent(fmt.Errorf("output: http: status %d", status))
	}, policy)
}

func (o *httpOutput) send(ctx context.Context, event string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, o.spec.MethodOrDefault(), o.spec.URL, bytes.NewReader([]byte(event)))
	if err != nil {
		return 0, fmt.Errorf("output: http: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("output: http: do request: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
