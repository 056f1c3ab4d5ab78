package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	opensearch "github.com/opensearch-project/opensearch-go/v2"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/format"
)

// openSearchOutput indexes formatted events into a cluster via the official
// opensearch-go/v2 client, which round-robins across the configured hosts
// itself. A single event goes through the single-document index path; a
// batch is built into one `_bulk` NDJSON body, matching spec.md §4.7's
// two-path description.
type openSearchOutput struct {
	spec      config.OpenSearchOutputSpec
	client    *opensearch.Client
	formatter format.Formatter
	log       *slog.Logger
}

func newOpenSearchOutput(spec config.OpenSearchOutputSpec, formatter format.Formatter, log *slog.Logger) (*openSearchOutput, error) {
	httpClient, err := buildHTTPClient(spec.TLS, spec.Timeouts, spec.ProxyURL)
	if err != nil {
		return nil, fmt.Errorf("output: opensearch: %w", err)
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: spec.Hosts,
		Username:  spec.Username,
		Password:  spec.Password,
		Transport: httpClient.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("output: opensearch: new client: %w", err)
	}

	return &openSearchOutput{spec: spec, client: client, formatter: formatter, log: log}, nil
}

func (o *openSearchOutput) Open(ctx context.Context) error  { return nil }
func (o *openSearchOutput) Close(ctx context.Context) error { return nil }

func (o *openSearchOutput) Write(ctx context.Context, events []string) (int, error) {
	formatted, _, errs := o.formatter.Format(events)
	for _, e := range errs {
		o.log.WarnContext(ctx, "event failed to format", "error", e.Err, "event", e.Event)
	}

	if len(formatted) == 0 {
		return 0, nil
	}
	if len(formatted) == 1 {
		return o.writeSingle(ctx, formatted[0])
	}
	return o.writeBulk(ctx, formatted)
}

func (o *openSearchOutput) writeSingle(ctx context.Context, event string) (int, error) {
	resp, err := o.client.Index(o.spec.Index, strings.NewReader(event), o.client.Index.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("output: opensearch: index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		return 0, fmt.Errorf("output: opensearch: index: unexpected status %d", resp.StatusCode)
	}
	return 1, nil
}

// bulkResponse is the subset of an OpenSearch `_bulk` response this plugin
// inspects: whether any item failed, per spec.md §4.7 "per-item errors are
// counted and logged".
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			Status int `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

func (o *openSearchOutput) writeBulk(ctx context.Context, events []string) (int, error) {
	var body bytes.Buffer
	for _, e := range events {
		action := fmt.Sprintf(`{"index":{"_index":%q}}`, o.spec.Index)
		body.WriteString(action)
		body.WriteByte('\n')
		body.WriteString(e)
		body.WriteByte('\n')
	}

	resp, err := o.client.Bulk(&body, o.client.Bulk.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("output: opensearch: bulk: %w", err)
	}
	defer resp.Body.Close()

	// A whole-request 5xx returns an error instead of per-item counts; the
	// output unit logs it like any other write error and keeps running.
	if resp.StatusCode >= 500 {
		return 0, fmt.Errorf("output: opensearch: bulk: server error status %d", resp.StatusCode)
	}
	if resp.StatusCode != 200 {
		return 0, fmt.Errorf("output: opensearch: bulk: unexpected status %d", resp.StatusCode)
	}

	var parsed bulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("output: opensearch: bulk: decode response: %w", err)
	}

	if !parsed.Errors {
		return len(events), nil
	}

	delivered := 0
	for i, item := range parsed.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			delivered++
			continue
		}
		o.log.WarnContext(ctx, "opensearch bulk item failed",
			"status", item.Index.Status, "error_type", item.Index.Error.Type,
			"error_reason", item.Index.Error.Reason, "event_index", i)
	}
	return delivered, nil
}
