package input

import (
	"context"
	"testing"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t time.Time) NowFunc {
	return func() timestamp.Timestamp { return toTimestamp(t) }
}

func collect(t *testing.T, gen func(ctx context.Context, emit Emit) error) []timestamp.Timestamp {
	t.Helper()
	var got []timestamp.Timestamp
	err := gen(context.Background(), func(b timestamp.Batch) error {
		got = append(got, b.Timestamps...)
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestStaticProducerEmitsCountCopies(t *testing.T) {
	p, err := New(1, nil, config.ProducerSpec{Kind: config.ProducerStatic, Static: &config.StaticProducerSpec{Count: 5}}, fixedNow(time.Now()))
	require.NoError(t, err)

	got := collect(t, p.GenerateSample)
	assert.Len(t, got, 5)
}

func TestLinspaceProducerEndpointInclusive(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	endpoint := true

	p, err := New(1, nil, config.ProducerSpec{
		Kind: config.ProducerLinspace,
		Linspace: &config.LinspaceProducerSpec{
			Start: config.TimeBound(start.Format(time.RFC3339)),
			End:   config.TimeBound(end.Format(time.RFC3339)),
			Count: 3, Endpoint: &endpoint,
		},
	}, fixedNow(start))
	require.NoError(t, err)

	got := collect(t, p.GenerateSample)
	require.Len(t, got, 3)
	assert.Equal(t, toTimestamp(start), got[0])
	assert.Equal(t, toTimestamp(end), got[2])
}

func TestTimestampsProducerSortsInlineList(t *testing.T) {
	p, err := New(1, nil, config.ProducerSpec{
		Kind: config.ProducerTimestamps,
		Timestamps: &config.TimestampsProducerSpec{
			Source: config.StringList{"2024-01-02T00:00:00Z", "2024-01-01T00:00:00Z"},
		},
	}, fixedNow(time.Now()))
	require.NoError(t, err)

	got := collect(t, p.GenerateSample)
	require.Len(t, got, 2)
	assert.True(t, got[0] < got[1])
}

func TestTimerProducerRepeatCount(t *testing.T) {
	repeat := 3
	p, err := New(1, nil, config.ProducerSpec{
		Kind: config.ProducerTimer,
		Timer: &config.TimerProducerSpec{
			Seconds: 1, Count: 2, Repeat: &repeat,
		},
	}, fixedNow(time.Now()))
	require.NoError(t, err)

	got := collect(t, p.GenerateSample)
	assert.Len(t, got, 6) // repeat * count
}

func TestCronProducerRejectsInvalidExpression(t *testing.T) {
	_, err := New(1, nil, config.ProducerSpec{
		Kind: config.ProducerCron,
		Cron: &config.CronProducerSpec{Expression: "not a cron expr", Count: 1, End: "never"},
	}, fixedNow(time.Now()))
	assert.Error(t, err)
}

func TestUnknownProducerKindErrors(t *testing.T) {
	_, err := New(1, nil, config.ProducerSpec{Kind: "bogus"}, fixedNow(time.Now()))
	assert.Error(t, err)
}
