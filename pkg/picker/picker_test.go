package picker

import (
	"testing"
	"time"

	"github.com/eventum-project/eventum-core/pkg/condition"
	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templates(aliases ...string) []config.TemplateSpec {
	out := make([]config.TemplateSpec, len(aliases))
	for i, a := range aliases {
		out[i] = config.TemplateSpec{Alias: a, Source: config.StringList{a + ".jinja"}}
	}
	return out
}

func TestAllPickerReturnsEveryAlias(t *testing.T) {
	p, err := New(config.EventSpec{Mode: config.PickerAll, Templates: templates("a", "b", "c")}, nil)
	require.NoError(t, err)

	got, err := p.Pick(Context{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestAnyPickerReturnsOneKnownAlias(t *testing.T) {
	p, err := New(config.EventSpec{Mode: config.PickerAny, Templates: templates("a", "b", "c")}, nil)
	require.NoError(t, err)

	known := map[string]bool{"a": true, "b": true, "c": true}
	for i := 0; i < 20; i++ {
		got, err := p.Pick(Context{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, known[got[0]])
	}
}

func TestChancePickerRequiresChanceOnEveryTemplate(t *testing.T) {
	specs := templates("a", "b")
	_, err := New(config.EventSpec{Mode: config.PickerChance, Templates: specs}, nil)
	assert.Error(t, err)
}

func TestChancePickerFavorsHeavierWeight(t *testing.T) {
	heavy, light := 0.99, 0.01
	specs := templates("heavy", "light")
	specs[0].Chance = &heavy
	specs[1].Chance = &light

	p, err := New(config.EventSpec{Mode: config.PickerChance, Templates: specs}, nil)
	require.NoError(t, err)

	counts := map[string]int{}
	for i := 0; i < 500; i++ {
		got, err := p.Pick(Context{})
		require.NoError(t, err)
		counts[got[0]]++
	}
	assert.Greater(t, counts["heavy"], counts["light"])
}

func TestSpinPickerCyclesInOrder(t *testing.T) {
	p, err := New(config.EventSpec{Mode: config.PickerSpin, Templates: templates("a", "b", "c")}, nil)
	require.NoError(t, err)

	var got []string
	for i := 0; i < 7; i++ {
		out, err := p.Pick(Context{})
		require.NoError(t, err)
		got = append(got, out[0])
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
}

func TestFSMPickerRequiresExactlyOneInitial(t *testing.T) {
	specs := templates("a", "b")
	_, err := New(config.EventSpec{Mode: config.PickerFSM, Templates: specs}, condition.NewEvaluator(nil))
	assert.Error(t, err)
}

func TestFSMPickerTransitionsWhenConditionBecomesTrue(t *testing.T) {
	specs := templates("a", "b")
	specs[0].Initial = true
	specs[0].Transition = &config.TransitionSpec{
		To:   "b",
		When: condition.Condition{Gt: condition.FieldCondition{"counter": 5}},
	}

	p, err := New(config.EventSpec{Mode: config.PickerFSM, Templates: specs}, condition.NewEvaluator(nil))
	require.NoError(t, err)

	var got []string
	for counter := 0; counter < 10; counter++ {
		out, err := p.Pick(Context{
			Timestamp: time.Now(),
			Shared:    map[string]any{"counter": counter},
		})
		require.NoError(t, err)
		got = append(got, out[0])
	}

	assert.Equal(t, []string{"a", "a", "a", "a", "a", "a", "b", "b", "b", "b"}, got)
}
