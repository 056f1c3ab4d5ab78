package condition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func evalCtx(shared map[string]any) Context {
	return Context{Shared: shared, Timestamp: time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)}
}

func TestEvalComparisons(t *testing.T) {
	e := NewEvaluator(nil)

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"eq true", Condition{Eq: FieldCondition{"counter": 5}}, true},
		{"eq false", Condition{Eq: FieldCondition{"counter": 6}}, false},
		{"gt true", Condition{Gt: FieldCondition{"counter": 4}}, true},
		{"gt false", Condition{Gt: FieldCondition{"counter": 5}}, false},
		{"ge true equal", Condition{Ge: FieldCondition{"counter": 5}}, true},
		{"lt true", Condition{Lt: FieldCondition{"counter": 6}}, true},
		{"le true equal", Condition{Le: FieldCondition{"counter": 5}}, true},
	}

	ctx := evalCtx(map[string]any{"counter": 5})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Eval(tt.cond, ctx))
		})
	}
}

func TestEvalMissingFieldIsFalse(t *testing.T) {
	e := NewEvaluator(nil)
	ctx := evalCtx(map[string]any{})
	assert.False(t, e.Eval(Condition{Gt: FieldCondition{"missing": 1}}, ctx))
}

func TestEvalTypeErrorIsFalse(t *testing.T) {
	e := NewEvaluator(nil)
	ctx := evalCtx(map[string]any{"name": "bob"})
	assert.False(t, e.Eval(Condition{Gt: FieldCondition{"name": 1}}, ctx))
}

func TestEvalMatches(t *testing.T) {
	e := NewEvaluator(nil)
	ctx := evalCtx(map[string]any{"host": "web-01.prod"})
	assert.True(t, e.Eval(Condition{Matches: FieldCondition{"host": `^web-\d+\.prod$`}}, ctx))
	assert.False(t, e.Eval(Condition{Matches: FieldCondition{"host": `^db-`}}, ctx))
}

func TestEvalIn(t *testing.T) {
	e := NewEvaluator(nil)
	ctx := evalCtx(map[string]any{"region": "us-east-1"})
	assert.True(t, e.Eval(Condition{In: FieldCondition{"region": []any{"us-east-1", "us-west-2"}}}, ctx))
	assert.False(t, e.Eval(Condition{In: FieldCondition{"region": []any{"eu-west-1"}}}, ctx))
}

func TestEvalLen(t *testing.T) {
	e := NewEvaluator(nil)
	ctx := evalCtx(map[string]any{"items": []any{1, 2, 3}})
	assert.True(t, e.Eval(Condition{LenEq: FieldCondition{"items": 3}}, ctx))
	assert.True(t, e.Eval(Condition{LenGt: FieldCondition{"items": 2}}, ctx))
	assert.False(t, e.Eval(Condition{LenLt: FieldCondition{"items": 3}}, ctx))
}

func TestEvalTemporal(t *testing.T) {
	e := NewEvaluator(nil)
	ctx := evalCtx(nil) // timestamp = 2024-01-01T10:30:00Z

	nine := 9
	assert.True(t, e.Eval(Condition{After: &TemporalCondition{Hour: &nine}}, ctx))
	assert.False(t, e.Eval(Condition{Before: &TemporalCondition{Hour: &nine}}, ctx))
}

func TestEvalHasTags(t *testing.T) {
	e := NewEvaluator(nil)
	ctx := Context{Tags: []string{"web", "prod", "us-east"}}

	tags := TagSet{"web", "prod"}
	assert.True(t, e.Eval(Condition{HasTags: &tags}, ctx))

	missing := TagSet{"db"}
	assert.False(t, e.Eval(Condition{HasTags: &missing}, ctx))
}

func TestEvalDefined(t *testing.T) {
	e := NewEvaluator(nil)
	ctx := evalCtx(map[string]any{"present": 1, "nullish": nil})

	present := "present"
	nullish := "nullish"
	missing := "missing"
	assert.True(t, e.Eval(Condition{Defined: &present}, ctx))
	assert.False(t, e.Eval(Condition{Defined: &nullish}, ctx))
	assert.False(t, e.Eval(Condition{Defined: &missing}, ctx))
}

func TestEvalLogical(t *testing.T) {
	e := NewEvaluator(nil)
	ctx := evalCtx(map[string]any{"counter": 5})

	gt4 := Condition{Gt: FieldCondition{"counter": 4}}
	lt3 := Condition{Lt: FieldCondition{"counter": 3}}

	assert.True(t, e.Eval(Condition{And: []Condition{gt4}}, ctx))
	assert.False(t, e.Eval(Condition{And: []Condition{gt4, lt3}}, ctx))
	assert.True(t, e.Eval(Condition{Or: []Condition{gt4, lt3}}, ctx))
	assert.True(t, e.Eval(Condition{Not: &lt3}, ctx))
}

func TestEvalEmptyConditionIsFalse(t *testing.T) {
	e := NewEvaluator(nil)
	assert.False(t, e.Eval(Condition{}, evalCtx(nil)))
}
