package condition

import (
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"sync"
	"time"
)

// Context is the information a Condition is evaluated against: the current
// event's timestamp and tags, plus a snapshot of shared state.
type Context struct {
	Shared    map[string]any
	Tags      []string
	Timestamp time.Time
}

// Evaluator evaluates Condition trees against a Context. It logs a warning
// the first time a given missing field or type mismatch is encountered,
// matching spec.md §4.4 ("missing fields compare as false... with a warning
// logged once").
type Evaluator struct {
	log *slog.Logger

	mu     sync.Mutex
	warned map[string]bool
}

// NewEvaluator creates an Evaluator that logs through log.
func NewEvaluator(log *slog.Logger) *Evaluator {
	return &Evaluator{log: log, warned: make(map[string]bool)}
}

// Eval evaluates a Condition against ctx. An all-nil Condition is never
// satisfied.
func (e *Evaluator) Eval(c Condition, ctx Context) bool {
	switch {
	case c.Eq != nil:
		return e.compareField(c.Eq, ctx, "eq")
	case c.Gt != nil:
		return e.compareField(c.Gt, ctx, "gt")
	case c.Ge != nil:
		return e.compareField(c.Ge, ctx, "ge")
	case c.Lt != nil:
		return e.compareField(c.Lt, ctx, "lt")
	case c.Le != nil:
		return e.compareField(c.Le, ctx, "le")
	case c.Matches != nil:
		return e.compareField(c.Matches, ctx, "matches")
	case c.In != nil:
		return e.compareField(c.In, ctx, "in")
	case c.LenEq != nil:
		return e.compareField(c.LenEq, ctx, "len_eq")
	case c.LenGt != nil:
		return e.compareField(c.LenGt, ctx, "len_gt")
	case c.LenGe != nil:
		return e.compareField(c.LenGe, ctx, "len_ge")
	case c.LenLt != nil:
		return e.compareField(c.LenLt, ctx, "len_lt")
	case c.LenLe != nil:
		return e.compareField(c.LenLe, ctx, "len_le")
	case c.Before != nil:
		return ctx.Timestamp.Before(replaceComponents(ctx.Timestamp, *c.Before))
	case c.After != nil:
		return ctx.Timestamp.After(replaceComponents(ctx.Timestamp, *c.After))
	case c.HasTags != nil:
		return hasTags(*c.HasTags, ctx.Tags)
	case c.Defined != nil:
		v, ok := ctx.Shared[*c.Defined]
		return ok && v != nil
	case len(c.And) > 0:
		for _, sub := range c.And {
			if !e.Eval(sub, ctx) {
				return false
			}
		}
		return true
	case len(c.Or) > 0:
		for _, sub := range c.Or {
			if e.Eval(sub, ctx) {
				return true
			}
		}
		return false
	case c.Not != nil:
		return !e.Eval(*c.Not, ctx)
	default:
		return false
	}
}

func (e *Evaluator) compareField(fc FieldCondition, ctx Context, op string) bool {
	field, want, ok := fc.Field()
	if !ok {
		return false
	}

	got, present := ctx.Shared[field]
	if !present {
		e.warnOnce("missing:"+field, fmt.Sprintf("condition references undefined shared state field %q", field))
		return false
	}

	switch op {
	case "eq":
		return reflect.DeepEqual(got, want) || numericEqual(got, want)
	case "gt", "ge", "lt", "le":
		return e.compareOrdered(got, want, op, field)
	case "matches":
		return e.compareMatches(got, want, field)
	case "in":
		return containsValue(want, got)
	case "len_eq", "len_gt", "len_ge", "len_lt", "len_le":
		return e.compareLen(got, want, op, field)
	default:
		return false
	}
}

func (e *Evaluator) compareOrdered(got, want any, op, field string) bool {
	g, gok := toFloat64(got)
	w, wok := toFloat64(want)
	if !gok || !wok {
		e.warnOnce("type:"+field+":"+op, fmt.Sprintf("condition %q on field %q compares non-numeric values", op, field))
		return false
	}
	switch op {
	case "gt":
		return g > w
	case "ge":
		return g >= w
	case "lt":
		return g < w
	case "le":
		return g <= w
	}
	return false
}

func (e *Evaluator) compareMatches(got, want any, field string) bool {
	s, sok := got.(string)
	pattern, pok := want.(string)
	if !sok || !pok {
		e.warnOnce("type:"+field+":matches", fmt.Sprintf("condition \"matches\" on field %q requires string values", field))
		return false
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		e.warnOnce("regex:"+field, fmt.Sprintf("condition \"matches\" on field %q has an invalid regex %q: %v", field, pattern, err))
		return false
	}
	return re.MatchString(s)
}

func (e *Evaluator) compareLen(got, want any, op, field string) bool {
	n, ok := lengthOf(got)
	if !ok {
		e.warnOnce("type:"+field+":"+op, fmt.Sprintf("condition %q on field %q has no length", op, field))
		return false
	}
	w, wok := toFloat64(want)
	if !wok {
		e.warnOnce("type:"+field+":"+op, fmt.Sprintf("condition %q on field %q compares against a non-numeric length", op, field))
		return false
	}
	f := float64(n)
	switch op {
	case "len_eq":
		return f == w
	case "len_gt":
		return f > w
	case "len_ge":
		return f >= w
	case "len_lt":
		return f < w
	case "len_le":
		return f <= w
	}
	return false
}

func (e *Evaluator) warnOnce(key, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.warned[key] {
		return
	}
	e.warned[key] = true
	if e.log != nil {
		e.log.Warn(message)
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func numericEqual(got, want any) bool {
	g, gok := toFloat64(got)
	w, wok := toFloat64(want)
	return gok && wok && g == w
}

func lengthOf(v any) (int, bool) {
	switch x := v.(type) {
	case string:
		return len(x), true
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len(), true
		default:
			return 0, false
		}
	}
}

func containsValue(collection, item any) bool {
	rv := reflect.ValueOf(collection)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if reflect.DeepEqual(elem, item) || numericEqual(elem, item) {
			return true
		}
	}
	return false
}

func hasTags(want TagSet, have []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	for _, t := range want {
		if !set[t] {
			return false
		}
	}
	return true
}

func replaceComponents(t time.Time, spec TemporalCondition) time.Time {
	year, month, day := t.Date()
	hour, minute, second := t.Clock()
	micro := t.Nanosecond() / 1000

	if spec.Year != nil {
		year = *spec.Year
	}
	if spec.Month != nil {
		month = time.Month(*spec.Month)
	}
	if spec.Day != nil {
		day = *spec.Day
	}
	if spec.Hour != nil {
		hour = *spec.Hour
	}
	if spec.Minute != nil {
		minute = *spec.Minute
	}
	if spec.Second != nil {
		second = *spec.Second
	}
	if spec.Microsecond != nil {
		micro = *spec.Microsecond
	}

	return time.Date(year, month, day, hour, minute, second, micro*1000, t.Location())
}
