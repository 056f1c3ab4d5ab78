// Package registry implements spec.md §9's "discover and instantiate by
// kind" design note as a small generic keyed table: a constructor is
// registered once per `kind` string, then Build looks it up and invokes it
// against a raw spec value. It generalizes the kind-keyed constructor
// switches scattered through this codebase (pkg/input.New, pkg/output.New,
// pkg/picker.New) into a single reusable primitive for callers that want to
// register plugins without editing a switch statement (those three packages
// keep their own switches and do not use it), the way tarsy's pkg/agent/factory.go resolves an agent
// implementation by its configured kind string.
package registry

import "fmt"

// Constructor builds a T from a validated spec value already decoded into
// the concrete type the kind expects.
type Constructor[T any] func(spec any) (T, error)

// Registry maps a kind string to the Constructor that builds it.
type Registry[T any] struct {
	constructors map[string]Constructor[T]
}

// New creates an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{constructors: make(map[string]Constructor[T])}
}

// Register adds (or replaces) the Constructor for kind.
func (r *Registry[T]) Register(kind string, ctor Constructor[T]) {
	r.constructors[kind] = ctor
}

// Kinds returns every registered kind, in no particular order.
func (r *Registry[T]) Kinds() []string {
	kinds := make([]string, 0, len(r.constructors))
	for k := range r.constructors {
		kinds = append(kinds, k)
	}
	return kinds
}

// Build looks up kind's Constructor and invokes it against spec. An unknown
// kind is a ConfigurationError-flavored failure surfaced to the caller
// rather than a panic, since kind strings ultimately come from user YAML.
func (r *Registry[T]) Build(kind string, spec any) (T, error) {
	var zero T
	ctor, ok := r.constructors[kind]
	if !ok {
		return zero, fmt.Errorf("registry: no constructor registered for kind %q", kind)
	}
	return ctor(spec)
}
