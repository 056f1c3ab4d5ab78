// Package render implements spec.md §4.5: the Jinja-style event renderer,
// its sample loader, the module.* helper namespace, and the injected
// subprocess runner.
package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/picker"
	"github.com/eventum-project/eventum-core/pkg/state"
	"github.com/nikolalohinski/gonja/v2"
	gonjaconfig "github.com/nikolalohinski/gonja/v2/config"
	"github.com/nikolalohinski/gonja/v2/exec"
	"github.com/nikolalohinski/gonja/v2/loaders"
)

// EventContext carries everything the renderer exposes to a template
// instance beyond its own compiled source: the event's timestamp and
// producer tags, the static user params, the loaded sample sets, and the
// three state scopes (spec.md §4.5 point 2).
type EventContext struct {
	Timestamp time.Time
	Timezone  string
	Tags      []string
	Params    map[string]any
	Samples   map[string][][]any
	Local     state.Store
	Shared    *state.Shared
	Composed  *state.Composed
}

// Renderer compiles each template's source once and executes it per event,
// wrapping a gonja.Environment the way tarsy wraps its own long-lived,
// concurrently-shared clients (pkg/llm/client.go).
type Renderer struct {
	env     *exec.Environment
	module  *Module
	subproc SubprocessRunner

	mu        sync.RWMutex
	templates map[string]*exec.Template
}

// New creates a Renderer. subproc may be nil, in which case a ShellRunner
// with no timeout is used.
func New(subproc SubprocessRunner, seed int64) *Renderer {
	if subproc == nil {
		subproc = ShellRunner{}
	}
	return &Renderer{
		env:       gonja.NewEnvironment(gonjaconfig.DefaultConfig, loaders.MustNewLocalFileSystemLoader("")),
		module:    NewModule(seed),
		subproc:   subproc,
		templates: make(map[string]*exec.Template),
	}
}

// compile returns the cached *exec.Template for source, parsing it on first
// use. source is a file path; templates are looked up relative to the
// environment's configured loader.
func (r *Renderer) compile(source string) (*exec.Template, error) {
	r.mu.RLock()
	tpl, ok := r.templates[source]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.templates[source]; ok {
		return tpl, nil
	}

	tpl, err := r.env.FromFile(source)
	if err != nil {
		return nil, fmt.Errorf("render: compile %s: %w", source, err)
	}
	r.templates[source] = tpl
	return tpl, nil
}

// Render executes the template at source against ctx, returning the
// rendered string. A template runtime error is a recoverable per-event
// failure (spec.md §4.5 "Failure"): the supervisor, not the renderer,
// decides whether to terminate.
func (r *Renderer) Render(source string, ctx EventContext) (string, error) {
	tpl, err := r.compile(source)
	if err != nil {
		return "", err
	}

	data := map[string]any{
		"timestamp":  ctx.Timestamp.Format(time.RFC3339Nano),
		"timezone":   ctx.Timezone,
		"tags":       ctx.Tags,
		"params":     ctx.Params,
		"samples":    ctx.Samples,
		"module":     r.module,
		"subprocess": subprocessBinding{runner: r.subproc},
		"locals":     ctx.Local,
		"shared":     ctx.Shared,
		"composed":   ctx.Composed,
	}

	out, err := tpl.Execute(exec.NewContext(data))
	if err != nil {
		return "", fmt.Errorf("render: execute %s: %w", source, err)
	}
	return out, nil
}

// RenderAll resolves the alias(es) returned by p and renders each in turn,
// per spec.md §4.5 step 1-3.
func (r *Renderer) RenderAll(p picker.Picker, pickCtx picker.Context, sources map[string]config.StringList, evCtx EventContext) ([]string, error) {
	aliases, err := p.Pick(pickCtx)
	if err != nil {
		return nil, fmt.Errorf("render: pick: %w", err)
	}

	var rendered []string
	for _, alias := range aliases {
		paths, ok := sources[alias]
		if !ok {
			return nil, fmt.Errorf("render: no template registered for alias %q", alias)
		}
		for _, path := range paths {
			out, err := r.Render(path, evCtx)
			if err != nil {
				return nil, err
			}
			rendered = append(rendered, out)
		}
	}
	return rendered, nil
}

// subprocessBinding exposes SubprocessRunner.Run to templates as
// subprocess.run(cmd, block), matching spec.md §4.5's `subprocess.run(cmd,
// block?)` surface with a context.Background() bound to each call's
// lifetime.
type subprocessBinding struct {
	runner SubprocessRunner
}

func (s subprocessBinding) Run(cmd string, block bool) (Result, error) {
	return s.runner.Run(context.Background(), cmd, block)
}
