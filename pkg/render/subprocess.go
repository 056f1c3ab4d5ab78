package render

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// Result is the outcome of a subprocess.run() template call.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// SubprocessRunner is the pluggable shell-out primitive injected into the
// template environment as subprocess.run(cmd, block?), mirroring tarsy's
// injected-executor pattern (pkg/agent/tool_executor.go): the renderer never
// calls os/exec directly, so tests can substitute a fake runner.
type SubprocessRunner interface {
	Run(ctx context.Context, cmd string, block bool) (Result, error)
}

// ShellRunner executes cmd through "sh -c", optionally waiting for
// completion and capturing output (block=true) or firing-and-forgetting
// (block=false).
type ShellRunner struct {
	// Timeout bounds a blocking run; zero means no timeout.
	Timeout time.Duration
}

// Run implements SubprocessRunner.
func (r ShellRunner) Run(ctx context.Context, cmd string, block bool) (Result, error) {
	if !block {
		c := exec.CommandContext(ctx, "sh", "-c", cmd)
		if err := c.Start(); err != nil {
			return Result{}, err
		}
		go c.Wait()
		return Result{}, nil
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, "sh", "-c", cmd)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	runErr := c.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}
	if _, ok := runErr.(*exec.ExitError); ok {
		return result, nil
	}
	return result, runErr
}
