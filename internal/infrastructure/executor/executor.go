package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/ports"
)

// LocalExecutor runs generated code inline with `<shell> -c <code>`.
type LocalExecutor struct {
	shell string
}

// NewLocalExecutor builds a new executor, shell defaults to bash.
func NewLocalExecutor(shell string) *LocalExecutor {
	if shell == "" {
		shell = domain.DefaultInterpreter
	}
	return &LocalExecutor{shell: shell}
}

// Shell returns the interpreter used for execution.
func (e *LocalExecutor) Shell() string {
	return e.shell
}

// Execute implements ports.CommandExecutor. Output is buffered, never streamed.
func (e *LocalExecutor) Execute(ctx context.Context, code string) (domain.ExecutionResult, error) {
	c := exec.CommandContext(ctx, e.shell, "-c", code)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()

	result := domain.ExecutionResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, err
	}
	result.Success = true
	return result, nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
