package gocube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// execWaitDelay bounds how long a killed solver may keep its pipes open.
const execWaitDelay = 500 * time.Millisecond

// ExecEngine runs an external solver program, such as the kociemba CLI.
// The facelet string is passed as the last argument and the solution is
// read from the first non-empty line of stdout. Output starting with
// "Error" or a non-zero exit marks the state unsolvable.
type ExecEngine struct {
	// Command is the program followed by its leading arguments.
	Command []string
}

// NewExecEngine creates an engine for the given command line.
func NewExecEngine(command ...string) *ExecEngine {
	return &ExecEngine{Command: command}
}

// Name identifies the engine in logs and solution records.
func (e *ExecEngine) Name() string {
	if len(e.Command) == 0 {
		return "exec"
	}
	return "exec:" + e.Command[0]
}

// Solve implements Engine.
func (e *ExecEngine) Solve(ctx context.Context, state string) (string, error) {
	if len(e.Command) == 0 {
		return "", errors.New("gocube: exec engine has no command")
	}

	args := append(append([]string{}, e.Command[1:]...), state)
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	cmd.WaitDelay = execWaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	line := firstLine(stdout.String())
	if strings.HasPrefix(line, "Error") {
		return "", fmt.Errorf("%w: %s", ErrUnsolvableState, line)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := firstLine(stderr.String())
			if msg == "" {
				msg = line
			}
			return "", fmt.Errorf("%w: solver exited with code %d: %s", ErrUnsolvableState, exitErr.ExitCode(), msg)
		}
		return "", fmt.Errorf("failed to run solver %s: %w", e.Command[0], err)
	}

	return line, nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
