package wiki

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command is one invocation of an external program.
type Command struct {
	Dir    string
	Binary string
	Args   []string
	// Interactive attaches the process to the terminal so it can prompt for
	// input (Pywikibot asks for credentials and confirmations this way). No
	// output is captured.
	Interactive bool
}

func (c Command) String() string {
	return strings.TrimSpace(c.Binary + " " + strings.Join(c.Args, " "))
}

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes cmd and returns its standard output.
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Binary, c.Args...) //nolint:gosec
	cmd.Dir = c.Dir

	if c.Interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		return nil, nil
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", c, err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", c, err)
	}
	return stdout.Bytes(), nil
}
