package review

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// fallbackEditors are tried in order when nothing is configured.
var fallbackEditors = []string{"vim", "vi", "nano"}

// ExternalEditor opens text in the user's editor.
//
// The text is written to a file named git-rebase-todo so editors apply their
// rebase-todo highlighting to the "<category> <commit> <text>" lines.
type ExternalEditor struct {
	// Command is the configured editor, consulted after $VISUAL and $EDITOR.
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Getenv and LookPath default to os.Getenv and exec.LookPath.
	Getenv   func(string) string
	LookPath func(string) (string, error)
}

// Edit implements Editor.
func (e *ExternalEditor) Edit(ctx context.Context, text string) (string, error) {
	args, err := e.ResolveCommand()
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "rebase-merge")
	if err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "git-rebase-todo")
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("writing review template: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if e.Stdin != nil {
		cmd.Stdin = e.Stdin
	}
	if e.Stdout != nil {
		cmd.Stdout = e.Stdout
	}
	if e.Stderr != nil {
		cmd.Stderr = e.Stderr
	}
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("editor %q exited with error: %w", args[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading review template: %w", err)
	}
	return string(data), nil
}

// ResolveCommand returns the editor argv: $VISUAL, then $EDITOR, then the
// configured command, then the first of vim, vi or nano found in PATH.
func (e *ExternalEditor) ResolveCommand() ([]string, error) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	lookPath := e.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	for _, candidate := range []string{getenv("VISUAL"), getenv("EDITOR"), e.Command} {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		args, err := shlex.Split(candidate)
		if err != nil {
			return nil, fmt.Errorf("parsing editor command %q: %w", candidate, err)
		}
		if len(args) > 0 {
			return args, nil
		}
	}

	for _, name := range fallbackEditors {
		if path, err := lookPath(name); err == nil {
			return []string{path}, nil
		}
	}
	return nil, ErrNoEditor
}
