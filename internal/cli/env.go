package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	"github.com/ariel-frischer/changelog/internal/config"
	clierrors "github.com/ariel-frischer/changelog/internal/errors"
	"github.com/ariel-frischer/changelog/internal/git"
	"github.com/ariel-frischer/changelog/internal/logging"
	"github.com/ariel-frischer/changelog/internal/output"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// env is what a command needs once flags are parsed: the effective
// configuration, a logger, the changelog path and the output streams.
type env struct {
	cfg        *config.Configuration
	logger     *log.Logger
	path       string
	workDir    string
	projectDir string

	out     io.Writer
	caps    output.TerminalCapabilities
	printer *output.Printer
}

// loadEnv resolves the project, loads configuration and sets up logging.
func loadEnv(cmd *cobra.Command, deps Deps) (*env, error) {
	workDir := deps.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		workDir = wd
	}
	stderr := deps.Stderr
	if stderr == nil {
		stderr = cmd.ErrOrStderr()
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}

	projectDir := shared.ProjectDir(workDir)
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:    projectDir,
		WarningWriter: stderr,
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}

	level := cfg.LogLevel
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Output: stderr})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	git.SetDebugLogger(logging.DebugSink(logger))

	path := cfg.ChangelogFile()
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		path = file
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
	}
	logger.Debug("environment", "project", projectDir, "changelog", path)

	out := cmd.OutOrStdout()
	var caps output.TerminalCapabilities
	if f, ok := out.(*os.File); ok {
		caps = output.DetectTerminalCapabilities(f)
	}
	if color.NoColor {
		caps.SupportsColor = false
	}

	return &env{
		cfg:        cfg,
		logger:     logger,
		path:       path,
		workDir:    workDir,
		projectDir: projectDir,
		out:        out,
		caps:       caps,
		printer:    output.NewPrinter(out, caps),
	}, nil
}

// displayPath is the changelog path relative to the working directory when possible.
func (e *env) displayPath() string {
	if rel, err := filepath.Rel(e.workDir, e.path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return e.path
}

// readDocument parses the changelog, logging any normalization notices.
func (e *env) readDocument() (*changelog.Document, error) {
	doc, _, err := e.readSource()
	return doc, err
}

// readSource is readDocument that also returns the file's raw text.
func (e *env) readSource() (*changelog.Document, string, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", clierrors.MissingChangelog(e.displayPath())
		}
		return nil, "", fmt.Errorf("reading changelog: %w", err)
	}
	result, err := changelog.Parse(string(data))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", e.displayPath(), err)
	}
	for _, n := range result.Notices {
		e.logger.Warn(n.Message, "line", n.Line, "notice", n.Kind)
	}
	return result.Document, string(data), nil
}

// writeDocument saves d back to the changelog path.
func (e *env) writeDocument(d *changelog.Document) error {
	if err := changelog.Save(e.path, d); err != nil {
		return clierrors.FileNotWritable(e.displayPath(), err)
	}
	e.logger.Debug("changelog written", "path", e.path)
	return nil
}

// repoURL returns the base URL links are generated from: the repo_url key,
// else the URL of the configured remote, else "" to reuse existing links.
func (e *env) repoURL() string {
	if e.cfg.RepoURL != "" {
		return e.cfg.RepoURL
	}
	url, err := git.RemoteBaseURL(e.projectDir, e.cfg.Remote)
	if err != nil {
		e.logger.Debug("no repository URL from remote", "remote", e.cfg.Remote, "err", err)
		return ""
	}
	return url
}

// syncLinks regenerates the owned link definitions, or strips them all when
// links are disabled.
func (e *env) syncLinks(d *changelog.Document) {
	if !e.cfg.Links {
		changelog.StripLinks(d)
		return
	}
	changelog.RegenerateLinks(d, e.repoURL())
}

// formatOptions returns terminal formatting options for the output stream.
func (e *env) formatOptions(plain bool) changelog.FormatOptions {
	return changelog.FormatOptions{
		Plain:    plain || !e.caps.SupportsColor,
		MaxWidth: e.caps.Width,
	}
}

// showDiff prints how a section's rendering changed when show_diff is on.
func (e *env) showDiff(before, after string) error {
	if !e.cfg.ShowDiff {
		return nil
	}
	lines := changelog.DiffText(before, after)
	if !changelog.HasChanges(lines) {
		return nil
	}
	fmt.Fprintln(e.out)
	return changelog.WriteDiff(e.out, lines, e.formatOptions(false))
}
