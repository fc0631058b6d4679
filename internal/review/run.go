package review

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/charmbracelet/log"
)

// Selector lets the user choose commits. It receives the current selection
// flags and returns the chosen indices, or ErrAborted.
type Selector interface {
	Select(ctx context.Context, commits []Commit, selected []bool) ([]int, error)
}

// RunOptions configures Run.
type RunOptions struct {
	// Target is the section entries are added to; nil means Unreleased.
	Target *semver.Version
	// Preselect starts feat/fix commits selected.
	Preselect bool
	Logger    *log.Logger
}

// Result describes how a review ended.
type Result struct {
	Cancelled bool
	Entries   []changelog.Entry
}

// Run drives a full review of commits against doc.
//
// The target section is checked before any prompt is shown. A user abort in
// either step, an empty selection, or an emptied template all end in
// Result{Cancelled: true} with a nil error and doc unchanged.
func Run(ctx context.Context, doc *changelog.Document, commits []Commit, sel Selector, ed Editor, opts RunOptions) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if _, err := changelog.ResolveSection(doc, opts.Target); err != nil {
		return Result{}, err
	}
	if len(commits) == 0 {
		logger.Info("no commits to review")
		return Result{Cancelled: true}, nil
	}

	s := NewSession(commits, opts.Preselect)
	logger.Debug("review started", "commits", len(commits), "preselected", len(s.Selected()))

	chosen, err := sel.Select(ctx, s.Commits(), s.Selection())
	if err != nil {
		return cancelOn(s, err, "selecting commits", logger)
	}
	if err := s.SetSelection(chosen); err != nil {
		return Result{}, err
	}
	if err := s.Confirm(); err != nil {
		return Result{}, err
	}
	if s.State() == StateCancelled {
		logger.Info("no commits selected")
		return Result{Cancelled: true}, nil
	}

	if err := s.Categorize(ctx, ed); err != nil {
		return cancelOn(s, err, "categorizing commits", logger)
	}
	if s.State() == StateCancelled {
		logger.Info("review template emptied; nothing added")
		return Result{Cancelled: true}, nil
	}

	entries, err := s.Commit(doc, opts.Target)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("review committed", "entries", len(entries))
	return Result{Entries: entries}, nil
}

// cancelOn turns a user abort into a cancelled result and wraps anything else.
func cancelOn(s *Session, err error, step string, logger *log.Logger) (Result, error) {
	if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
		_ = s.Cancel()
		logger.Info("review cancelled", "step", step)
		return Result{Cancelled: true}, nil
	}
	var formatErr *EditorFormatError
	if errors.As(err, &formatErr) {
		return Result{}, err
	}
	return Result{}, fmt.Errorf("%s: %w", step, err)
}
