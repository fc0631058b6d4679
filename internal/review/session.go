package review

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/ariel-frischer/changelog/internal/changelog"
)

// State is the position of a Session in the review flow.
type State int

const (
	StateSelecting State = iota
	StateCategorizing
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateCategorizing:
		return "categorizing"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Editor edits text in a blocking call and returns the result.
type Editor interface {
	Edit(ctx context.Context, text string) (string, error)
}

// Session is one review of a fixed list of commits.
//
// Selecting -> Categorizing -> Committed, with Cancel allowed before Committed.
// Committed and Cancelled are terminal.
type Session struct {
	commits  []Commit
	selected []bool
	items    []Item
	state    State
}

// NewSession starts a session in StateSelecting. With preselect set, commits
// whose Suggestion asks for it start selected.
func NewSession(commits []Commit, preselect bool) *Session {
	s := &Session{
		commits:  append([]Commit(nil), commits...),
		selected: make([]bool, len(commits)),
	}
	if preselect {
		for i, c := range commits {
			s.selected[i] = Suggest(c.Summary).Preselect
		}
	}
	return s
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Commits returns the commits under review in display order.
func (s *Session) Commits() []Commit {
	return append([]Commit(nil), s.commits...)
}

// Selection returns the per-commit selection flags in display order.
func (s *Session) Selection() []bool {
	return append([]bool(nil), s.selected...)
}

// Toggle flips the selection of commit i.
func (s *Session) Toggle(i int) error {
	if err := s.require("toggle a commit", StateSelecting); err != nil {
		return err
	}
	if i < 0 || i >= len(s.commits) {
		return fmt.Errorf("commit index %d out of range (0-%d)", i, len(s.commits)-1)
	}
	s.selected[i] = !s.selected[i]
	return nil
}

// SelectAll selects every commit.
func (s *Session) SelectAll() error {
	if err := s.require("select all commits", StateSelecting); err != nil {
		return err
	}
	for i := range s.selected {
		s.selected[i] = true
	}
	return nil
}

// SetSelection replaces the selection with exactly the given indices.
func (s *Session) SetSelection(indices []int) error {
	if err := s.require("select commits", StateSelecting); err != nil {
		return err
	}
	next := make([]bool, len(s.commits))
	for _, i := range indices {
		if i < 0 || i >= len(s.commits) {
			return fmt.Errorf("commit index %d out of range (0-%d)", i, len(s.commits)-1)
		}
		next[i] = true
	}
	s.selected = next
	return nil
}

// Selected returns the selected commits in display order.
func (s *Session) Selected() []Commit {
	var out []Commit
	for i, c := range s.commits {
		if s.selected[i] {
			out = append(out, c)
		}
	}
	return out
}

// Confirm ends selection. An empty selection cancels the session.
func (s *Session) Confirm() error {
	if err := s.require("confirm the selection", StateSelecting); err != nil {
		return err
	}
	if len(s.Selected()) == 0 {
		s.state = StateCancelled
		return nil
	}

	s.items = s.items[:0]
	for _, c := range s.Selected() {
		sg := Suggest(c.Summary)
		s.items = append(s.items, Item{Commit: c, Category: sg.Category, Text: sg.Text})
	}
	s.state = StateCategorizing
	return nil
}

// Cancel abandons the session. The document is never touched.
func (s *Session) Cancel() error {
	if err := s.require("cancel", StateSelecting, StateCategorizing); err != nil {
		return err
	}
	s.state = StateCancelled
	s.items = nil
	return nil
}

// Items returns the pending entries: suggestions after Confirm, the edited
// result after Categorize.
func (s *Session) Items() []Item {
	return append([]Item(nil), s.items...)
}

// Template returns the editor text for the pending items.
func (s *Session) Template() string {
	return BuildTemplate(s.items)
}

// Categorize hands the pending items to the editor in one pass and replaces
// them with what comes back. Removing every line cancels the session. A
// malformed line leaves the session in StateCategorizing so it can be retried.
func (s *Session) Categorize(ctx context.Context, ed Editor) error {
	if err := s.require("categorize", StateCategorizing); err != nil {
		return err
	}

	edited, err := ed.Edit(ctx, s.Template())
	if err != nil {
		return fmt.Errorf("editing review template: %w", err)
	}

	items, err := ParseTemplate(edited, s.Selected())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		s.state = StateCancelled
		s.items = nil
		return nil
	}
	s.items = items
	return nil
}

// Commit adds every pending item to the target section of doc as one batch.
// A nil target means Unreleased.
//
// Items are applied to a copy of doc; the first failure returns a CommitError
// and leaves doc untouched. On success doc takes the copy's contents.
func (s *Session) Commit(doc *changelog.Document, target *semver.Version) ([]changelog.Entry, error) {
	if err := s.require("commit", StateCategorizing); err != nil {
		return nil, err
	}

	work := doc.Clone()
	section, err := changelog.ResolveSection(work, target)
	if err != nil {
		return nil, err
	}

	entries := make([]changelog.Entry, 0, len(s.items))
	for i, it := range s.items {
		if err := changelog.AddEntry(work, it.Text, it.Category, target); err != nil {
			return nil, &CommitError{Index: i, Item: it, Err: err}
		}
		entries = append(entries, changelog.Entry{Text: it.Text, Category: it.Category, Version: section.Label})
	}

	*doc = *work
	s.state = StateCommitted
	return entries, nil
}

func (s *Session) require(op string, allowed ...State) error {
	for _, st := range allowed {
		if s.state == st {
			return nil
		}
	}
	return &StateError{Op: op, State: s.state}
}
