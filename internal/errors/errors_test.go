package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/git"
	"github.com/ariel-frischer/changelog/internal/review"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := map[string]struct {
		err          error
		wantCategory ErrorCategory
		wantFix      string
	}{
		"parse error": {
			err:          &changelog.ParseError{Line: 4, Message: "stray text"},
			wantCategory: Structural,
			wantFix:      "Fix the reported line",
		},
		"wrapped unknown category": {
			err:          fmt.Errorf("loading: %w", &changelog.UnknownCategoryError{Name: "Misc", Line: 9, Section: "1.0.0"}),
			wantCategory: Structural,
		},
		"unknown version": {
			err:          &changelog.UnknownVersionError{Version: "9.9.9"},
			wantCategory: Argument,
			wantFix:      "changelog version list",
		},
		"not increasing": {
			err:          &changelog.VersionNotIncreasingError{Version: "1.0.0", Latest: "1.0.0"},
			wantCategory: Argument,
			wantFix:      "greater than the latest",
		},
		"no prior version": {
			err:          &changelog.NoPriorVersionError{Bump: changelog.BumpMinor},
			wantCategory: Argument,
			wantFix:      "explicit version",
		},
		"empty release": {
			err:          &changelog.EmptyReleaseError{Version: "1.1.0"},
			wantCategory: Policy,
			wantFix:      "--force",
		},
		"editor format": {
			err:          &review.EditorFormatError{Line: 2, Text: "junk", Reason: "missing commit"},
			wantCategory: Argument,
			wantFix:      "<type> <commit> <text>",
		},
		"no editor": {
			err:          fmt.Errorf("categorizing commits: %w", review.ErrNoEditor),
			wantCategory: Prerequisite,
			wantFix:      "$EDITOR",
		},
		"not a repository": {
			err:          fmt.Errorf("/tmp/x: %w", git.ErrNotRepository),
			wantCategory: Prerequisite,
			wantFix:      "git init",
		},
		"plain error": {
			err:          stderrors.New("disk full"),
			wantCategory: Runtime,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := FromError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.ErrorIs(t, got, tt.err)
			if tt.wantFix != "" {
				require.NotEmpty(t, got.Remediation)
				assert.Contains(t, strings.Join(got.Remediation, "\n"), tt.wantFix)
			}
		})
	}
}

func TestFromError_PassesCLIErrorThrough(t *testing.T) {
	original := MissingChangelog("CHANGELOG.md")
	wrapped := fmt.Errorf("running add: %w", original)

	assert.Same(t, original, FromError(wrapped))
	assert.Nil(t, FromError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	err := NewArgumentErrorWithUsage("entry text is required", "changelog add \"<text>\"", "Provide the entry text in quotes")

	want := "Error [Argument Error]: entry text is required\n" +
		"\n" +
		"Usage: changelog add \"<text>\"\n" +
		"\n" +
		"To fix this:\n" +
		"  • Provide the entry text in quotes\n"
	assert.Equal(t, want, FormatErrorPlain(err))
}

func TestFprint_NoColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	Fprint(&buf, &changelog.EmptyReleaseError{Version: "1.1.0"})
	assert.Contains(t, buf.String(), "Error [Policy Error]: nothing to release for 1.1.0")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestCategoryString(t *testing.T) {
	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":      {category: Argument, want: "Argument Error"},
		"configuration": {category: Configuration, want: "Configuration Error"},
		"prerequisite":  {category: Prerequisite, want: "Prerequisite Error"},
		"runtime":       {category: Runtime, want: "Runtime Error"},
		"structural":    {category: Structural, want: "Changelog Error"},
		"policy":        {category: Policy, want: "Policy Error"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}
