package review

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/changelog/internal/changelog"
)

const templateHelp = `
# Review commits and add them to the changelog
# Lines starting with '#' will be ignored
# Prefix each commit with one of:
#   added (a), changed (c), deprecated (d), removed (r), fixed (f), security (s)
# You can also edit the commit message - it will be used as the changelog entry
# Delete a line to leave that commit out; delete every line to cancel
#
# Example:
# added 1234567 Add new feature
# changed 89abcde Update existing functionality
`

// Item is a selected commit with the category and text it will be recorded as.
type Item struct {
	Commit   Commit
	Category changelog.Category
	Text     string
}

// BuildTemplate renders the editor text for a batch of items, one per line.
// Commits are shown by short ID unless two of them share one, in which case
// those commits are shown by full ID.
func BuildTemplate(items []Item) string {
	commits := make([]Commit, len(items))
	for i, it := range items {
		commits[i] = it.Commit
	}
	ambiguous := sharedShortIDs(commits)

	var b strings.Builder
	for _, it := range items {
		id := it.Commit.ShortID()
		if ambiguous[id] {
			id = it.Commit.ID
		}
		fmt.Fprintf(&b, "%s %s %s\n", it.Category.Key(), id, it.Text)
	}
	b.WriteString(templateHelp)
	return b.String()
}

// ParseTemplate reads an edited template back into items.
//
// Blank lines and lines starting with '#' are ignored. Every other line must be
// "<category-or-alias> <commit-id> <text>" where commit-id is one of the offered
// commits; the first line that isn't is an EditorFormatError. A commit may
// appear on several lines and yields one item per line.
func ParseTemplate(text string, commits []Commit) ([]Item, error) {
	ambiguous := sharedShortIDs(commits)
	byID := make(map[string]Commit, len(commits)*2)
	for _, c := range commits {
		if !ambiguous[c.ShortID()] {
			byID[c.ShortID()] = c
		}
		byID[c.ID] = c
	}

	var items []Item
	for i, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		it, err := parseTemplateLine(line, byID, ambiguous)
		if err != nil {
			return nil, &EditorFormatError{Line: i + 1, Text: line, Reason: err.Error()}
		}
		items = append(items, it)
	}
	return items, nil
}

func parseTemplateLine(line string, byID map[string]Commit, ambiguous map[string]bool) (Item, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Item{}, fmt.Errorf("expected <category> <commit> <text>")
	}

	c, ok := changelog.LookupCategory(fields[0])
	if !ok {
		return Item{}, fmt.Errorf("unknown category %q (expected one of: %s)",
			fields[0], strings.Join(changelog.ValidCategories(), ", "))
	}

	commit, ok := byID[fields[1]]
	if !ok && ambiguous[fields[1]] {
		return Item{}, fmt.Errorf("ambiguous commit %q (use the full commit id)", fields[1])
	}
	if !ok {
		return Item{}, fmt.Errorf("unknown commit %q", fields[1])
	}

	// Keep the user's spacing inside the text.
	rest := strings.TrimSpace(line[len(fields[0]):])
	text := strings.TrimSpace(rest[len(fields[1]):])
	return Item{Commit: commit, Category: c, Text: text}, nil
}

// sharedShortIDs returns the short IDs used by more than one distinct commit.
func sharedShortIDs(commits []Commit) map[string]bool {
	owner := make(map[string]string, len(commits))
	shared := make(map[string]bool)
	for _, c := range commits {
		short := c.ShortID()
		if id, seen := owner[short]; seen && id != c.ID {
			shared[short] = true
		}
		owner[short] = c.ID
	}
	return shared
}
