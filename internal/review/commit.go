package review

import (
	"regexp"
	"strings"

	"github.com/ariel-frischer/changelog/internal/changelog"
)

// shortIDLen is the abbreviated commit hash length shown to the user.
const shortIDLen = 7

// Commit is a commit offered for review.
type Commit struct {
	ID      string
	Summary string
}

// ShortID returns the abbreviated commit hash.
func (c Commit) ShortID() string {
	if len(c.ID) <= shortIDLen {
		return c.ID
	}
	return c.ID[:shortIDLen]
}

// conventionalPattern matches "type(scope)!: description".
var conventionalPattern = regexp.MustCompile(`^([A-Za-z]+)(?:\([^()\r\n]*\))?(!)?:\s+(\S.*)$`)

// Suggestion is the default categorization of a commit summary.
type Suggestion struct {
	Category  changelog.Category
	Text      string
	Preselect bool
}

// Suggest derives a default category and entry text from a commit summary.
// Conventional "feat" commits become Added and "fix" commits Fixed; both start
// selected. Any other commit defaults to Changed. The type prefix is stripped
// from conventional commits.
func Suggest(summary string) Suggestion {
	summary = strings.TrimSpace(summary)
	m := conventionalPattern.FindStringSubmatch(summary)
	if m == nil {
		return Suggestion{Category: changelog.Changed, Text: summary}
	}

	text := strings.TrimSpace(m[3])
	switch strings.ToLower(m[1]) {
	case "feat":
		return Suggestion{Category: changelog.Added, Text: text, Preselect: true}
	case "fix":
		return Suggestion{Category: changelog.Fixed, Text: text, Preselect: true}
	default:
		return Suggestion{Category: changelog.Changed, Text: text}
	}
}
