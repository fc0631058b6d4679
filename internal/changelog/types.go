package changelog

import (
	"github.com/Masterminds/semver/v3"
)

// UnreleasedLabel is the heading and link label of the Unreleased section.
const UnreleasedLabel = "Unreleased"

// Category is one of the six Keep a Changelog change categories.
// The zero value is Added; categories order by their canonical rendering order.
type Category int

const (
	Added Category = iota
	Changed
	Deprecated
	Removed
	Fixed
	Security
)

var categoryNames = [...]string{"Added", "Changed", "Deprecated", "Removed", "Fixed", "Security"}

// String returns the heading name of the category (e.g. "Added").
func (c Category) String() string {
	if c < Added || c > Security {
		return "Unknown"
	}
	return categoryNames[c]
}

// Key returns the lowercase identifier used in config, editor templates and exports.
func (c Category) Key() string {
	switch c {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Deprecated:
		return "deprecated"
	case Removed:
		return "removed"
	case Fixed:
		return "fixed"
	case Security:
		return "security"
	}
	return "unknown"
}

// Alias returns the one-letter shorthand accepted by LookupCategory.
func (c Category) Alias() string {
	return c.Key()[:1]
}

// Categories returns every category in canonical rendering order.
func Categories() []Category {
	return []Category{Added, Changed, Deprecated, Removed, Fixed, Security}
}

// ValidCategories returns the lowercase category keys in rendering order.
func ValidCategories() []string {
	keys := make([]string, 0, len(categoryNames))
	for _, c := range Categories() {
		keys = append(keys, c.Key())
	}
	return keys
}

// ParseCategory matches a markdown subheading exactly (case-sensitive).
func ParseCategory(heading string) (Category, bool) {
	for _, c := range Categories() {
		if categoryNames[c] == heading {
			return c, true
		}
	}
	return 0, false
}

// LookupCategory is the lenient form used for user input: it accepts
// lowercase or capitalized names and the one-letter aliases a, c, d, r, f, s.
func LookupCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		switch s {
		case c.Key(), c.String(), c.Alias():
			return c, true
		}
	}
	return 0, false
}

// bucket holds the entries of one category within a section.
// tight records that the bullets directly follow the subheading with no blank line.
type bucket struct {
	entries []string
	tight   bool
}

// Section is a single release section, or the Unreleased pseudo-release
// when Version is nil.
type Section struct {
	Version *semver.Version
	// Label is the version token as rendered in the heading and link label.
	Label string
	// Date is YYYY-MM-DD, empty for Unreleased or undated releases.
	Date   string
	Yanked bool
	// Preamble is free text between the heading and the first category, kept verbatim.
	Preamble string

	buckets map[Category]*bucket
	line    int
}

// NewUnreleased returns an empty Unreleased section.
func NewUnreleased() *Section {
	return &Section{Label: UnreleasedLabel}
}

// NewRelease returns an empty section for the given version and date.
func NewRelease(v *semver.Version, date string) *Section {
	return &Section{Version: v, Label: v.String(), Date: date}
}

// IsUnreleased returns true for the Unreleased pseudo-release.
func (s *Section) IsUnreleased() bool {
	return s.Version == nil
}

// Line returns the 1-based source line of the section heading, or 0 when the
// section was not parsed from text.
func (s *Section) Line() int {
	return s.line
}

// Entries returns the entries recorded under a category in insertion order.
func (s *Section) Entries(c Category) []string {
	b := s.buckets[c]
	if b == nil {
		return nil
	}
	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}

// Count returns the total number of entries across all categories.
func (s *Section) Count() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b.entries)
	}
	return n
}

// IsEmpty returns true if the section has no entries in any category.
func (s *Section) IsEmpty() bool {
	return s.Count() == 0
}

// Append adds an entry to the category bucket, creating it when absent.
func (s *Section) Append(c Category, text string, tight bool) {
	if s.buckets == nil {
		s.buckets = make(map[Category]*bucket)
	}
	b := s.buckets[c]
	if b == nil {
		b = &bucket{tight: tight}
		s.buckets[c] = b
	}
	b.entries = append(b.entries, text)
}

// Flatten returns a flattened view of every entry in canonical category order.
func (s *Section) Flatten() []Entry {
	entries := make([]Entry, 0, s.Count())
	for _, c := range Categories() {
		for _, text := range s.Entries(c) {
			entries = append(entries, Entry{Text: text, Category: c, Version: s.Label})
		}
	}
	return entries
}

// takeAll moves every bucket out of s, leaving it empty.
func (s *Section) takeAll() map[Category]*bucket {
	b := s.buckets
	s.buckets = nil
	return b
}

func (s *Section) clone() *Section {
	cp := *s
	cp.buckets = nil
	if s.buckets != nil {
		cp.buckets = make(map[Category]*bucket, len(s.buckets))
		for c, b := range s.buckets {
			entries := make([]string, len(b.entries))
			copy(entries, b.entries)
			cp.buckets[c] = &bucket{entries: entries, tight: b.tight}
		}
	}
	return &cp
}

// Entry is a flattened view of one changelog entry with its context.
type Entry struct {
	Text     string   `yaml:"text" json:"text"`
	Category Category `yaml:"category" json:"category"`
	Version  string   `yaml:"version" json:"version"`
}

// LinkDefinition is a markdown link-reference definition ("[label]: url").
type LinkDefinition struct {
	Label string
	URL   string
	// Title is the optional link title, without its quotes or parentheses.
	Title string
}

// Document is the parsed form of a changelog file.
// Releases are ordered newest first; Unreleased is never nil.
type Document struct {
	// Header is everything before the first section heading, kept verbatim.
	// An empty header renders as DefaultHeader.
	Header     string
	Unreleased *Section
	Releases   []*Section
	// Links are the definitions owned by sections (Unreleased or a version label).
	Links []LinkDefinition
	// ForeignLinks are definitions whose labels match no section; they are preserved as-is.
	ForeignLinks []LinkDefinition

	// tight is the bullet style used for newly created category buckets.
	tight bool
}

// New returns an empty document with the default header and an empty Unreleased section.
func New() *Document {
	return &Document{Header: DefaultHeader, Unreleased: NewUnreleased()}
}

// Sections returns Unreleased followed by every release, newest first.
func (d *Document) Sections() []*Section {
	out := make([]*Section, 0, len(d.Releases)+1)
	out = append(out, d.Unreleased)
	return append(out, d.Releases...)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	cp := *d
	cp.Unreleased = d.Unreleased.clone()
	cp.Releases = make([]*Section, len(d.Releases))
	for i, s := range d.Releases {
		cp.Releases[i] = s.clone()
	}
	cp.Links = append([]LinkDefinition(nil), d.Links...)
	cp.ForeignLinks = append([]LinkDefinition(nil), d.ForeignLinks...)
	return &cp
}

// LinkFor returns the owned link for a label, if any.
func (d *Document) LinkFor(label string) (LinkDefinition, bool) {
	for _, l := range d.Links {
		if l.Label == label {
			return l, true
		}
	}
	return LinkDefinition{}, false
}
