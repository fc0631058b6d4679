package changelog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// NoticeKind identifies a non-fatal normalization applied while parsing.
type NoticeKind int

const (
	// NoticeReordered means sections were moved into canonical newest-first order.
	NoticeReordered NoticeKind = iota
	// NoticeAddedUnreleased means the source had no Unreleased section and one was created.
	NoticeAddedUnreleased
	// NoticeNormalizedVersion means a heading token lost its "v" prefix.
	NoticeNormalizedVersion
	// NoticeDuplicateLink means a second definition for the same section label was dropped.
	NoticeDuplicateLink
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeReordered:
		return "reordered"
	case NoticeAddedUnreleased:
		return "added-unreleased"
	case NoticeNormalizedVersion:
		return "normalized-version"
	case NoticeDuplicateLink:
		return "duplicate-link"
	}
	return "unknown"
}

// Notice describes a normalization the parser applied instead of failing.
type Notice struct {
	Kind    NoticeKind
	Line    int
	Message string
}

func (n Notice) String() string {
	if n.Line > 0 {
		return fmt.Sprintf("line %d: %s", n.Line, n.Message)
	}
	return n.Message
}

// ParseResult is a parsed document together with the normalizations applied to it.
type ParseResult struct {
	Document *Document
	Notices  []Notice
}

var (
	sectionHeadingPattern  = regexp.MustCompile(`^##\s+(.*?)\s*$`)
	categoryHeadingPattern = regexp.MustCompile(`^###\s+(.*?)\s*$`)
	otherHeadingPattern    = regexp.MustCompile(`^#{1,6}(\s|$)`)
	titlePattern           = regexp.MustCompile(`^\[?([^\[\]\s]+)\]?(?:\s+[-–—]\s+(.+))?$`)
	bulletPattern          = regexp.MustCompile(`^[-*+]\s+(.*?)\s*$`)
	linkDefPattern         = regexp.MustCompile(`^\s{0,3}\[([^\]]+)\]:\s+(\S+)(?:\s+(?:"([^"]*)"|'([^']*)'|\(([^()]*)\)))?\s*$`)
	datePattern            = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const yankedMarker = "[YANKED]"

// Parse builds a Document from Keep a Changelog markdown.
//
// Structural problems (duplicate versions, unparsable version tokens, unknown
// category subheadings, stray text) are returned as errors carrying the source
// line. Releases that appear out of order are sorted newest first and reported
// as a NoticeReordered rather than an error.
func Parse(text string) (*ParseResult, error) {
	p := &parser{lines: splitLines(text)}
	if err := p.run(); err != nil {
		return nil, err
	}
	return &ParseResult{Document: p.doc, Notices: p.notices}, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

type rawLink struct {
	def  LinkDefinition
	line int
}

// parser holds the state of a single Parse call.
type parser struct {
	lines   []string
	doc     *Document
	notices []Notice

	section  *Section
	preamble []string
	category *Category
	// blankSinceHeading is set once a blank line follows the current ### heading.
	blankSinceHeading bool
	// entryOpen is set while the next non-blank line may continue the last bullet.
	entryOpen  bool
	styleKnown bool
	sections   []*Section
	links      []rawLink
}

func (p *parser) run() error {
	p.doc = &Document{}

	start := len(p.lines)
	for i, line := range p.lines {
		if sectionHeadingPattern.MatchString(line) {
			start = i
			break
		}
	}
	p.doc.Header = strings.TrimRight(strings.Join(p.lines[:start], "\n"), " \t\n")

	for i := start; i < len(p.lines); i++ {
		if err := p.line(i+1, p.lines[i]); err != nil {
			return err
		}
	}
	p.closeSection()

	if err := p.assemble(); err != nil {
		return err
	}
	p.attachLinks()
	return nil
}

func (p *parser) line(n int, line string) error {
	if m := linkDefPattern.FindStringSubmatch(line); m != nil {
		def := LinkDefinition{Label: m[1], URL: m[2], Title: m[3] + m[4] + m[5]}
		p.links = append(p.links, rawLink{def: def, line: n})
		p.entryOpen = false
		return nil
	}

	if strings.TrimSpace(line) == "" {
		p.entryOpen = false
		if p.category != nil {
			p.blankSinceHeading = true
		} else if p.section != nil {
			p.preamble = append(p.preamble, "")
		}
		return nil
	}

	if m := categoryHeadingPattern.FindStringSubmatch(line); m != nil {
		return p.categoryHeading(n, m[1])
	}
	if m := sectionHeadingPattern.FindStringSubmatch(line); m != nil {
		return p.sectionHeading(n, m[1])
	}
	if otherHeadingPattern.MatchString(line) {
		return &ParseError{Line: n, Message: fmt.Sprintf("unexpected heading %q inside a section", strings.TrimSpace(line))}
	}

	if p.category == nil {
		p.preamble = append(p.preamble, line)
		return nil
	}

	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		p.addEntry(m[1])
		return nil
	}

	if p.entryOpen {
		p.continueEntry(strings.TrimRight(line, " \t"))
		return nil
	}

	return &ParseError{
		Line:    n,
		Message: fmt.Sprintf("unexpected text under ### %s (entries must be list items)", p.category),
	}
}

func (p *parser) sectionHeading(n int, title string) error {
	p.closeSection()

	m := titlePattern.FindStringSubmatch(title)
	if m == nil {
		return &InvalidVersionError{Token: title, Line: n, Reason: `expected "[X.Y.Z] - YYYY-MM-DD" or "[Unreleased]"`}
	}
	token, rest := m[1], strings.TrimSpace(m[2])

	s := &Section{line: n}
	if strings.EqualFold(token, UnreleasedLabel) {
		if rest != "" {
			return &ParseError{Line: n, Message: "the Unreleased section cannot carry a date"}
		}
		s.Label = UnreleasedLabel
	} else {
		v, err := parseVersionToken(token, n)
		if err != nil {
			return err
		}
		if v.Original() != token {
			p.notice(NoticeNormalizedVersion, n, fmt.Sprintf("version %s written as %s", token, v.Original()))
		}
		s.Version = v
		s.Label = v.Original()
		if err := parseDateToken(s, rest, n); err != nil {
			return err
		}
	}

	p.section = s
	p.sections = append(p.sections, s)
	return nil
}

func parseVersionToken(token string, line int) (*semver.Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(token, "v"), "V")
	v, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return nil, &InvalidVersionError{Token: token, Line: line, Reason: err.Error()}
	}
	return v, nil
}

func parseDateToken(s *Section, rest string, line int) error {
	if strings.HasSuffix(rest, yankedMarker) {
		s.Yanked = true
		rest = strings.TrimSpace(strings.TrimSuffix(rest, yankedMarker))
	}
	if rest == "" {
		return nil
	}
	if err := ValidateDate(rest); err != nil {
		return &InvalidVersionError{Token: rest, Line: line, Reason: "invalid release date (expected: YYYY-MM-DD)"}
	}
	s.Date = rest
	return nil
}

// ValidateDate checks that date is a real calendar day in YYYY-MM-DD form.
func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return &InvalidDateError{Date: date}
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return &InvalidDateError{Date: date}
	}
	return nil
}

func (p *parser) categoryHeading(n int, name string) error {
	if p.section == nil {
		return &ParseError{Line: n, Message: fmt.Sprintf("category %q appears before any section", name)}
	}
	c, ok := ParseCategory(name)
	if !ok {
		return &UnknownCategoryError{Name: name, Line: n, Section: p.section.Label}
	}
	p.flushPreamble()
	p.category = &c
	p.blankSinceHeading = false
	p.entryOpen = false
	return nil
}

func (p *parser) addEntry(text string) {
	tight := !p.blankSinceHeading
	if b := p.section.buckets[*p.category]; b != nil {
		tight = b.tight
	}
	if !p.styleKnown {
		p.doc.tight = tight
		p.styleKnown = true
	}
	p.section.Append(*p.category, text, tight)
	p.entryOpen = true
}

func (p *parser) continueEntry(line string) {
	b := p.section.buckets[*p.category]
	last := len(b.entries) - 1
	b.entries[last] += "\n" + line
}

// flushPreamble stores the text collected between a section heading and its first category.
func (p *parser) flushPreamble() {
	if p.section == nil || p.category != nil {
		return
	}
	p.section.Preamble = strings.Trim(strings.Join(p.preamble, "\n"), "\n")
	p.preamble = nil
}

func (p *parser) closeSection() {
	p.flushPreamble()
	p.section = nil
	p.category = nil
	p.preamble = nil
	p.entryOpen = false
}

// assemble places parsed sections into the document, validating uniqueness and
// normalizing order.
func (p *parser) assemble() error {
	var releases []*Section
	for i, s := range p.sections {
		if s.IsUnreleased() {
			if p.doc.Unreleased != nil {
				return &ParseError{Line: s.line, Message: fmt.Sprintf(
					"duplicate Unreleased section (first defined on line %d)", p.doc.Unreleased.line)}
			}
			if i > 0 {
				p.notice(NoticeReordered, s.line, "Unreleased section moved above released versions")
			}
			p.doc.Unreleased = s
			continue
		}
		for _, prev := range releases {
			if prev.Version.Equal(s.Version) {
				return &DuplicateVersionError{Version: s.Label, Line: s.line, FirstLine: prev.line}
			}
		}
		releases = append(releases, s)
	}

	if p.doc.Unreleased == nil {
		p.doc.Unreleased = NewUnreleased()
		p.notice(NoticeAddedUnreleased, 0, "no Unreleased section found; an empty one was added")
	}

	for i := 1; i < len(releases); i++ {
		if !releases[i-1].Version.GreaterThan(releases[i].Version) {
			p.notice(NoticeReordered, releases[i].line, fmt.Sprintf(
				"release %s (line %d) is newer than %s (line %d); releases reordered newest first",
				releases[i].Label, releases[i].line, releases[i-1].Label, releases[i-1].line))
		}
	}
	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].Version.GreaterThan(releases[j].Version)
	})
	p.doc.Releases = releases
	return nil
}

// attachLinks splits link definitions into ones owned by a section and foreign ones.
// Owned links are kept in section order so rendering is independent of source order.
func (p *parser) attachLinks() {
	owned := make(map[string]LinkDefinition)
	for _, l := range p.links {
		label, ok := p.doc.sectionLabel(l.def.Label)
		if !ok {
			p.doc.ForeignLinks = append(p.doc.ForeignLinks, l.def)
			continue
		}
		if _, dup := owned[label]; dup {
			p.notice(NoticeDuplicateLink, l.line, fmt.Sprintf("dropped second link definition for %s", label))
			continue
		}
		l.def.Label = label
		owned[label] = l.def
	}
	for _, s := range p.doc.Sections() {
		if l, ok := owned[s.Label]; ok {
			p.doc.Links = append(p.doc.Links, l)
		}
	}
}

func (p *parser) notice(kind NoticeKind, line int, msg string) {
	p.notices = append(p.notices, Notice{Kind: kind, Line: line, Message: msg})
}

// sectionLabel maps a link label onto the label of the section it refers to.
func (d *Document) sectionLabel(label string) (string, bool) {
	if strings.EqualFold(label, UnreleasedLabel) {
		return UnreleasedLabel, true
	}
	v, err := semver.StrictNewVersion(strings.TrimPrefix(label, "v"))
	if err != nil {
		return "", false
	}
	for _, s := range d.Releases {
		if s.Version.Equal(v) {
			return s.Label, true
		}
	}
	return "", false
}
