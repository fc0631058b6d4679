package changelog

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// AddEntry appends text as a new bullet under category in the target section.
// A nil target means Unreleased. Entries never create release sections: a
// version that is not in the document is an UnknownVersionError. Identical text
// added twice produces two bullets.
func AddEntry(d *Document, text string, category Category, target *semver.Version) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &InvalidEntryError{Text: text, Reason: "entry text is empty"}
	}
	if strings.ContainsAny(text, "\r\n") {
		return &InvalidEntryError{Text: text, Reason: "entry text must be a single line"}
	}
	if category < Added || category > Security {
		return &InvalidEntryError{Text: text, Reason: "unknown category"}
	}

	s, err := ResolveSection(d, target)
	if err != nil {
		return err
	}
	s.Append(category, text, d.tight)
	return nil
}

// ResolveSection returns Unreleased for a nil version, otherwise the matching release.
func ResolveSection(d *Document, v *semver.Version) (*Section, error) {
	if v == nil {
		return d.Unreleased, nil
	}
	if s := FindRelease(d, v); s != nil {
		return s, nil
	}
	return nil, &UnknownVersionError{Version: v.Original(), AvailableVersions: ListVersions(d)}
}
