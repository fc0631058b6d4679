package changelog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind groups changelog errors by what the caller has to fix.
type ErrorKind int

const (
	// KindUnknown is any error that did not originate in this package.
	KindUnknown ErrorKind = iota
	// KindStructural means the changelog text itself is malformed.
	KindStructural
	// KindVersioning means a requested operation is invalid for the current versions.
	KindVersioning
	// KindPolicy means the operation would produce a degenerate result.
	KindPolicy
	// KindInteraction means an interactive step returned unusable input.
	KindInteraction
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindVersioning:
		return "versioning"
	case KindPolicy:
		return "policy"
	case KindInteraction:
		return "interaction"
	default:
		return "unknown"
	}
}

// KindOf classifies err by the first error in its chain that reports a kind.
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// ParseError reports text that cannot be placed in the document structure.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *ParseError) Kind() ErrorKind { return KindStructural }

// DuplicateVersionError is returned when two sections carry the same version.
type DuplicateVersionError struct {
	Version   string
	Line      int
	FirstLine int
}

func (e *DuplicateVersionError) Error() string {
	return fmt.Sprintf("line %d: duplicate version %s (first defined on line %d)", e.Line, e.Version, e.FirstLine)
}

func (e *DuplicateVersionError) Kind() ErrorKind { return KindStructural }

// InvalidVersionError is returned for a section heading whose version or date
// token cannot be parsed.
type InvalidVersionError struct {
	Token  string
	Line   int
	Reason string
}

func (e *InvalidVersionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid version %q: %s", e.Line, e.Token, e.Reason)
	}
	return fmt.Sprintf("invalid version %q: %s", e.Token, e.Reason)
}

func (e *InvalidVersionError) Kind() ErrorKind {
	if e.Line > 0 {
		return KindStructural
	}
	return KindVersioning
}

// UnknownCategoryError is returned for a subheading that is not one of the six categories.
type UnknownCategoryError struct {
	Name    string
	Line    int
	Section string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("line %d: unknown category %q in section %s (expected one of: %s)",
		e.Line, e.Name, e.Section, strings.Join(categoryNames[:], ", "))
}

func (e *UnknownCategoryError) Kind() ErrorKind { return KindStructural }

// VersionNotIncreasingError is returned when a new version does not exceed the latest release.
type VersionNotIncreasingError struct {
	Version string
	Latest  string
}

func (e *VersionNotIncreasingError) Error() string {
	return fmt.Sprintf("version %s must be greater than the latest release %s", e.Version, e.Latest)
}

func (e *VersionNotIncreasingError) Kind() ErrorKind { return KindVersioning }

// NoPriorVersionError is returned when a bump is requested but nothing has been released.
type NoPriorVersionError struct {
	Bump BumpKind
}

func (e *NoPriorVersionError) Error() string {
	return fmt.Sprintf("cannot apply %s bump: no previous release found (release an explicit version first)", e.Bump)
}

func (e *NoPriorVersionError) Kind() ErrorKind { return KindVersioning }

// UnknownVersionError is returned when a requested version doesn't exist.
type UnknownVersionError struct {
	Version           string
	AvailableVersions []string
}

func (e *UnknownVersionError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("version %q not found (no releases yet)", e.Version)
	}
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

func (e *UnknownVersionError) Kind() ErrorKind { return KindVersioning }

// InvalidDateError is returned for a release date that is not YYYY-MM-DD.
type InvalidDateError struct {
	Date string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q (expected: YYYY-MM-DD)", e.Date)
}

func (e *InvalidDateError) Kind() ErrorKind { return KindVersioning }

// InvalidEntryError is returned for entry text that cannot become a single bullet.
type InvalidEntryError struct {
	Text   string
	Reason string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid entry %q: %s", e.Text, e.Reason)
}

func (e *InvalidEntryError) Kind() ErrorKind { return KindVersioning }

// EmptyReleaseError is returned when releasing with nothing under Unreleased.
type EmptyReleaseError struct {
	Version string
}

func (e *EmptyReleaseError) Error() string {
	return fmt.Sprintf("nothing to release for %s: the Unreleased section has no entries", e.Version)
}

func (e *EmptyReleaseError) Kind() ErrorKind { return KindPolicy }
