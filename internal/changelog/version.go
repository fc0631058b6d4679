package changelog

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// BumpKind selects which semver component a release increments.
type BumpKind int

const (
	BumpMajor BumpKind = iota
	BumpMinor
	BumpPatch
)

func (k BumpKind) String() string {
	switch k {
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	case BumpPatch:
		return "patch"
	}
	return "unknown"
}

// ParseBumpKind accepts "major", "minor" or "patch" in any case.
func ParseBumpKind(s string) (BumpKind, bool) {
	switch strings.ToLower(s) {
	case "major":
		return BumpMajor, true
	case "minor":
		return BumpMinor, true
	case "patch":
		return BumpPatch, true
	}
	return 0, false
}

// Latest returns the highest released version, or nil if nothing has been released.
func Latest(d *Document) *semver.Version {
	if len(d.Releases) == 0 {
		return nil
	}
	return d.Releases[0].Version
}

// Versions returns every released version, newest first.
func Versions(d *Document) []*semver.Version {
	out := make([]*semver.Version, len(d.Releases))
	for i, s := range d.Releases {
		out[i] = s.Version
	}
	return out
}

// ListVersions returns the release labels, newest first.
func ListVersions(d *Document) []string {
	out := make([]string, len(d.Releases))
	for i, s := range d.Releases {
		out[i] = s.Label
	}
	return out
}

// FindRelease returns the section for v, or nil.
func FindRelease(d *Document, v *semver.Version) *Section {
	for _, s := range d.Releases {
		if s.Version.Equal(v) {
			return s
		}
	}
	return nil
}

// Range returns the release immediately preceding v. A nil result with a nil
// error means v is the first release.
func Range(d *Document, v *semver.Version) (*semver.Version, error) {
	for i, s := range d.Releases {
		if !s.Version.Equal(v) {
			continue
		}
		if i+1 < len(d.Releases) {
			return d.Releases[i+1].Version, nil
		}
		return nil, nil
	}
	return nil, &UnknownVersionError{Version: v.Original(), AvailableVersions: ListVersions(d)}
}

// Bump increments current by kind, resetting lower components and dropping
// any pre-release or build metadata.
func Bump(current *semver.Version, kind BumpKind) (*semver.Version, error) {
	if current == nil {
		return nil, &NoPriorVersionError{Bump: kind}
	}
	switch kind {
	case BumpMajor:
		return semver.New(current.Major()+1, 0, 0, "", ""), nil
	case BumpMinor:
		return semver.New(current.Major(), current.Minor()+1, 0, "", ""), nil
	case BumpPatch:
		return semver.New(current.Major(), current.Minor(), current.Patch()+1, "", ""), nil
	}
	return nil, fmt.Errorf("unknown bump kind %d", kind)
}

// Target is the version a release should get: either explicit or a bump of the latest.
type Target struct {
	version *semver.Version
	bump    BumpKind
}

// ExplicitVersion targets a specific version.
func ExplicitVersion(v *semver.Version) Target {
	return Target{version: v}
}

// BumpTarget targets the latest release incremented by kind.
func BumpTarget(kind BumpKind) Target {
	return Target{bump: kind}
}

func (t Target) String() string {
	if t.version != nil {
		return t.version.String()
	}
	return t.bump.String()
}

// ParseVersion parses a user-supplied version, accepting an optional "v" prefix.
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V"))
	if err != nil {
		return nil, &InvalidVersionError{Token: s, Reason: err.Error()}
	}
	return v, nil
}

// ParseTarget parses "major", "minor", "patch" or an explicit semantic version.
func ParseTarget(s string) (Target, error) {
	if kind, ok := ParseBumpKind(s); ok {
		return BumpTarget(kind), nil
	}
	v, err := ParseVersion(s)
	if err != nil {
		return Target{}, fmt.Errorf("version must be a valid semver or one of: major, minor, patch: %w", err)
	}
	return ExplicitVersion(v), nil
}

// ResolveTarget turns a target into a concrete version that is strictly greater
// than the latest release.
func ResolveTarget(d *Document, t Target) (*semver.Version, error) {
	latest := Latest(d)
	next := t.version
	if next == nil {
		var err error
		if next, err = Bump(latest, t.bump); err != nil {
			return nil, err
		}
	}
	if latest != nil && !next.GreaterThan(latest) {
		return nil, &VersionNotIncreasingError{Version: next.String(), Latest: latest.Original()}
	}
	return next, nil
}

// TagName returns the tag name for a version label ("1.2.3" -> "v1.2.3").
func TagName(label string) string {
	return "v" + label
}

// RevisionRange is a git revision range covering one release.
type RevisionRange struct {
	From string
	To   string
}

// String formats the range as "from..to", or just "to" for the first release.
func (r RevisionRange) String() string {
	if r.From == "" {
		return r.To
	}
	return r.From + ".." + r.To
}

// GitRange returns the revision range of the commits that went into v. With a nil
// v it returns the range of unreleased commits: from the latest tag to HEAD.
func GitRange(d *Document, v *semver.Version) (RevisionRange, error) {
	if v == nil {
		if latest := Latest(d); latest != nil {
			return RevisionRange{From: TagName(d.Releases[0].Label), To: "HEAD"}, nil
		}
		return RevisionRange{To: "HEAD"}, nil
	}
	s := FindRelease(d, v)
	if s == nil {
		return RevisionRange{}, &UnknownVersionError{Version: v.Original(), AvailableVersions: ListVersions(d)}
	}
	prev, err := Range(d, v)
	if err != nil {
		return RevisionRange{}, err
	}
	r := RevisionRange{To: TagName(s.Label)}
	if prev != nil {
		r.From = TagName(FindRelease(d, prev).Label)
	}
	return r, nil
}
