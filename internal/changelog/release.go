package changelog

import (
	"github.com/jonboulle/clockwork"
)

// EmptyPolicy decides what happens when a release has nothing under Unreleased.
type EmptyPolicy string

const (
	// EmptyReject refuses empty releases unless forced.
	EmptyReject EmptyPolicy = "reject"
	// EmptyAllow creates an empty release section.
	EmptyAllow EmptyPolicy = "allow"
)

// ReleaseOptions configures Release.
type ReleaseOptions struct {
	Target Target
	// Date is the YYYY-MM-DD release date; empty means today according to Clock.
	Date string
	// Clock supplies "today"; nil uses the real clock.
	Clock       clockwork.Clock
	EmptyPolicy EmptyPolicy
	// Force releases even when Unreleased is empty, regardless of EmptyPolicy.
	Force bool
	// RepoURL is the repository base URL used to regenerate link definitions.
	RepoURL string
}

// Release moves everything under Unreleased into a new, dated release section.
//
// The target is resolved against the latest release and must be strictly greater.
// All checks run before the document is touched, so on error it is unchanged.
// On success Unreleased is empty and the link definitions are regenerated.
func Release(d *Document, opts ReleaseOptions) (*Section, error) {
	v, err := ResolveTarget(d, opts.Target)
	if err != nil {
		return nil, err
	}

	date := opts.Date
	if date == "" {
		clock := opts.Clock
		if clock == nil {
			clock = clockwork.NewRealClock()
		}
		date = clock.Now().Format("2006-01-02")
	}
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	if d.Unreleased.IsEmpty() && !opts.Force && opts.EmptyPolicy != EmptyAllow {
		return nil, &EmptyReleaseError{Version: v.String()}
	}

	s := NewRelease(v, date)
	s.buckets = d.Unreleased.takeAll()
	s.Preamble = d.Unreleased.Preamble
	d.Unreleased.Preamble = ""

	d.Releases = insertRelease(d.Releases, s)
	RegenerateLinks(d, opts.RepoURL)
	return s, nil
}

// insertRelease keeps releases ordered newest first.
func insertRelease(releases []*Section, s *Section) []*Section {
	i := 0
	for i < len(releases) && releases[i].Version.GreaterThan(s.Version) {
		i++
	}
	releases = append(releases, nil)
	copy(releases[i+1:], releases[i:])
	releases[i] = s
	return releases
}
