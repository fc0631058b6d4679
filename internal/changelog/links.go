package changelog

import (
	"fmt"
	"strings"
)

// BuildLinks computes the link definitions for every section from the release
// order and a repository base URL such as "https://github.com/owner/repo".
//
// Each release links to a compare view against the release before it; the
// earliest release links to its tag. Unreleased compares the latest tag with
// HEAD and gets no link when nothing has been released.
func BuildLinks(d *Document, baseURL string) []LinkDefinition {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return nil
	}

	links := make([]LinkDefinition, 0, len(d.Releases)+1)
	if len(d.Releases) > 0 {
		links = append(links, LinkDefinition{
			Label: UnreleasedLabel,
			URL:   fmt.Sprintf("%s/compare/%s...HEAD", base, TagName(d.Releases[0].Label)),
		})
	}
	for i, s := range d.Releases {
		links = append(links, LinkDefinition{Label: s.Label, URL: releaseURL(d, i, base)})
	}
	return links
}

func releaseURL(d *Document, i int, base string) string {
	tag := TagName(d.Releases[i].Label)
	if i+1 < len(d.Releases) {
		prev := TagName(d.Releases[i+1].Label)
		return fmt.Sprintf("%s/compare/%s...%s", base, prev, tag)
	}
	return fmt.Sprintf("%s/releases/tag/%s", base, tag)
}

// InferBaseURL recovers the repository base URL from existing compare or tag
// links, returning "" when no owned link has a recognizable shape.
func InferBaseURL(d *Document) string {
	for _, l := range d.Links {
		for _, marker := range []string{"/compare/", "/releases/tag/"} {
			if base, _, ok := strings.Cut(l.URL, marker); ok && base != "" {
				return base
			}
		}
	}
	return ""
}

// RegenerateLinks overwrites the document's owned link definitions.
//
// Definitions are rebuilt from the release order using baseURL, or the base
// inferred from the existing links when baseURL is empty. When neither is
// available existing definitions are kept for labels that still name a section
// and dropped otherwise.
func RegenerateLinks(d *Document, baseURL string) {
	claimForeignLinks(d)
	if strings.TrimSpace(baseURL) == "" {
		baseURL = InferBaseURL(d)
	}
	if strings.TrimSpace(baseURL) != "" {
		d.Links = BuildLinks(d, baseURL)
		return
	}

	kept := make([]LinkDefinition, 0, len(d.Links))
	for _, s := range d.Sections() {
		if l, ok := d.LinkFor(s.Label); ok {
			kept = append(kept, l)
		}
	}
	d.Links = kept
}

// StripLinks removes every owned link definition, leaving headings unbracketed.
// Foreign definitions whose label names a section are dropped with them.
func StripLinks(d *Document) {
	claimForeignLinks(d)
	d.Links = nil
}

// claimForeignLinks moves foreign definitions whose label names a section,
// typically one just created by a release, into the owned links. A section
// that already owns a link keeps it and the foreign one is dropped.
func claimForeignLinks(d *Document) {
	foreign := d.ForeignLinks[:0:0]
	for _, l := range d.ForeignLinks {
		label, ok := d.sectionLabel(l.Label)
		if !ok {
			foreign = append(foreign, l)
			continue
		}
		if _, owned := d.LinkFor(label); !owned {
			l.Label = label
			d.Links = append(d.Links, l)
		}
	}
	d.ForeignLinks = foreign
}
