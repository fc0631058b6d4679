package changelog

import (
	"strings"
)

// GetSection looks up a section by a user query: "unreleased", "latest", or a
// version with or without a "v" prefix.
func GetSection(d *Document, query string) (*Section, error) {
	switch strings.ToLower(strings.TrimSpace(query)) {
	case "unreleased":
		return d.Unreleased, nil
	case "latest":
		if len(d.Releases) == 0 {
			return nil, &UnknownVersionError{Version: query}
		}
		return d.Releases[0], nil
	}

	v, err := ParseVersion(query)
	if err != nil {
		return nil, err
	}
	return ResolveSection(d, v)
}

// GetLastN retrieves the N most recent entries across all sections, newest first.
// If N is greater than the total number of entries, all entries are returned.
func GetLastN(d *Document, n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}

	entries := AllEntries(d)
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// AllEntries returns all entries from all sections, newest first.
// Entries within each section follow canonical category order.
func AllEntries(d *Document) []Entry {
	var entries []Entry
	for _, s := range d.Sections() {
		entries = append(entries, s.Flatten()...)
	}
	return entries
}

// GetEntryCount returns the total number of entries across all sections.
func GetEntryCount(d *Document) int {
	count := 0
	for _, s := range d.Sections() {
		count += s.Count()
	}
	return count
}
