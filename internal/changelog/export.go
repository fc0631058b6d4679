package changelog

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// MarshalText encodes the category as its lowercase key.
func (c Category) MarshalText() ([]byte, error) {
	if c < Added || c > Security {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(c.Key()), nil
}

// UnmarshalText accepts any form LookupCategory understands.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := LookupCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = parsed
	return nil
}

// SectionExport is the machine-readable form of a section.
type SectionExport struct {
	Version string           `yaml:"version" json:"version"`
	Date    string           `yaml:"date,omitempty" json:"date,omitempty"`
	Yanked  bool             `yaml:"yanked,omitempty" json:"yanked,omitempty"`
	Changes []CategoryExport `yaml:"changes" json:"changes"`
}

// CategoryExport holds the entries of one category, in insertion order.
type CategoryExport struct {
	Category Category `yaml:"category" json:"category"`
	Entries  []string `yaml:"entries" json:"entries"`
}

// ExportSection converts a section into its export form with categories in canonical order.
func ExportSection(s *Section) SectionExport {
	out := SectionExport{Version: s.Label, Date: s.Date, Yanked: s.Yanked, Changes: []CategoryExport{}}
	for _, c := range Categories() {
		if entries := s.Entries(c); len(entries) > 0 {
			out.Changes = append(out.Changes, CategoryExport{Category: c, Entries: entries})
		}
	}
	return out
}

// WriteYAML encodes v as YAML with two-space indentation.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
