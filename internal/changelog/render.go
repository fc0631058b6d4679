package changelog

import (
	"fmt"
	"io"
	"strings"
)

// DefaultHeader is written when a document has no header of its own.
const DefaultHeader = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).`

// RenderMarkdown writes the document as Keep a Changelog markdown.
//
// The output is canonical: rendering a parsed rendering yields the same bytes.
// Unreleased is always written first, releases follow newest first, categories
// appear in canonical order with empty ones omitted, and link definitions come last.
func RenderMarkdown(d *Document, w io.Writer) error {
	if err := renderHeader(d, w); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	for i, s := range d.Sections() {
		if err := renderSection(d, s, w, i == 0); err != nil {
			return fmt.Errorf("rendering section %s: %w", s.Label, err)
		}
	}

	if err := renderFooterLinks(d, w); err != nil {
		return fmt.Errorf("rendering footer links: %w", err)
	}

	return nil
}

// Render is a convenience function that renders to a string.
func Render(d *Document) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = RenderMarkdown(d, &b)
	return b.String()
}

// RenderSection renders a single section as it appears in the full document,
// without the leading separator. It is used to show what an edit changed.
func RenderSection(d *Document, s *Section) string {
	var b strings.Builder
	_ = renderSection(d, s, &b, true)
	return b.String()
}

func renderHeader(d *Document, w io.Writer) error {
	header := strings.TrimRight(d.Header, " \t\n")
	if strings.TrimSpace(header) == "" {
		header = DefaultHeader
	}
	_, err := io.WriteString(w, header+"\n\n")
	return err
}

func renderSection(d *Document, s *Section, w io.Writer, isFirst bool) error {
	var b strings.Builder
	if !isFirst {
		b.WriteString("\n")
	}
	b.WriteString(formatSectionHeading(d, s) + "\n")

	if s.Preamble != "" {
		b.WriteString("\n" + s.Preamble + "\n")
	}

	for _, c := range Categories() {
		bk := s.buckets[c]
		if bk == nil || len(bk.entries) == 0 {
			continue
		}
		b.WriteString("\n### " + c.String() + "\n")
		if !bk.tight {
			b.WriteString("\n")
		}
		for _, entry := range bk.entries {
			b.WriteString("- " + entry + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatSectionHeading formats the "## " line. The label is bracketed only when
// a link definition exists for it, so the brackets always resolve to a link.
func formatSectionHeading(d *Document, s *Section) string {
	label := s.Label
	if _, ok := d.LinkFor(s.Label); ok {
		label = "[" + label + "]"
	}
	heading := "## " + label
	switch {
	case s.Date != "" && s.Yanked:
		heading += " - " + s.Date + " " + yankedMarker
	case s.Date != "":
		heading += " - " + s.Date
	case s.Yanked:
		heading += " - " + yankedMarker
	}
	return heading
}

func renderFooterLinks(d *Document, w io.Writer) error {
	if len(d.Links) == 0 && len(d.ForeignLinks) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range d.Links {
		b.WriteString(formatLink(l))
	}
	for _, l := range d.ForeignLinks {
		b.WriteString(formatLink(l))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatLink(l LinkDefinition) string {
	if l.Title == "" {
		return fmt.Sprintf("[%s]: %s\n", l.Label, l.URL)
	}
	return fmt.Sprintf("[%s]: %s %s\n", l.Label, l.URL, quoteTitle(l.Title))
}

// quoteTitle wraps a link title in the first delimiter pair it does not contain.
func quoteTitle(title string) string {
	switch {
	case !strings.Contains(title, `"`):
		return `"` + title + `"`
	case !strings.ContainsAny(title, "()"):
		return "(" + title + ")"
	}
	return "'" + title + "'"
}
