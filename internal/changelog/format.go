package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps categories to their terminal styling.
var categoryStyles = map[Category]CategoryStyle{
	Added:      {Color: color.New(color.FgGreen), Icon: "✓"},
	Changed:    {Color: color.New(color.FgBlue), Icon: "~"},
	Deprecated: {Color: color.New(color.FgRed), Icon: "⚠"},
	Removed:    {Color: color.New(color.FgRed), Icon: "✗"},
	Fixed:      {Color: color.New(color.FgYellow), Icon: "⚡"},
	Security:   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes entries to the writer with terminal styling, grouped
// by section with color-coded category headers.
func FormatTerminal(entries []Entry, w io.Writer, opts FormatOptions) error {
	if len(entries) == 0 {
		return nil
	}

	width := resolveWidth(opts.MaxWidth)

	for i, group := range groupEntriesBySection(entries) {
		if err := formatSectionGroup(group, w, opts, width, i > 0); err != nil {
			return fmt.Errorf("formatting section %s: %w", group.label, err)
		}
	}

	return nil
}

// FormatSection writes a single section's entries to the writer.
func FormatSection(s *Section, w io.Writer, opts FormatOptions) error {
	if err := writeSectionHeader(s.Label, s.Date, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if s.IsEmpty() {
		_, err := fmt.Fprintln(w, "\n  (no entries)")
		return err
	}
	return formatEntries(s.Flatten(), w, opts, resolveWidth(opts.MaxWidth))
}

// sectionGroup holds consecutive entries for a single section.
type sectionGroup struct {
	label   string
	entries []Entry
}

// groupEntriesBySection groups entries by their section label, preserving order.
func groupEntriesBySection(entries []Entry) []sectionGroup {
	var groups []sectionGroup
	for _, e := range entries {
		if n := len(groups); n == 0 || groups[n-1].label != e.Version {
			groups = append(groups, sectionGroup{label: e.Version})
		}
		groups[len(groups)-1].entries = append(groups[len(groups)-1].entries, e)
	}
	return groups
}

func formatSectionGroup(group sectionGroup, w io.Writer, opts FormatOptions, width int, addSeparator bool) error {
	if addSeparator {
		fmt.Fprintln(w)
	}
	if err := writeSectionHeader(group.label, "", w, opts); err != nil {
		return err
	}
	return formatEntries(group.entries, w, opts, width)
}

// formatEntries writes entries grouped under their category headers in canonical order.
func formatEntries(entries []Entry, w io.Writer, opts FormatOptions, width int) error {
	grouped := make(map[Category][]Entry)
	for _, e := range entries {
		grouped[e.Category] = append(grouped[e.Category], e)
	}
	for _, c := range Categories() {
		if len(grouped[c]) == 0 {
			continue
		}
		if err := writeCategorySection(c, grouped[c], w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

func writeSectionHeader(label, date string, w io.Writer, opts FormatOptions) error {
	header := label
	if label != UnreleasedLabel {
		header = TagName(label)
		if date != "" {
			header = fmt.Sprintf("%s (%s)", header, date)
		}
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

func writeCategorySection(c Category, entries []Entry, w io.Writer, opts FormatOptions, width int) error {
	style := categoryStyles[c]

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "\n### %s\n", c); err != nil {
			return err
		}
	} else {
		colored := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(c.String())); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if err := writeEntry(entry, style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeEntry writes a single entry, wrapping long lines when styled.
func writeEntry(entry Entry, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	const prefix = "  - "
	text := strings.Join(strings.Fields(entry.Text), " ")

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := wrapText(text, width-len(prefix), "    ")
	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatEntrySummary returns a brief one-line summary of an entry.
func FormatEntrySummary(entry Entry, opts FormatOptions) string {
	text := truncateText(entry.Text, 60)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", entry.Category.Key(), text)
	}

	style := categoryStyles[entry.Category]
	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s", colored(style.Icon), text)
}

// truncateText truncates text to maxLen runes, adding an ellipsis if needed.
func truncateText(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen-3]) + "..."
}
