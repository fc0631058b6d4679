package changelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSection_Plain(t *testing.T) {
	d := mustParse(t, threeReleases)

	tests := map[string]struct {
		section *Section
		want    string
	}{
		"release": {
			section: d.Releases[0],
			want:    "## v1.0.0 (2025-03-01)\n\n### Changed\n  - stable API\n",
		},
		"unreleased": {
			section: d.Unreleased,
			want:    "## Unreleased\n\n### Added\n  - pending work\n",
		},
		"empty": {
			section: NewUnreleased(),
			want:    "## Unreleased\n\n  (no entries)\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, FormatSection(tt.section, &buf, FormatOptions{Plain: true}))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFormatTerminal_GroupsBySection(t *testing.T) {
	d := mustParse(t, threeReleases)

	var buf bytes.Buffer
	require.NoError(t, FormatTerminal(AllEntries(d), &buf, FormatOptions{Plain: true, MaxWidth: 80}))

	out := buf.String()
	assert.Equal(t, 4, strings.Count("\n"+out, "\n## "))
	assert.Less(t, strings.Index(out, "## Unreleased"), strings.Index(out, "## v1.0.0"))
	assert.Contains(t, out, "### Fixed\n  - crash on start\n")

	buf.Reset()
	require.NoError(t, FormatTerminal(nil, &buf, FormatOptions{}))
	assert.Empty(t, buf.String())
}

func TestWrapText(t *testing.T) {
	tests := map[string]struct {
		text     string
		maxWidth int
		want     string
	}{
		"short":          {text: "fits", maxWidth: 10, want: "fits"},
		"wraps at space": {text: "alpha beta gamma", maxWidth: 11, want: "alpha beta\n  gamma"},
		"no width":       {text: "alpha beta", maxWidth: 0, want: "alpha beta"},
		"no spaces":      {text: "abcdefghij", maxWidth: 4, want: "abcd\n  efgh\n  ij"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.maxWidth, "  "))
		})
	}
}

func TestFormatEntrySummary(t *testing.T) {
	e := Entry{Text: strings.Repeat("x", 70), Category: Removed}
	got := FormatEntrySummary(e, FormatOptions{Plain: true})
	assert.Equal(t, "[removed] "+strings.Repeat("x", 57)+"...", got)

	assert.Equal(t, "[fixed] short", FormatEntrySummary(Entry{Text: "short", Category: Fixed}, FormatOptions{Plain: true}))
}
