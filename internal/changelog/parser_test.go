package changelog

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Structure(t *testing.T) {
	tests := map[string]struct {
		text         string
		wantHeader   string
		wantReleases []string
		wantLinks    int
	}{
		"single release": {
			text:         loneRelease,
			wantHeader:   "# Changelog\nAll notable changes to this project will be documented in this file.",
			wantReleases: []string{"1.0.0"},
		},
		"bracketed headings with links": {
			text:         linkedRelease,
			wantHeader:   "# Changelog",
			wantReleases: []string{"1.0.0"},
			wantLinks:    2,
		},
		"three releases": {
			text:         threeReleases,
			wantHeader:   "# Changelog",
			wantReleases: []string{"1.0.0", "0.1.1", "0.1.0"},
			wantLinks:    4,
		},
		"empty file": {
			text:         "",
			wantHeader:   "",
			wantReleases: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := mustParse(t, tt.text)
			assert.Equal(t, tt.wantHeader, d.Header)
			require.NotNil(t, d.Unreleased)
			assert.True(t, d.Unreleased.IsUnreleased())
			assert.Equal(t, tt.wantReleases, ListVersions(d))
			assert.Len(t, d.Links, tt.wantLinks)
		})
	}
}

func TestParse_Entries(t *testing.T) {
	d := mustParse(t, threeReleases)

	assert.Equal(t, []string{"pending work"}, d.Unreleased.Entries(Added))
	assert.Equal(t, []string{"stable API"}, d.Releases[0].Entries(Changed))
	assert.Equal(t, []string{"crash on start"}, d.Releases[1].Entries(Fixed))
	assert.Equal(t, "2025-02-01", d.Releases[1].Date)
	assert.Empty(t, d.Releases[0].Entries(Added))
	assert.Equal(t, 8, d.Releases[0].Line())
}

func TestParse_ContinuationLines(t *testing.T) {
	text := `## Unreleased

### Added

- parent entry
  - nested detail
  more text
- second
`
	d := mustParse(t, text)
	assert.Equal(t, []string{
		"parent entry\n  - nested detail\n  more text",
		"second",
	}, d.Unreleased.Entries(Added))
}

func TestParse_Preamble(t *testing.T) {
	text := `## Unreleased

## 2.0.0 - 2025-05-05

Big rewrite, see the migration guide.

### Removed

- old flags
`
	d := mustParse(t, text)
	assert.Equal(t, "Big rewrite, see the migration guide.", d.Releases[0].Preamble)
	assert.Empty(t, d.Unreleased.Preamble)
}

func TestParse_YankedAndUndated(t *testing.T) {
	text := `## Unreleased

## 1.1.0 - 2025-02-02 [YANKED]

## 1.0.0
`
	d := mustParse(t, text)
	require.Len(t, d.Releases, 2)
	assert.True(t, d.Releases[0].Yanked)
	assert.Equal(t, "2025-02-02", d.Releases[0].Date)
	assert.False(t, d.Releases[1].Yanked)
	assert.Empty(t, d.Releases[1].Date)
}

func TestParse_Notices(t *testing.T) {
	tests := map[string]struct {
		text      string
		wantKinds []NoticeKind
		wantOrder []string
	}{
		"out of order releases": {
			text:      "## Unreleased\n\n## 0.1.0 - 2025-01-01\n\n## 0.2.0 - 2025-02-01\n",
			wantKinds: []NoticeKind{NoticeReordered},
			wantOrder: []string{"0.2.0", "0.1.0"},
		},
		"missing unreleased": {
			text:      "# Changelog\n\n## 1.0.0 - 2025-01-01\n",
			wantKinds: []NoticeKind{NoticeAddedUnreleased},
			wantOrder: []string{"1.0.0"},
		},
		"unreleased below a release": {
			text:      "## 1.0.0 - 2025-01-01\n\n## Unreleased\n",
			wantKinds: []NoticeKind{NoticeReordered},
			wantOrder: []string{"1.0.0"},
		},
		"v prefixed version": {
			text:      "## Unreleased\n\n## [v1.2.0] - 2025-01-01\n\n[v1.2.0]: https://example.com/r/releases/tag/v1.2.0\n",
			wantKinds: []NoticeKind{NoticeNormalizedVersion},
			wantOrder: []string{"1.2.0"},
		},
		"duplicate link": {
			text:      "## Unreleased\n\n[Unreleased]: https://a\n[unreleased]: https://b\n",
			wantKinds: []NoticeKind{NoticeDuplicateLink},
			wantOrder: []string{},
		},
		"clean document": {
			text:      threeReleases,
			wantKinds: nil,
			wantOrder: []string{"1.0.0", "0.1.1", "0.1.0"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := Parse(tt.text)
			require.NoError(t, err)

			var kinds []NoticeKind
			for _, n := range res.Notices {
				kinds = append(kinds, n.Kind)
			}
			assert.Equal(t, tt.wantKinds, kinds)
			assert.Equal(t, tt.wantOrder, ListVersions(res.Document))
		})
	}
}

func TestParse_NormalizedLinkIsOwned(t *testing.T) {
	d := mustParse(t, "## Unreleased\n\n## [v1.2.0] - 2025-01-01\n\n[v1.2.0]: https://example.com/r/releases/tag/v1.2.0\n")
	l, ok := d.LinkFor("1.2.0")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/r/releases/tag/v1.2.0", l.URL)
	assert.Empty(t, d.ForeignLinks)
}

func TestParse_ForeignLinks(t *testing.T) {
	text := "## Unreleased\n\n### Added\n\n- see [docs]\n\n[docs]: https://example.com/docs\n"
	d := mustParse(t, text)
	assert.Empty(t, d.Links)
	assert.Equal(t, []LinkDefinition{{Label: "docs", URL: "https://example.com/docs"}}, d.ForeignLinks)
}

func TestParse_LinkTitles(t *testing.T) {
	tests := map[string]struct {
		line      string
		wantTitle string
		wantLine  string
	}{
		"double quotes": {
			line:      `[1.0.0]: https://x/r/releases/tag/v1.0.0 "First release"`,
			wantTitle: "First release",
			wantLine:  `[1.0.0]: https://x/r/releases/tag/v1.0.0 "First release"`,
		},
		"single quotes": {
			line:      `[1.0.0]: https://x/r/releases/tag/v1.0.0 'First release'`,
			wantTitle: "First release",
			wantLine:  `[1.0.0]: https://x/r/releases/tag/v1.0.0 "First release"`,
		},
		"parentheses": {
			line:      `[1.0.0]: https://x/r/releases/tag/v1.0.0 (First release)`,
			wantTitle: "First release",
			wantLine:  `[1.0.0]: https://x/r/releases/tag/v1.0.0 "First release"`,
		},
		"title with a double quote": {
			line:      `[1.0.0]: https://x/r/releases/tag/v1.0.0 'The "first" one'`,
			wantTitle: `The "first" one`,
			wantLine:  `[1.0.0]: https://x/r/releases/tag/v1.0.0 (The "first" one)`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			text := "## [Unreleased]\n\n## [1.0.0] - 2025-01-01\n\n### Added\n- first\n\n" + tt.line + "\n"
			d := mustParse(t, text)

			l, ok := d.LinkFor("1.0.0")
			require.True(t, ok)
			assert.Equal(t, "https://x/r/releases/tag/v1.0.0", l.URL)
			assert.Equal(t, tt.wantTitle, l.Title)

			out := Render(d)
			assert.Contains(t, out, tt.wantLine+"\n")
			assert.Equal(t, out, Render(mustParse(t, out)))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]struct {
		text     string
		wantLine int
		check    func(t *testing.T, err error)
	}{
		"duplicate version": {
			text:     "## Unreleased\n\n## 1.0.0 - 2025-01-01\n\n## 1.0.0 - 2025-01-02\n",
			wantLine: 5,
			check: func(t *testing.T, err error) {
				var target *DuplicateVersionError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, 3, target.FirstLine)
			},
		},
		"invalid version": {
			text:     "## Unreleased\n\n## 1.0 - 2025-01-01\n",
			wantLine: 3,
			check: func(t *testing.T, err error) {
				var target *InvalidVersionError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "1.0", target.Token)
			},
		},
		"invalid date": {
			text:     "## Unreleased\n\n## 1.0.0 - 2025-13-45\n",
			wantLine: 3,
			check: func(t *testing.T, err error) {
				var target *InvalidVersionError
				require.True(t, errors.As(err, &target))
			},
		},
		"unknown category": {
			text:     "## Unreleased\n\n### Improvements\n\n- faster\n",
			wantLine: 3,
			check: func(t *testing.T, err error) {
				var target *UnknownCategoryError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "Improvements", target.Name)
				assert.Equal(t, UnreleasedLabel, target.Section)
			},
		},
		"lowercase category": {
			text:     "## Unreleased\n\n### added\n- x\n",
			wantLine: 3,
			check: func(t *testing.T, err error) {
				var target *UnknownCategoryError
				require.True(t, errors.As(err, &target))
			},
		},
		"stray paragraph under category": {
			text:     "## Unreleased\n\n### Added\n\n- one\n\nnot a bullet\n",
			wantLine: 7,
			check: func(t *testing.T, err error) {
				var target *ParseError
				require.True(t, errors.As(err, &target))
			},
		},
		"dated unreleased": {
			text:     "## Unreleased - 2025-01-01\n",
			wantLine: 1,
			check: func(t *testing.T, err error) {
				var target *ParseError
				require.True(t, errors.As(err, &target))
			},
		},
		"duplicate unreleased": {
			text:     "## Unreleased\n\n## Unreleased\n",
			wantLine: 3,
			check: func(t *testing.T, err error) {
				var target *ParseError
				require.True(t, errors.As(err, &target))
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.Equal(t, KindStructural, KindOf(err))
			assert.Contains(t, err.Error(), fmt.Sprintf("line %d:", tt.wantLine))
			tt.check(t, err)
		})
	}
}

func TestParse_CRLF(t *testing.T) {
	d := mustParse(t, strings.ReplaceAll(loneRelease, "\n", "\r\n"))
	assert.Equal(t, loneRelease, Render(d))
}

func TestValidateDate(t *testing.T) {
	tests := map[string]struct {
		date    string
		wantErr bool
	}{
		"valid":          {date: "2025-01-31"},
		"leap day":       {date: "2024-02-29"},
		"not leap year":  {date: "2025-02-29", wantErr: true},
		"wrong format":   {date: "01/31/2025", wantErr: true},
		"missing digits": {date: "2025-1-31", wantErr: true},
		"empty":          {date: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateDate(tt.date)
			if tt.wantErr {
				var target *InvalidDateError
				assert.True(t, errors.As(err, &target))
				return
			}
			assert.NoError(t, err)
		})
	}
}
