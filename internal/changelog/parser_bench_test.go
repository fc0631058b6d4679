package changelog

import (
	"fmt"
	"strings"
	"testing"
)

// generateLargeChangelog creates changelog markdown with the specified number
// of entries distributed across releases of ten entries each.
func generateLargeChangelog(entryCount int) string {
	var b strings.Builder
	b.WriteString(DefaultHeader + "\n\n## Unreleased\n")

	const entriesPerVersion = 10
	versionCount := (entryCount + entriesPerVersion - 1) / entriesPerVersion
	remaining := entryCount

	for v := versionCount; v >= 1 && remaining > 0; v-- {
		fmt.Fprintf(&b, "\n## %d.0.0 - 2024-%02d-%02d\n", v, (v%12)+1, (v%28)+1)
		n := min(entriesPerVersion, remaining)
		writeVersionEntries(&b, n)
		remaining -= n
	}

	return b.String()
}

// writeVersionEntries distributes entries across categories.
func writeVersionEntries(b *strings.Builder, count int) {
	categories := Categories()
	perCategory := count / len(categories)
	remainder := count % len(categories)

	for i, c := range categories {
		n := perCategory
		if i < remainder {
			n++
		}
		if n == 0 {
			continue
		}
		fmt.Fprintf(b, "\n### %s\n\n", c)
		for j := 0; j < n; j++ {
			fmt.Fprintf(b, "- Entry %d for %s category with some description text\n", j+1, c.Key())
		}
	}
}

func BenchmarkParse_1000Entries(b *testing.B) {
	benchmarkParse(b, 1000)
}

func BenchmarkParse_100Entries(b *testing.B) {
	benchmarkParse(b, 100)
}

func BenchmarkParse_10Entries(b *testing.B) {
	benchmarkParse(b, 10)
}

func benchmarkParse(b *testing.B, entries int) {
	text := generateLargeChangelog(entries)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(text); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkRender_1000Entries(b *testing.B) {
	res, err := Parse(generateLargeChangelog(1000))
	if err != nil {
		b.Fatalf("failed to parse changelog: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Render(res.Document)
	}
}

func TestGeneratedChangelogRoundTrips(t *testing.T) {
	text := generateLargeChangelog(250)
	res, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := Render(res.Document); got != text {
		t.Errorf("render differs from generated input")
	}
	if n := GetEntryCount(res.Document); n != 250 {
		t.Errorf("GetEntryCount() = %d, want 250", n)
	}
}
