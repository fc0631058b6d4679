package changelog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSection(t *testing.T) {
	d := mustParse(t, threeReleases)

	tests := map[string]struct {
		query     string
		wantLabel string
		wantErr   bool
	}{
		"unreleased":      {query: "unreleased", wantLabel: "Unreleased"},
		"unreleased caps": {query: "Unreleased", wantLabel: "Unreleased"},
		"latest":          {query: "latest", wantLabel: "1.0.0"},
		"exact version":   {query: "0.1.1", wantLabel: "0.1.1"},
		"v prefix":        {query: "v0.1.0", wantLabel: "0.1.0"},
		"unknown version": {query: "2.0.0", wantErr: true},
		"not a version":   {query: "newest", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := GetSection(d, tt.query)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindVersioning, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, s.Label)
		})
	}

	_, err := GetSection(New(), "latest")
	assert.Error(t, err)
}

func TestAllEntries(t *testing.T) {
	d := mustParse(t, threeReleases)

	want := []Entry{
		{Text: "pending work", Category: Added, Version: "Unreleased"},
		{Text: "stable API", Category: Changed, Version: "1.0.0"},
		{Text: "crash on start", Category: Fixed, Version: "0.1.1"},
		{Text: "first cut", Category: Added, Version: "0.1.0"},
	}
	if diff := cmp.Diff(want, AllEntries(d)); diff != "" {
		t.Errorf("AllEntries() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, GetEntryCount(d))
}

func TestGetLastN(t *testing.T) {
	d := mustParse(t, threeReleases)

	tests := map[string]struct {
		n    int
		want int
	}{
		"zero":           {n: 0, want: 0},
		"negative":       {n: -1, want: 0},
		"fewer than all": {n: 2, want: 2},
		"more than all":  {n: 10, want: 4},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := GetLastN(d, tt.n)
			assert.Len(t, got, tt.want)
			if tt.want > 0 {
				assert.Equal(t, "pending work", got[0].Text)
			}
		})
	}
}

func TestSectionFlatten(t *testing.T) {
	s := NewUnreleased()
	s.Append(Security, "cve", true)
	s.Append(Added, "a", true)
	s.Append(Added, "b", true)

	want := []Entry{
		{Text: "a", Category: Added, Version: "Unreleased"},
		{Text: "b", Category: Added, Version: "Unreleased"},
		{Text: "cve", Category: Security, Version: "Unreleased"},
	}
	if diff := cmp.Diff(want, s.Flatten()); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentClone(t *testing.T) {
	d := mustParse(t, threeReleases)
	cp := d.Clone()

	require.NoError(t, AddEntry(cp, "only in clone", Added, nil))
	cp.Links[0].URL = "changed"

	assert.Equal(t, threeReleases, Render(d))
	assert.NotEqual(t, Render(d), Render(cp))
}
