package review

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/huh"
)

// HuhSelector picks commits with an interactive multi-select list.
// Space toggles a commit, ctrl+a selects all, enter confirms and esc or ctrl+c aborts.
type HuhSelector struct {
	Title string
	// Height limits the visible rows; 0 lets the form decide.
	Height int
	// Accessible switches to plain prompts for screen readers.
	Accessible bool
}

// Select implements Selector.
func (h HuhSelector) Select(ctx context.Context, commits []Commit, selected []bool) ([]int, error) {
	title := h.Title
	if title == "" {
		title = "Select commits to include in the changelog"
	}

	options := make([]huh.Option[int], len(commits))
	var chosen []int
	for i, c := range commits {
		preselected := i < len(selected) && selected[i]
		options[i] = huh.NewOption(c.ShortID()+" "+c.Summary, i).Selected(preselected)
		if preselected {
			chosen = append(chosen, i)
		}
	}

	field := huh.NewMultiSelect[int]().
		Title(title).
		Description("space: toggle · ctrl+a: select all · enter: confirm").
		Options(options...).
		Filterable(true).
		Value(&chosen)
	if h.Height > 0 {
		field.Height(h.Height)
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huh.ThemeCharm()).
		WithAccessible(h.Accessible)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrAborted
		}
		return nil, fmt.Errorf("running commit selector: %w", err)
	}

	sort.Ints(chosen)
	return chosen, nil
}
