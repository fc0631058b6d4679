package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp is the kind of change a DiffLine records.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a line-oriented diff.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// DiffText computes a line diff between two renderings.
func DiffText(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

// HasChanges returns true if any line was inserted or deleted.
func HasChanges(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != DiffEqual {
			return true
		}
	}
	return false
}

// WriteDiff prints a diff with "+"/"-" markers, green and red unless opts.Plain.
func WriteDiff(w io.Writer, lines []DiffLine, opts FormatOptions) error {
	add := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed).SprintFunc()

	for _, l := range lines {
		var s string
		switch l.Op {
		case DiffInsert:
			s = "+ " + l.Text
			if !opts.Plain {
				s = add(s)
			}
		case DiffDelete:
			s = "- " + l.Text
			if !opts.Plain {
				s = del(s)
			}
		default:
			s = "  " + l.Text
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
