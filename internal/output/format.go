// Package output provides terminal output formatting utilities for the changelog CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// Printer writes colored status lines.
type Printer struct {
	Out     io.Writer
	Symbols ProgressSymbols
}

// NewPrinter returns a Printer for out using symbols chosen for caps.
func NewPrinter(out io.Writer, caps TerminalCapabilities) *Printer {
	return &Printer{Out: out, Symbols: SelectSymbols(caps)}
}

// Success prints a green checkmark followed by message.
func (p *Printer) Success(format string, args ...any) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(p.Out, "%s %s\n", green(p.Symbols.Checkmark), fmt.Sprintf(format, args...))
}

// Warn prints a yellow warning marker followed by message.
func (p *Printer) Warn(format string, args ...any) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Fprintf(p.Out, "%s %s\n", yellow(p.Symbols.Warning), fmt.Sprintf(format, args...))
}

// Info prints a dim line.
func (p *Printer) Info(format string, args ...any) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintln(p.Out, dim(fmt.Sprintf(format, args...)))
}

// Rule prints a dim separator carrying label, sized to the terminal.
func (p *Printer) Rule(label string) {
	termWidth := GetTerminalWidth()
	dim := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(p.Out, "%s%s%s\n", dim(line), dim(label), dim(line))
}
