package errors

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette colors the parts of a formatted error. The zero value prints plain text.
type palette struct {
	label, category, message, heading, usage, bullet func(a ...any) string
}

var colored = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	heading:  color.New(color.FgGreen, color.Bold).SprintFunc(),
	usage:    color.New(color.FgCyan).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
}

func paint(f func(a ...any) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// FormatError formats err with colors.
func FormatError(err *CLIError) string {
	return colored.format(err)
}

// FormatErrorPlain formats err without colors.
func FormatErrorPlain(err *CLIError) string {
	return palette{}.format(err)
}

// format lays out the error as
//
//	Error [<category>]: <message>
//
//	Usage: <usage>
//
//	To fix this:
//	  • <step>
func (p palette) format(err *CLIError) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(paint(p.label, "Error") + " [" + paint(p.category, err.Category.String()) + "]: ")
	b.WriteString(paint(p.message, err.Message) + "\n")

	if err.Usage != "" {
		b.WriteString("\n" + paint(p.heading, "Usage:") + " " + paint(p.usage, err.Usage) + "\n")
	}
	if len(err.Remediation) > 0 {
		b.WriteString("\n" + paint(p.heading, "To fix this:") + "\n")
		for _, step := range err.Remediation {
			b.WriteString("  " + paint(p.bullet, "•") + " " + step + "\n")
		}
	}
	return b.String()
}

// Fprint classifies err with FromError and prints it to w, in color unless
// color output is disabled.
func Fprint(w io.Writer, err error) {
	cliErr := FromError(err)
	if cliErr == nil {
		return
	}
	if color.NoColor {
		io.WriteString(w, FormatErrorPlain(cliErr))
		return
	}
	io.WriteString(w, FormatError(cliErr))
}
