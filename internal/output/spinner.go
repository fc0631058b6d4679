package output

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows progress while a slow step runs. On a non-terminal it is silent.
type Spinner struct {
	s       *spinner.Spinner
	symbols ProgressSymbols
	out     io.Writer
}

// StartSpinner starts a spinner with message on out.
func StartSpinner(out io.Writer, caps TerminalCapabilities, message string) *Spinner {
	symbols := SelectSymbols(caps)
	sp := &Spinner{symbols: symbols, out: out}
	if !caps.IsTTY {
		return sp
	}

	sp.s = spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(out))
	sp.s.Suffix = " " + message
	sp.s.Start()
	return sp
}

// Stop stops the spinner, replacing it with a final status line when
// final is not empty.
func (sp *Spinner) Stop(ok bool, final string) {
	if sp.s == nil {
		return
	}
	if final != "" {
		mark := sp.symbols.Checkmark
		if !ok {
			mark = sp.symbols.Failure
		}
		sp.s.FinalMSG = mark + " " + final + "\n"
	}
	sp.s.Stop()
}
