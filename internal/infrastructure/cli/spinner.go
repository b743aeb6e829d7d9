package cli

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// spinner wraps a pterm spinner bound to a single writer. Only one spinner is
// active at a time; starting a new one replaces the previous.
type spinner struct {
	writer  io.Writer
	current *pterm.SpinnerPrinter
}

func newSpinner(w io.Writer) *spinner {
	return &spinner{writer: w}
}

func (s *spinner) Start(message string) {
	s.Stop()
	sp, err := pterm.DefaultSpinner.
		WithWriter(s.writer).
		WithRemoveWhenDone(true).
		WithShowTimer(false).
		Start(message)
	if err != nil {
		return
	}
	s.current = sp
}

// Running reports whether a spinner is currently animating.
func (s *spinner) Running() bool {
	return s.current != nil
}

// Succeed stops the spinner and persists message with a success mark.
// The spinner clears its own line on stop, so the message is printed after.
func (s *spinner) Succeed(message string) {
	if s.current == nil {
		return
	}
	s.Stop()
	fmt.Fprintln(s.writer, "\r"+pterm.Green("✔ "+message))
}

// Stop clears the spinner line without printing anything.
func (s *spinner) Stop() {
	if s.current == nil {
		return
	}
	_ = s.current.Stop()
	s.current = nil
}
