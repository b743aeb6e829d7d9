package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/doeshing/plz-go/internal/ports"
)

const confirmQuestion = ">> Run the generated program? [Y/n] "

// Prompter implements ConfirmationPrompter using stdin and stderr.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter reading answers from in and writing the
// question to out. Nil arguments fall back to stdin and stderr.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm returns true without reading input when force is set. Otherwise it
// asks until it gets a recognized answer; an empty answer means yes. A
// cancelled ctx returns ctx.Err() without waiting for input.
func (p *Prompter) Confirm(ctx context.Context, force bool) (bool, error) {
	if force {
		return true, nil
	}
	for {
		fmt.Fprint(p.out, pterm.FgGray.Sprint(confirmQuestion))
		line, err := p.readLine(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			fmt.Fprintln(p.out)
			return false, ctxErr
		}
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return false, err
		}
		if answer, ok := parseAnswer(line); ok {
			return answer, nil
		}
		if err != nil {
			return false, err
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

type lineResult struct {
	line string
	err  error
}

// readLine reads one line, giving up when ctx is done. An abandoned read
// keeps its goroutine until the input yields; the process exits right after.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	done := make(chan lineResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		done <- lineResult{line: line, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.line, res.err
	}
}

func parseAnswer(line string) (answer bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
