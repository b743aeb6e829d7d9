package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/ports"
)

// Renderer implements ports.Presenter. Status lines, the generated code and
// warnings go to the error stream; only the command's stdout goes to out.
type Renderer struct {
	out         io.Writer
	err         io.Writer
	interactive bool
	spinner     *spinner
}

// NewRenderer builds a renderer. Spinners and syntax colors are enabled only
// when errOut is a terminal.
func NewRenderer(out, errOut io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Renderer{
		out:         out,
		err:         errOut,
		interactive: isTerminal(errOut),
		spinner:     newSpinner(errOut),
	}
}

func (r *Renderer) StartProgress(message string) {
	if !r.interactive {
		return
	}
	r.spinner.Start(message)
}

// StopProgress ends the current progress indicator. An empty message stops
// it silently; a failure message is printed in red.
func (r *Renderer) StopProgress(success bool, message string) {
	if message == "" || !success {
		r.spinner.Stop()
		if message != "" {
			r.printFailureLine(message)
		}
		return
	}
	if r.spinner.Running() {
		r.spinner.Succeed(message)
		return
	}
	fmt.Fprintln(r.err, pterm.Green("✔ "+message))
}

func (r *Renderer) ShowCode(code string) {
	style := "notty"
	if r.interactive {
		style = "dark"
	}
	rendered, err := renderCodeBlock(code, style)
	if err != nil {
		fmt.Fprintf(r.err, "\n%s\n\n", code)
		return
	}
	fmt.Fprint(r.err, rendered)
}

func (r *Renderer) ShowInspection(inspection domain.Inspection) {
	if inspection.Clean() {
		return
	}
	if inspection.ParseError != "" {
		fmt.Fprintln(r.err, pterm.Yellow("⚠ The generated code may not be valid bash: "+inspection.ParseError))
	}
	for _, warning := range inspection.Warnings {
		line := fmt.Sprintf("⚠ [%s] %s", strings.ToUpper(string(warning.Level)), warning.Message)
		switch warning.Level {
		case domain.RiskHigh, domain.RiskCritical:
			fmt.Fprintln(r.err, pterm.Red(line))
		default:
			fmt.Fprintln(r.err, pterm.Yellow(line))
		}
	}
}

func (r *Renderer) ShowOutput(stdout []byte) {
	if len(stdout) == 0 {
		return
	}
	_, _ = r.out.Write(stdout)
	if !bytes.HasSuffix(stdout, []byte("\n")) {
		fmt.Fprintln(r.out)
	}
}

// ShowFailure prints a fatal error followed by its cause. A failing
// command's stderr follows the message verbatim.
func (r *Renderer) ShowFailure(err error) {
	r.spinner.Stop()
	failure, ok := domain.AsFailure(err)
	if !ok {
		r.printFailureLine("error: " + err.Error())
		return
	}
	r.printFailureLine(failure.Message)
	if failure.Err != nil {
		fmt.Fprintln(r.err, pterm.FgGray.Sprint("  "+failure.Err.Error()))
	}
	if len(failure.Output) > 0 {
		_, _ = r.err.Write(failure.Output)
		if !bytes.HasSuffix(failure.Output, []byte("\n")) {
			fmt.Fprintln(r.err)
		}
	}
}

func (r *Renderer) printFailureLine(message string) {
	fmt.Fprintln(r.err, pterm.Red("✖ "+message))
}

func renderCodeBlock(code, style string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(domain.FenceMarker + domain.FenceLanguage + "\n" + code + "\n" + domain.FenceMarker + "\n")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var _ ports.Presenter = (*Renderer)(nil)
