package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/ports"
)

func listJournal(w io.Writer, journal ports.JournalRepository, limit int, search string) error {
	if journal == nil {
		fmt.Fprintln(w, "The run journal is disabled (journal.enabled: false).")
		return nil
	}
	if limit <= 0 {
		limit = domain.DefaultJournalLimit
	}
	records, err := journal.Records(limit, search)
	if err != nil {
		return fmt.Errorf("read journal %s: %w", journal.Path(), err)
	}
	renderJournal(w, records)
	return nil
}

func renderJournal(w io.Writer, records []domain.JournalRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	for _, rec := range records {
		status := pterm.Green("ok")
		if !rec.Success {
			status = pterm.Red(fmt.Sprintf("exit %d", rec.ExitCode))
		}
		fmt.Fprintf(w, "%s  %s  %s\n", humanize.Time(rec.Timestamp), status, summarizeCommand(rec.Command))
		if rec.Description != "" {
			fmt.Fprintf(w, "    # %s\n", rec.Description)
		}
	}
}

// summarizeCommand keeps the first line of multi-line scripts.
func summarizeCommand(command string) string {
	command = strings.TrimSpace(command)
	first, rest, found := strings.Cut(command, "\n")
	if !found {
		return command
	}
	lines := strings.Count(rest, "\n") + 1
	return fmt.Sprintf("%s (+%d lines)", first, lines)
}
