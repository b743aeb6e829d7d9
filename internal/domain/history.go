package domain

import "time"

// JournalRecord captures one confirmed run.
type JournalRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Command     string    `json:"command"`
	Model       string    `json:"model"`
	Success     bool      `json:"success"`
	ExitCode    int       `json:"exit_code"`
	DurationMS  int64     `json:"duration_ms"`
}
