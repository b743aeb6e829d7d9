package domain

import "time"

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	Success  bool
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}
