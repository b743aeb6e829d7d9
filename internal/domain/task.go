// Package domain defines the core entities of plz.
//
// The domain layer holds the task request, completion failures, execution
// results and the shell identity used for history recording. It has no
// dependency on infrastructure.
package domain

import (
	"runtime"
	"time"
)

// OSHint classifies the host operating system for the prompt.
type OSHint string

const (
	OSUnknown OSHint = ""
	OSMac     OSHint = "macOS"
	OSLinux   OSHint = "Linux"
)

// DetectOS maps a GOOS value to an OSHint.
func DetectOS(goos string) OSHint {
	switch goos {
	case "darwin":
		return OSMac
	case "linux":
		return OSLinux
	default:
		return OSUnknown
	}
}

// HostOS returns the OSHint for the running binary.
func HostOS() OSHint {
	return DetectOS(runtime.GOOS)
}

// TaskRequest captures what the user asked for on the command line.
type TaskRequest struct {
	Description string
	OS          OSHint
	Force       bool
	// Timeout bounds the completion call; zero defers to the config (default: none).
	Timeout time.Duration
}

// CompletionRequest carries everything the completion client needs for one call.
type CompletionRequest struct {
	Description string
	OS          OSHint
	APIKey      string
	APIBase     string
	Model       string
	MaxTokens   int
}

// RunOutcome summarises a pipeline run that did not fail.
type RunOutcome struct {
	Code       string
	Confirmed  bool
	Result     *ExecutionResult
	Inspection Inspection
}
