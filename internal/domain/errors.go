package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies every fatal condition of a run.
type FailureKind string

const (
	FailureConfig    FailureKind = "config"
	FailureTransport FailureKind = "transport"
	FailureClient    FailureKind = "client_error"
	FailureServer    FailureKind = "server_error"
	FailureMalformed FailureKind = "malformed_response"
	FailureInput     FailureKind = "input"
	FailureSpawn     FailureKind = "spawn"
	FailureCommand   FailureKind = "command"

	// FailureInterrupted means the run was cancelled (Ctrl-C) before or
	// while the generated code ran.
	FailureInterrupted FailureKind = "interrupted"
)

// InterruptedExitCode is the conventional status for a SIGINT-terminated process.
const InterruptedExitCode = 130

// Failure is the single error type that reaches the process exit point.
type Failure struct {
	Kind    FailureKind
	Message string
	// StatusCode is set for API failures.
	StatusCode int
	// CommandExitCode is set for FailureCommand.
	CommandExitCode int
	// Output is echoed after the message (captured stderr of a failed command).
	Output []byte
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// ExitCode maps the failure to the process exit status.
// A failed command propagates its own status; everything else exits 1.
func (f *Failure) ExitCode() int {
	if f.Kind == FailureInterrupted {
		return InterruptedExitCode
	}
	if f.Kind == FailureCommand && f.CommandExitCode > 0 && f.CommandExitCode < 256 {
		return f.CommandExitCode
	}
	return 1
}

// NewFailure builds a failure of the given kind.
func NewFailure(kind FailureKind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// MissingCredentialFailure is returned when the API key is absent.
func MissingCredentialFailure(envVar string) *Failure {
	return NewFailure(FailureConfig, fmt.Sprintf(
		"This program requires an OpenAI API key to run. Please set the %s environment variable.", envVar), nil)
}

// ClientFailure wraps a 4xx response. An empty message falls back to an auth hint.
func ClientFailure(status int, message string) *Failure {
	if message == "" {
		message = "API request was rejected. Check that your OPENAI_API_KEY is valid."
	} else {
		message = fmt.Sprintf("API error: %q", message)
	}
	return &Failure{Kind: FailureClient, Message: message, StatusCode: status}
}

// ServerFailure wraps a 5xx response.
func ServerFailure(status int) *Failure {
	return &Failure{
		Kind:       FailureServer,
		Message:    fmt.Sprintf("OpenAI is currently experiencing problems. Status code: %d", status),
		StatusCode: status,
	}
}

// CommandFailure reports a generated command that exited non-zero.
func CommandFailure(result ExecutionResult) *Failure {
	return &Failure{
		Kind:            FailureCommand,
		Message:         "The program threw an error.",
		CommandExitCode: result.ExitCode,
		Output:          result.Stderr,
	}
}

// InterruptedFailure reports a run cancelled by the user.
func InterruptedFailure(err error) *Failure {
	return &Failure{Kind: FailureInterrupted, Message: "Interrupted.", Err: err}
}

// AsFailure extracts a *Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
