// Package ports defines the interfaces between the query pipeline and its adapters.
//
// The application layer depends only on these interfaces; concrete
// implementations live under internal/infrastructure and are wired together in
// internal/app.
package ports

import (
	"context"

	"github.com/doeshing/plz-go/internal/domain"
)

// ConfigProvider loads configuration from persistent storage.
// Implementations typically read from ~/.plz/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// EnvironmentResolver reads the credential and shell identity from the process environment.
// A missing credential must be reported as a domain.FailureConfig.
type EnvironmentResolver interface {
	Resolve() (domain.Environment, error)
}

// CompletionClient turns a task description into generated shell code.
// It makes exactly one request and returns a *domain.Failure on any error.
type CompletionClient interface {
	Complete(context.Context, domain.CompletionRequest) (string, error)
}

// ConfirmationPrompter gates execution of the generated code. A cancelled
// context aborts a pending question with ctx.Err().
type ConfirmationPrompter interface {
	Confirm(ctx context.Context, force bool) (bool, error)
}

// CommandExecutor runs generated code in a shell interpreter.
// A non-zero exit is reported in the result, not as an error; errors mean
// the interpreter could not be started.
type CommandExecutor interface {
	Execute(ctx context.Context, code string) (domain.ExecutionResult, error)
}

// HistoryRecorder appends an executed command to the user's shell history.
// It never fails.
type HistoryRecorder interface {
	Record(shell domain.ShellIdentity, code string)
}

// JournalRepository persists confirmed runs.
type JournalRepository interface {
	Save(domain.JournalRecord) error
	Records(limit int, search string) ([]domain.JournalRecord, error)
	Path() string
}

// CommandInspector produces advisory warnings about generated code.
type CommandInspector interface {
	Inspect(code string) domain.Inspection
}

// Presenter renders pipeline progress for the user.
type Presenter interface {
	StartProgress(message string)
	StopProgress(success bool, message string)
	ShowCode(code string)
	ShowInspection(domain.Inspection)
	ShowOutput(stdout []byte)
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
