package query

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/ports"
)

// Service orchestrates the request/confirm/execute pipeline end-to-end.
type Service struct {
	ConfigProvider ports.ConfigProvider
	EnvResolver    ports.EnvironmentResolver
	Client         ports.CompletionClient
	Prompter       ports.ConfirmationPrompter
	Executor       ports.CommandExecutor
	Recorder       ports.HistoryRecorder
	Journal        ports.JournalRepository
	Inspector      ports.CommandInspector
	Presenter      ports.Presenter
	Logger         ports.Logger
}

// Run processes a single task request. Every fatal condition is returned as
// a *domain.Failure; a declined run returns a nil error.
func (s *Service) Run(ctx context.Context, req domain.TaskRequest) (domain.RunOutcome, error) {
	if s.ConfigProvider == nil || s.EnvResolver == nil || s.Client == nil ||
		s.Prompter == nil || s.Executor == nil || s.Recorder == nil || s.Logger == nil {
		return domain.RunOutcome{}, errors.New("query.Service dependencies not satisfied")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	presenter := s.presenter()

	env, err := s.EnvResolver.Resolve()
	if err != nil {
		return domain.RunOutcome{}, err
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.RunOutcome{}, domain.NewFailure(domain.FailureConfig, "Failed to load configuration.", err)
	}

	code, err := s.generate(ctx, req, env, cfg)
	if err != nil {
		return domain.RunOutcome{}, err
	}

	outcome := domain.RunOutcome{Code: code}
	presenter.ShowCode(code)
	if s.Inspector != nil {
		outcome.Inspection = s.Inspector.Inspect(code)
		presenter.ShowInspection(outcome.Inspection)
	}

	confirmed, err := s.Prompter.Confirm(ctx, req.Force)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, domain.InterruptedFailure(ctxErr)
	}
	if err != nil {
		return outcome, domain.NewFailure(domain.FailureInput, "Couldn't read the confirmation answer.", err)
	}
	if !confirmed {
		s.Logger.Debug("run declined", nil)
		return outcome, nil
	}
	outcome.Confirmed = true

	presenter.StartProgress("Executing...")
	result, execErr := s.Executor.Execute(ctx, code)
	if execErr != nil && ctx.Err() != nil {
		// Cancelled before the interpreter started: nothing ran, nothing to record.
		presenter.StopProgress(false, "")
		return outcome, domain.InterruptedFailure(ctx.Err())
	}
	s.Recorder.Record(env.Shell, code)
	s.saveJournal(req, cfg, code, result, execErr)

	if ctxErr := ctx.Err(); ctxErr != nil {
		presenter.StopProgress(false, "")
		outcome.Result = &result
		return outcome, domain.InterruptedFailure(ctxErr)
	}
	if execErr != nil {
		presenter.StopProgress(false, "")
		return outcome, domain.NewFailure(domain.FailureSpawn, "Failed to execute the generated program.", execErr)
	}
	outcome.Result = &result
	if !result.Success {
		presenter.StopProgress(false, "")
		return outcome, domain.CommandFailure(result)
	}

	presenter.StopProgress(true, "Command ran successfully")
	presenter.ShowOutput(result.Stdout)
	return outcome, nil
}

func (s *Service) generate(ctx context.Context, req domain.TaskRequest, env domain.Environment, cfg domain.Config) (string, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		// Validated when the config was loaded.
		timeout, _ = cfg.GetTimeout()
	}
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	creq := domain.CompletionRequest{
		Description: req.Description,
		OS:          req.OS,
		APIKey:      env.APIKey,
		APIBase:     cfg.EffectiveAPIBase(env),
		Model:       cfg.GetModel(),
		MaxTokens:   cfg.GetMaxTokens(),
	}
	s.Logger.Info("requesting completion", map[string]interface{}{
		"model":   creq.Model,
		"base":    creq.APIBase,
		"os":      string(req.OS),
		"timeout": timeout.String(),
	})

	presenter := s.presenter()
	presenter.StartProgress("Generating your command...")
	code, err := s.Client.Complete(callCtx, creq)
	if err != nil {
		presenter.StopProgress(false, "")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", domain.InterruptedFailure(ctxErr)
		}
		return "", err
	}
	presenter.StopProgress(true, "Got some code!")
	return code, nil
}

func (s *Service) saveJournal(req domain.TaskRequest, cfg domain.Config, code string, result domain.ExecutionResult, execErr error) {
	if s.Journal == nil {
		return
	}
	exitCode := result.ExitCode
	if execErr != nil {
		exitCode = -1
	}
	record := domain.JournalRecord{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Description: req.Description,
		Command:     code,
		Model:       cfg.GetModel(),
		Success:     execErr == nil && result.Success,
		ExitCode:    exitCode,
		DurationMS:  result.Duration.Milliseconds(),
	}
	if err := s.Journal.Save(record); err != nil {
		s.Logger.Debug("journal write failed", map[string]interface{}{
			"path":  s.Journal.Path(),
			"error": err.Error(),
		})
	}
}

func (s *Service) presenter() ports.Presenter {
	if s.Presenter == nil {
		return nopPresenter{}
	}
	return s.Presenter
}

type nopPresenter struct{}

func (nopPresenter) StartProgress(string)             {}
func (nopPresenter) StopProgress(bool, string)        {}
func (nopPresenter) ShowCode(string)                  {}
func (nopPresenter) ShowInspection(domain.Inspection) {}
func (nopPresenter) ShowOutput([]byte)                {}
