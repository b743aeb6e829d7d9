package app

import (
	"context"
	"io"
	"os"

	"github.com/doeshing/plz-go/internal/application/query"
	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/infrastructure/ai"
	"github.com/doeshing/plz-go/internal/infrastructure/config"
	"github.com/doeshing/plz-go/internal/infrastructure/executor"
	"github.com/doeshing/plz-go/internal/infrastructure/history"
	"github.com/doeshing/plz-go/internal/infrastructure/security"
	"github.com/doeshing/plz-go/internal/pkg/logger"
	"github.com/doeshing/plz-go/internal/ports"
)

// Options controls how the dependency graph is built.
type Options struct {
	Verbose bool
	// LogOut receives log lines; stderr when nil.
	LogOut io.Writer
}

// Container wires up application services with infrastructure adapters.
// The presenter and prompter are left to the caller.
type Container struct {
	QueryService *query.Service
	// Journal is nil when journal.enabled is false.
	Journal ports.JournalRepository
}

// Close releases the journal database handle, if one was opened.
func (c *Container) Close() error {
	if closer, ok := c.Journal.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	logOut := opts.LogOut
	if logOut == nil {
		logOut = os.Stderr
	}
	log := logger.NewWithWriter(opts.Verbose, logOut)

	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureConfig, "Failed to load configuration.", err)
	}

	inspector, err := security.NewInspector(cfg.Inspect.RulesFile)
	if err != nil {
		log.Warn("inspection rules unusable, using defaults", map[string]interface{}{
			"path":  cfg.Inspect.RulesFile,
			"error": err.Error(),
		})
		inspector, err = security.NewInspector("")
		if err != nil {
			return nil, err
		}
	}

	var journal ports.JournalRepository
	if cfg.IsJournalEnabled() {
		journal = history.NewSQLiteStore(cfg.Journal.Path)
	}

	queryService := &query.Service{
		ConfigProvider: cfgLoader,
		EnvResolver:    config.NewEnvResolver(),
		Client:         ai.NewCompletionClient(nil, log),
		Executor:       executor.NewLocalExecutor(cfg.GetInterpreter()),
		Recorder:       history.NewShellRecorder("", log),
		Journal:        journal,
		Inspector:      inspector,
		Logger:         log,
	}

	return &Container{
		QueryService: queryService,
		Journal:      journal,
	}, nil
}
