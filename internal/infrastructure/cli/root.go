package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/plz-go/internal/app"
	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/version"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
}

func (o Options) withDefaults() Options {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	return o
}

// NewRootCmd wires the cobra root command. The dependency graph is built
// lazily so that --help and --version never touch the config file.
func NewRootCmd(opts Options) *cobra.Command {
	opts = opts.withDefaults()

	var (
		force   bool
		timeout time.Duration
		debug   bool
		journal bool
		limit   int
		search  string
	)

	root := &cobra.Command{
		Use:   "plz [description]",
		Short: "Generate a shell command from a description and run it",
		Long: "plz sends a plain-language task description to the OpenAI completion API,\n" +
			"shows the generated bash script, and runs it after confirmation.\n\n" +
			"Flags go before the description; everything after its first word is part\n" +
			"of the task. -y/--force and --debug are also accepted at the very end.",
		Example: `  plz list the five largest files in this directory
  plz -y show disk usage of my home folder
  plz delete log files older than 7 days -y`,
		Version:       version.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			args, trailing := splitTrailingFlags(args)
			force = force || trailing.force
			debug = debug || trailing.debug
			if !journal && len(args) == 0 {
				return cmd.Help()
			}

			container, err := app.BuildContainer(cmd.Context(), app.Options{
				Verbose: opts.Verbose || debug,
				LogOut:  opts.Err,
			})
			if err != nil {
				return err
			}
			defer container.Close()

			if journal {
				return listJournal(cmd.OutOrStdout(), container.Journal, limit, search)
			}

			renderer := NewRenderer(opts.Out, opts.Err)
			container.QueryService.Presenter = renderer
			container.QueryService.Prompter = NewPrompter(opts.In, opts.Err)

			req := domain.TaskRequest{
				Description: strings.Join(args, " "),
				OS:          domain.HostOS(),
				Force:       force,
				Timeout:     timeout,
			}
			_, err = container.QueryService.Run(cmd.Context(), req)
			return err
		},
	}

	flags := root.Flags()
	flags.BoolVarP(&force, "force", "y", false, "Run the generated program without asking for confirmation")
	flags.DurationVar(&timeout, "timeout", 0, "Bound the completion request (0 means no timeout)")
	flags.BoolVar(&debug, "debug", false, "Enable verbose logging")
	flags.BoolVar(&journal, "journal", false, "List recently executed runs and exit")
	flags.IntVar(&limit, "limit", domain.DefaultJournalLimit, "Number of runs shown by --journal")
	flags.StringVar(&search, "search", "", "Only show runs whose description or command contains this text")
	// Descriptions are free text; stop flag parsing at the first word.
	flags.SetInterspersed(false)

	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	return root
}

type trailingFlags struct {
	force bool
	debug bool
}

// splitTrailingFlags peels -y/--force and --debug off the end of the
// description words.
func splitTrailingFlags(args []string) ([]string, trailingFlags) {
	var flags trailingFlags
	for len(args) > 0 {
		switch args[len(args)-1] {
		case "-y", "--force":
			flags.force = true
		case "--debug":
			flags.debug = true
		default:
			return args, flags
		}
		args = args[:len(args)-1]
	}
	return args, flags
}

// Execute runs the root command with ctx and args.
func Execute(ctx context.Context, args []string, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	root := NewRootCmd(opts)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
