package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/infrastructure/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	// After the first interrupt, a second Ctrl-C kills the process outright.
	go func() {
		<-ctx.Done()
		stop()
	}()
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is the single point where errors become messages and exit codes.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	opts := cli.Options{
		Verbose: isVerbose(),
		In:      in,
		Out:     out,
		Err:     errOut,
	}
	err := cli.Execute(ctx, args, opts)
	if err == nil {
		return 0
	}
	cli.NewRenderer(out, errOut).ShowFailure(err)
	if failure, ok := domain.AsFailure(err); ok {
		return failure.ExitCode()
	}
	return 1
}

func isVerbose() bool {
	value := os.Getenv("PLZ_DEBUG")
	return strings.EqualFold(value, "1") || strings.EqualFold(value, "true")
}
