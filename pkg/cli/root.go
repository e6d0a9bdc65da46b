package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
	"github.com/joshua-decoder/joshua-bundle/pkg/logging"
)

const name = "joshua-bundle"

// version is set at build time with -ldflags "-X .../pkg/cli.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Execute runs the command line with os.Args and exits the process.
func Execute() {
	ctx, cancel := signalContext(context.Background())
	code := Run(ctx, os.Args, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)

	err := cmd.Run(ctx, args)
	if err == nil {
		return exitOK
	}

	var ue *usageError
	if stderrors.As(err, &ue) {
		// usage was already printed
		return exitUsage
	}

	_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)

	switch errors.CodeOf(err) {
	case errors.ErrCodeAlreadyExists, errors.ErrCodeInvalidRequest:
		return exitUsage
	default:
		return exitError
	}
}

func newRootCmd(stdout, stderr io.Writer) *cli.Command {
	cmd := bundleCmd()
	cmd.Name = name
	cmd.Version = version
	cmd.Writer = stdout
	cmd.ErrWriter = stderr
	cmd.HideHelpCommand = true
	cmd.EnableShellCompletion = true
	cmd.Flags = append(cmd.Flags, loggingFlags()...)
	// Everything after destdir is decoder options, even when it starts with a dash.
	stop := 3
	cmd.StopOnNthArg = &stop
	cmd.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		level := c.String("log-level")
		if c.Bool("debug") {
			level = "debug"
		}
		logging.SetDefault(logging.Options{
			Name:    name,
			Version: version,
			Level:   level,
			JSON:    c.Bool("log-json"),
			Writer:  stderr,
		})
		slog.Debug("starting", "args", c.Args().Slice())
		return ctx, nil
	}
	cmd.OnUsageError = func(ctx context.Context, c *cli.Command, err error, _ bool) error {
		return printUsageError(c, err)
	}
	// Exit codes are decided by Run.
	cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	return cmd
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "Output logs in JSON format",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
			Sources: cli.EnvVars(logging.EnvLogLevel),
		},
	}
}
