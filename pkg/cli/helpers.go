package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// bundleArgs are the positional arguments of the bundle command.
type bundleArgs struct {
	configPath     string
	originDir      string
	destDir        string
	decoderOptions string
}

// parseBundleArgs extracts config, origdir, destdir and the optional decoder
// options from the positional arguments.
func parseBundleArgs(cmd *cli.Command) (bundleArgs, error) {
	args := cmd.Args()
	if n := args.Len(); n < 3 || n > 4 {
		return bundleArgs{}, fmt.Errorf("expected 3 or 4 arguments, got %d", n)
	}

	ba := bundleArgs{
		configPath:     args.Get(0),
		originDir:      args.Get(1),
		destDir:        args.Get(2),
		decoderOptions: args.Get(3),
	}
	for _, a := range []struct{ label, value string }{
		{"config", ba.configPath},
		{"origdir", ba.originDir},
		{"destdir", ba.destDir},
	} {
		if a.value == "" {
			return bundleArgs{}, fmt.Errorf("%s must not be empty", a.label)
		}
	}
	return ba, nil
}

// checkReadable fails unless path can be opened for reading.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read config: %w", err)
	}
	return f.Close()
}

// usageError marks an argument error whose usage text was already printed.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// printUsageError writes err and the usage line to the error writer.
func printUsageError(cmd *cli.Command, err error) error {
	w := cmd.Root().ErrWriter
	if w == nil {
		w = os.Stderr
	}
	_, _ = fmt.Fprintf(w, "Incorrect usage: %v\n\nUSAGE:\n   %s\n\nRun '%s --help' for the list of options.\n",
		err, usageText, name)
	return &usageError{err: err}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
