// Package cli implements the interchange command-line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const name = "interchange"

// overridden during build with ldflags
var version = "dev"

// app holds state shared by the subcommands of one run.
type app struct {
	logger *zap.Logger
}

// NewCommand returns the root command. Output goes to the command's Writer,
// logs to its ErrWriter, and input is read from its Reader unless a file or
// argument is given.
func NewCommand() *cli.Command {
	a := &app{logger: zap.NewNop()}
	return &cli.Command{
		Name:    name,
		Version: version,
		Usage:   "Convert and inspect data-interchange formats",
		Description: fmt.Sprintf(`Convert documents between formats and inspect serialized payloads.

Supported formats: %s`, strings.Join(supportedFormats(), ", ")),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger, err := newLogger(cmd.String("log-level"), errWriter(cmd))
			if err != nil {
				return ctx, err
			}
			a.logger = logger
			return ctx, nil
		},
		After: func(_ context.Context, _ *cli.Command) error {
			_ = a.logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			a.convertCmd(),
			a.javaCmd(),
			a.pickleCmd(),
			a.phpArrayCmd(),
		},
	}
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context) {
	if err := NewCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// readInput returns the first argument, the named file, or all of the
// command's input, in that order.
func readInput(cmd *cli.Command, path string) (string, error) {
	if cmd.Args().Len() > 0 {
		return strings.Join(cmd.Args().Slice(), " "), nil
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read input %q: %w", path, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(reader(cmd))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// writeOutput writes out to path, or to the command's Writer followed by a
// newline.
func writeOutput(cmd *cli.Command, path, out string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
			return fmt.Errorf("failed to write output %q: %w", path, err)
		}
		return nil
	}
	_, err := fmt.Fprintln(writer(cmd), out)
	return err
}
