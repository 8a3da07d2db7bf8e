package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/javaser"
	"github.com/zoobzio/interchange/json"
	"github.com/zoobzio/interchange/php"
	"github.com/zoobzio/interchange/pickle"
)

func (a *app) javaCmd() *cli.Command {
	return &cli.Command{
		Name:      "java",
		Usage:     "Inspect a hex-encoded Java serialization stream",
		ArgsUsage: "[hex]",
		Description: `Print the stream version, top-level class name and declared fields as
JSON. The stream is never deserialized.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			text, err := readInput(cmd, "")
			if err != nil {
				return err
			}
			info, err := javaser.ParseInfo(text)
			if err != nil {
				a.logger.Warn("not a java stream", zap.Error(err))
				return err
			}
			a.logger.Debug("parsed java stream",
				zap.String("class", info.ClassName),
				zap.Int("fields", len(info.Fields)),
			)
			v, err := interchange.FromStruct(*info)
			if err != nil {
				return fmt.Errorf("failed to convert result: %w", err)
			}
			return printJSON(cmd, v)
		},
	}
}

func (a *app) pickleCmd() *cli.Command {
	return &cli.Command{
		Name:      "pickle",
		Usage:     "Classify hex text as a Python pickle stream",
		ArgsUsage: "[hex]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			text, err := readInput(cmd, "")
			if err != nil {
				return err
			}

			result := interchange.NewMapping()
			detected := pickle.Detect(text)
			result.Set("pickle", interchange.Bool(detected))
			if protocol, ok := pickle.Protocol(text); ok {
				result.Set("protocol", interchange.Int(int64(protocol)))
				result.Set("name", interchange.String(pickle.ProtocolName(protocol)))
			}
			a.logger.Debug("classified pickle", zap.Bool("detected", detected))
			return printJSON(cmd, interchange.Map(result))
		},
	}
}

func (a *app) phpArrayCmd() *cli.Command {
	return &cli.Command{
		Name:      "php-array",
		Usage:     "Rewrite legacy PHP array(...) literals in short [...] syntax",
		ArgsUsage: "[text]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			text, err := readInput(cmd, "")
			if err != nil {
				return err
			}
			out := php.ConvertArraySyntax(text)
			a.logger.Debug("converted array syntax", zap.Int("in", len(text)), zap.Int("out", len(out)))
			return writeOutput(cmd, "", out)
		},
	}
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cli.Command, v interchange.Value) error {
	data, err := json.NewWithOptions(json.Options{Indent: 2}).Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return writeOutput(cmd, "", string(data))
}
