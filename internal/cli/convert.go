package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/csv"
	"github.com/zoobzio/interchange/php"
	"github.com/zoobzio/interchange/properties"
	"github.com/zoobzio/interchange/serialize"
	"github.com/zoobzio/interchange/table"
	"github.com/zoobzio/interchange/xml"
)

// errConversion is returned when the input document could not be parsed.
var errConversion = errors.New("conversion failed")

func supportedFormats() []string {
	return append(interchange.SupportedFormats(), string(serialize.FormatText))
}

func (a *app) convertCmd() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a document from one format to another",
		Description: `Read a document in one format and write it in another. Input is taken
from the argument, the --input file, or stdin. Binary formats (msgpack, bson)
are read and written as hex. The "text" output joins the items of a list.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Aliases:  []string{"f"},
				Required: true,
				Usage:    fmt.Sprintf("input format (supported values: %s)", strings.Join(interchange.SupportedFormats(), ", ")),
			},
			&cli.StringFlag{
				Name:     "to",
				Aliases:  []string{"t"},
				Required: true,
				Usage:    fmt.Sprintf("output format (supported values: %s)", strings.Join(supportedFormats(), ", ")),
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "read input from file instead of stdin",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write output to file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "row-type",
				Usage: "csv/table row shape (row_object, row_array, keyed_object, keyed_array)",
			},
			&cli.IntFlag{
				Name:  "keyed-key",
				Usage: "csv/table column that keys the keyed row shapes",
			},
			&cli.BoolFlag{
				Name:  "no-header",
				Usage: "omit the csv/table header row on output",
			},
			&cli.BoolFlag{
				Name:  "quote",
				Usage: "quote every csv field or text item",
			},
			&cli.StringFlag{
				Name:  "delimiter",
				Value: serialize.DefaultDelimiter,
				Usage: `text item delimiter; \n is a newline`,
			},
			&cli.StringFlag{
				Name:  "attribute-prefix",
				Usage: "xml attribute key prefix",
			},
			&cli.BoolFlag{
				Name:  "tree",
				Usage: "nest properties keys on dots",
			},
			&cli.BoolFlag{
				Name:  "byte-lengths",
				Usage: "count php serialize string lengths in bytes",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			from, err := interchange.ParseFormat(cmd.String("from"))
			if err != nil {
				return err
			}
			toName := strings.ToLower(cmd.String("to"))
			var to interchange.Format
			if toName != string(serialize.FormatText) {
				if to, err = interchange.ParseFormat(toName); err != nil {
					return err
				}
			}

			text, err := readInput(cmd, cmd.String("input"))
			if err != nil {
				return err
			}

			inCodec, err := codecFor(from, cmd)
			if err != nil {
				return err
			}

			start := time.Now()
			doc := serialize.Decode(ctx, inCodec, text)
			if doc.IsError() {
				a.logger.Error("decode failed",
					zap.String("format", string(from)),
					zap.Int("size", len(text)),
					zap.Error(doc.Err()),
				)
				return fmt.Errorf("%w: %s", errConversion, doc.ErrorMessage())
			}
			a.logger.Debug("decoded",
				zap.String("format", string(from)),
				zap.Int("size", len(text)),
				zap.Duration("duration", time.Since(start)),
				zap.String("fingerprint", doc.Fingerprint()),
			)

			var out string
			if to == "" {
				out, err = doc.ToText(serialize.TextOptions{
					Delimiter: cmd.String("delimiter"),
					Quote:     cmd.Bool("quote"),
				})
			} else {
				outCodec, cerr := codecFor(to, cmd)
				if cerr != nil {
					return cerr
				}
				out, err = doc.Encode(ctx, outCodec)
			}
			if err != nil {
				a.logger.Error("encode failed", zap.String("format", toName), zap.Error(err))
				return err
			}
			a.logger.Info("converted",
				zap.String("from", string(from)),
				zap.String("to", toName),
				zap.Int("size", len(out)),
			)

			return writeOutput(cmd, cmd.String("output"), out)
		},
	}
}

// codecFor returns a codec for format configured from the command flags.
func codecFor(format interchange.Format, cmd *cli.Command) (interchange.Codec, error) {
	switch format {
	case interchange.FormatCSV:
		return csv.NewWithOptions(csv.Options{
			Type:       cmd.String("row-type"),
			KeyedKey:   cmd.Int("keyed-key"),
			Quoted:     cmd.Bool("quote"),
			OmitHeader: cmd.Bool("no-header"),
		}), nil
	case interchange.FormatTable:
		return table.NewWithOptions(table.Options{
			Type:       cmd.String("row-type"),
			KeyedKey:   cmd.Int("keyed-key"),
			OmitHeader: cmd.Bool("no-header"),
		}), nil
	case interchange.FormatXML:
		return xml.NewWithOptions(xml.Options{
			AttributePrefix: cmd.String("attribute-prefix"),
		}), nil
	case interchange.FormatProperties:
		return properties.NewWithOptions(properties.Options{
			ConvertToJSONTree: cmd.Bool("tree"),
		}), nil
	case interchange.FormatPHPSerialize:
		return php.NewSerializeCodec(php.SerializeOptions{
			ByteLengths: cmd.Bool("byte-lengths"),
		}), nil
	}
	return serialize.Use(format)
}
