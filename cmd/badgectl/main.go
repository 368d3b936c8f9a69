// badgectl migrates, converts and renders badge templates offline.
//
//	badgectl migrate  [file]   upgrade a working template to the latest version
//	badgectl convert  [file]   designer or legacy template -> legacy print format
//	badgectl restore  [file]   legacy template -> designer template
//	badgectl fields   [text]   rewrite placeholders (--restore for the reverse)
//	badgectl render   [file]   render a badge PDF
//
// Input is read from file, or stdin when file is omitted or "-".
package main

import (
	"badge-designer/internal/cache"
	"badge-designer/internal/convert"
	"badge-designer/internal/generator"
	"badge-designer/internal/migrate"
	"badge-designer/internal/models"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage: badgectl <migrate|convert|restore|fields|render> [flags] [input]")

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	command, args := args[0], args[1:]

	var output string
	var compact bool
	flagSet := pflag.NewFlagSet("badgectl "+command, pflag.ContinueOnError)
	flagSet.StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")
	flagSet.BoolVar(&compact, "compact", false, "emit compact JSON")

	switch command {
	case "migrate":
		if err := flagSet.Parse(args); err != nil {
			return err
		}
		raw, err := readInput(flagSet.Args(), stdin)
		if err != nil {
			return err
		}
		t, err := migrate.Migrate(raw)
		if errors.Is(err, migrate.ErrUnknownVersion) {
			slog.Warn("template left unchanged", "err", err)
			return writeOutput(output, stdout, raw)
		}
		if err != nil {
			return err
		}
		if err := t.Validate(); err != nil {
			slog.Warn("template migrated with duplicate element ids", "err", err)
		}
		return writeJSON(output, stdout, t, compact)

	case "convert":
		if err := flagSet.Parse(args); err != nil {
			return err
		}
		raw, err := readInput(flagSet.Args(), stdin)
		if err != nil {
			return err
		}
		bt, _, err := convert.ForPrint(raw)
		if err != nil {
			return err
		}
		return writeJSON(output, stdout, bt, compact)

	case "restore":
		if err := flagSet.Parse(args); err != nil {
			return err
		}
		raw, err := readInput(flagSet.Args(), stdin)
		if err != nil {
			return err
		}
		bt, err := convert.FromJSON(raw)
		if err != nil {
			return err
		}
		return writeJSON(output, stdout, convert.FromLegacy(bt), compact)

	case "fields":
		var restore bool
		flagSet.BoolVar(&restore, "restore", false, "turn print placeholders back into designer placeholders")
		if err := flagSet.Parse(args); err != nil {
			return err
		}
		var content string
		if rest := flagSet.Args(); len(rest) > 0 {
			content = strings.Join(rest, " ")
		} else {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			content = string(data)
		}
		if restore {
			content = convert.RestoreDynamicFields(content)
		} else {
			content = convert.DynamicFields(content)
		}
		return writeOutput(output, stdout, []byte(content))

	case "render":
		var attendeePath, eventName, eventDate, eventLocation, cacheDir string
		var width, height float64
		flagSet.StringVar(&attendeePath, "attendee", "", "JSON file with the attendee to print")
		flagSet.StringVar(&eventName, "event-name", "", "event name for {eventName}")
		flagSet.StringVar(&eventDate, "event-date", "", "event date for {eventDate}")
		flagSet.StringVar(&eventLocation, "event-location", "", "event location for {eventLocation}")
		flagSet.Float64Var(&width, "width", 0, "canvas width in px (default: from template, else 400)")
		flagSet.Float64Var(&height, "height", 0, "canvas height in px (default: from template, else 600)")
		flagSet.StringVar(&cacheDir, "cache-dir", filepath.Join(os.TempDir(), "badgectl-cache"), "directory for downloaded images")
		if err := flagSet.Parse(args); err != nil {
			return err
		}
		raw, err := readInput(flagSet.Args(), stdin)
		if err != nil {
			return err
		}

		var attendee models.Attendee
		if attendeePath != "" {
			data, err := os.ReadFile(attendeePath)
			if err != nil {
				return fmt.Errorf("read attendee: %w", err)
			}
			if err := json.Unmarshal(data, &attendee); err != nil {
				return fmt.Errorf("decode attendee: %w", err)
			}
		}

		bt, canvas, err := convert.ForPrint(raw)
		if err != nil {
			return err
		}
		if width > 0 && height > 0 {
			canvas = models.CanvasSize{Width: width, Height: height}
		}

		cache.Init(cacheDir, 10*time.Second)
		gen := generator.NewPDFGenerator(&bt, canvas, &attendee, &models.EventInfo{
			Name:     eventName,
			Date:     eventDate,
			Location: eventLocation,
		})
		pdf, err := gen.Generate()
		if err != nil {
			return err
		}
		return writeOutput(output, stdout, pdf)
	}

	return fmt.Errorf("unknown command %q\n%w", command, errUsage)
}

func readInput(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("unexpected argument: %s", args[1])
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeJSON(path string, stdout io.Writer, v any, compact bool) error {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	return writeOutput(path, stdout, append(data, '\n'))
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
