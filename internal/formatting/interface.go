// Package formatting renders command results as text, JSON or YAML.
package formatting

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatText OutputFormat = "text" // Human-readable output, rendered by the command
	FormatJSON OutputFormat = "json" // JSON output
	FormatYAML OutputFormat = "yaml" // YAML output
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Compact output where the format allows it
}

// ParseFormat converts a flag value into an OutputFormat. The empty string
// means FormatText.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use text, json or yaml)", s)
	}
}

// Write renders v to out. For FormatText the text callback is used, so each
// command keeps its own human layout.
func Write(out io.Writer, opts Options, v any, text func(io.Writer)) error {
	switch opts.Format {
	case FormatJSON:
		s, err := marshalJSON(v, opts.Quiet)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, s)
		return err
	case FormatYAML:
		s, err := marshalYAML(v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, s)
		return err
	default:
		text(out)
		return nil
	}
}
