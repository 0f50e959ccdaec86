// Package commands provides CLI command handlers for oaschangelog.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oaschangelog/parser"
)

// Output format constants
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

var validFormats = []string{FormatText, FormatJSON, FormatYAML, FormatMarkdown}

// ErrDifferencesFound is returned by the diff command with -fail-on-diff
// when the documents differ. The CLI exits with status 1 without printing it.
var ErrDifferencesFound = errors.New("differences found")

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if !slices.Contains(validFormats, format) {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s", format, strings.Join(validFormats, ", "))
	}
	return nil
}

// MarshalStructured renders data as indented JSON or block-style YAML.
//
// YAML goes through the JSON encoding so that types with a MarshalJSON
// method, such as the differ change records, keep their JSON field names.
func MarshalStructured(data any, format string) ([]byte, error) {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling to %s: %w", format, err)
	}

	switch format {
	case FormatJSON:
		return append(raw, '\n'), nil
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return nil, fmt.Errorf("marshaling to %s: %w", format, err)
		}
		blockStyle(&node)
		out, err := yaml.Marshal(&node)
		if err != nil {
			return nil, fmt.Errorf("marshaling to %s: %w", format, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("invalid format for structured output: %s", format)
	}
}

// blockStyle clears the flow and quoting styles the JSON input left on n.
// The encoder still quotes strings that would read back as another type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

// newLogger returns the logger handed to the library packages. Output goes
// to w as slog text; verbose enables debug records.
func newLogger(w io.Writer, verbose bool) parser.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return parser.NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
