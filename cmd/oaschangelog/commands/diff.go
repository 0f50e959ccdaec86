package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/erraggy/oaschangelog"
	"github.com/erraggy/oaschangelog/changelog"
	"github.com/erraggy/oaschangelog/differ"
	"github.com/erraggy/oaschangelog/internal/cliutil"
)

// DiffFlags contains flags for the diff command
type DiffFlags struct {
	Format         string
	Output         string
	Label          string
	FailOnDiff     bool
	ResolveSchemas bool
	Verbose        bool
}

// SetupDiffFlags creates and configures a FlagSet for the diff command.
// Returns the FlagSet and a DiffFlags struct with bound flag variables.
func SetupDiffFlags() (*flag.FlagSet, *DiffFlags) {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags := &DiffFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, yaml, or markdown")
	fs.StringVar(&flags.Output, "o", "", "write output to file instead of stdout")
	fs.StringVar(&flags.Label, "label", "", "section title for markdown output (default: the target path)")
	fs.BoolVar(&flags.FailOnDiff, "fail-on-diff", false, "exit with status 1 when the documents differ")
	fs.BoolVar(&flags.ResolveSchemas, "resolve-schemas", false, "inline $refs in the schemas of json and yaml output")
	fs.BoolVar(&flags.Verbose, "v", false, "log debug output to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oaschangelog diff [flags] <source> <target>\n\n")
		cliutil.Writef(fs.Output(), "Compare two versions of an OpenAPI 3.x document route by route.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  Human-readable report with leaf schema changes\n")
		cliutil.Writef(fs.Output(), "  json            The full comparison result for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            The full comparison result as YAML\n")
		cliutil.Writef(fs.Output(), "  markdown        A changelog section listing added, deleted and changed routes\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oaschangelog diff api-v1.yaml api-v2.yaml\n")
		cliutil.Writef(fs.Output(), "  oaschangelog diff -format json api-v1.yaml api-v2.yaml | jq '.changedRoutes'\n")
		cliutil.Writef(fs.Output(), "  oaschangelog diff -format markdown -label v2.0.0 -o CHANGES.md api-v1.yaml api-v2.yaml\n")
		cliutil.Writef(fs.Output(), "  oaschangelog diff -fail-on-diff old.json new.json\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    Comparison succeeded (and no differences with -fail-on-diff)\n")
		cliutil.Writef(fs.Output(), "  1    Comparison failed, or differences found with -fail-on-diff\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Both documents must share the same major openapi version\n")
		cliutil.Writef(fs.Output(), "  - Only local references (#/...) are followed\n")
	}

	return fs, flags
}

// HandleDiff executes the diff command
func HandleDiff(args []string) error {
	return RunDiff(args, os.Stdout, os.Stderr, afero.NewOsFs())
}

// RunDiff executes the diff command against the given streams and filesystem.
func RunDiff(args []string, stdout, stderr io.Writer, fsys afero.Fs) error {
	fs, flags := SetupDiffFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("diff command requires exactly two file paths")
	}

	sourcePath := fs.Arg(0)
	targetPath := fs.Arg(1)

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	result, err := differ.DiffWithOptions(
		differ.WithSourceFilePath(sourcePath),
		differ.WithTargetFilePath(targetPath),
		differ.WithFs(fsys),
		differ.WithLogger(newLogger(stderr, flags.Verbose)),
		differ.WithResolveSchemas(flags.ResolveSchemas),
	)
	if err != nil {
		return fmt.Errorf("comparing documents: %w", err)
	}

	var data []byte
	switch flags.Format {
	case FormatJSON, FormatYAML:
		data, err = MarshalStructured(result, flags.Format)
		if err != nil {
			return err
		}
	case FormatMarkdown:
		label := flags.Label
		if label == "" {
			label = targetPath
		}
		data = []byte(changelog.RenderResult(label, result))
	default:
		var buf bytes.Buffer
		writeDiffText(&buf, sourcePath, targetPath, result)
		data = buf.Bytes()
	}

	written, err := cliutil.WriteOutput(stdout, fsys, flags.Output, data)
	if err != nil {
		return err
	}
	if written != "" {
		cliutil.Writef(stderr, "Output written to: %s\n", written)
	}

	if flags.FailOnDiff && !result.IsEqual {
		return ErrDifferencesFound
	}
	return nil
}

// writeDiffText renders result as the human-readable report.
func writeDiffText(w io.Writer, sourcePath, targetPath string, result *differ.Result) {
	cliutil.Writef(w, "OpenAPI Changelog Diff\n")
	cliutil.Writef(w, "======================\n\n")
	cliutil.Writef(w, "oaschangelog version: %s\n\n", oaschangelog.Version())
	cliutil.Writef(w, "Source: %s\n", sourcePath)
	cliutil.Writef(w, "Target: %s\n\n", targetPath)

	if result.IsEqual {
		cliutil.Writef(w, "✓ No differences found - %d routes unchanged\n", len(result.SameRoutes))
		return
	}

	cliutil.Writef(w, "Routes: %d total, %d added, %d deleted, %d changed, %d unchanged\n",
		result.TotalRoutes(), len(result.AddedRoutes), len(result.DeletedRoutes),
		len(result.ChangedRoutes), len(result.SameRoutes))

	writeRouteList(w, "Added Routes", result.AddedRoutes)
	writeRouteList(w, "Deleted Routes", result.DeletedRoutes)
	writeRouteList(w, "Changed Routes", result.ChangedRoutes)
}

func writeRouteList(w io.Writer, title string, routes []differ.Route) {
	if len(routes) == 0 {
		return
	}
	cliutil.Writef(w, "\n%s (%d):\n", title, len(routes))

	width := 0
	for _, r := range routes {
		width = max(width, len(r.Method))
	}
	for _, r := range routes {
		cliutil.Writef(w, "  %-*s %s\n", width, strings.ToUpper(r.Method), r.Path)
		for _, c := range r.Changes {
			cliutil.Writef(w, "    - %s\n", c.Message())
			for _, kc := range keywordChanges(c) {
				cliutil.Writef(w, "      %s\n", kc.Message())
				if sc, ok := kc.(differ.SchemaKeywordChange); ok {
					for _, leaf := range sc.Changes {
						cliutil.Writef(w, "        %s\n", formatLeaf(leaf))
					}
				}
			}
		}
	}
}

// keywordChanges returns the keyword-level changes of a changed record.
func keywordChanges(c differ.Change) []differ.KeywordChange {
	switch c := c.(type) {
	case differ.ParameterChanged:
		return c.Changes
	case differ.RequestBodyChanged:
		return c.Changes
	case differ.ResponseHeaderChanged:
		return schemaKeywords(c.Changes)
	case differ.ResponseBodyChanged:
		return schemaKeywords(c.Changes)
	default:
		return nil
	}
}

func schemaKeywords(changes []differ.SchemaKeywordChange) []differ.KeywordChange {
	out := make([]differ.KeywordChange, len(changes))
	for i, c := range changes {
		out[i] = c
	}
	return out
}

// formatLeaf renders a leaf change as `<path>: <source> -> <target>`.
func formatLeaf(c differ.SchemaChange) string {
	return fmt.Sprintf("%s: %s -> %s", c.JSONPath, leafValue(c.Source, c.Action == differ.ActionAdded), leafValue(c.Target, c.Action == differ.ActionDeleted))
}

func leafValue(v any, absent bool) string {
	if absent {
		return "(absent)"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
