package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/erraggy/oaschangelog/changelog"
	"github.com/erraggy/oaschangelog/differ"
	"github.com/erraggy/oaschangelog/internal/cliutil"
	"github.com/erraggy/oaschangelog/parser"
)

// ChangelogFlags contains flags for the changelog command
type ChangelogFlags struct {
	Concurrency int
	Labels      string
	Output      string
	Verbose     bool
}

// SetupChangelogFlags creates and configures a FlagSet for the changelog command.
// Returns the FlagSet and a ChangelogFlags struct with bound flag variables.
func SetupChangelogFlags() (*flag.FlagSet, *ChangelogFlags) {
	fs := flag.NewFlagSet("changelog", flag.ContinueOnError)
	flags := &ChangelogFlags{}

	fs.IntVar(&flags.Concurrency, "concurrency", changelog.DefaultConcurrency, "number of version pairs compared at once")
	fs.StringVar(&flags.Labels, "labels", "", "comma-separated version labels, one per file (default: the file paths)")
	fs.StringVar(&flags.Output, "o", "", "write the changelog to file instead of stdout")
	fs.BoolVar(&flags.Verbose, "v", false, "log debug output to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oaschangelog changelog [flags] <v1> <v2> [<v3> ...]\n\n")
		cliutil.Writef(fs.Output(), "Compare consecutive versions of an OpenAPI 3.x document and render a Markdown changelog.\n")
		cliutil.Writef(fs.Output(), "Files are given oldest first; the changelog lists the newest version first.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oaschangelog changelog v1.yaml v2.yaml v3.yaml\n")
		cliutil.Writef(fs.Output(), "  oaschangelog changelog -labels 1.0.0,1.1.0,2.0.0 -o CHANGELOG.md v1.yaml v2.yaml v3.yaml\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - A pair that cannot be compared is skipped with a warning on stderr\n")
	}

	return fs, flags
}

// HandleChangelog executes the changelog command
func HandleChangelog(args []string) error {
	return RunChangelog(context.Background(), args, os.Stdout, os.Stderr, afero.NewOsFs())
}

// RunChangelog executes the changelog command against the given streams and filesystem.
func RunChangelog(ctx context.Context, args []string, stdout, stderr io.Writer, fsys afero.Fs) error {
	fs, flags := SetupChangelogFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("changelog command requires at least two file paths")
	}
	if flags.Concurrency <= 0 {
		return fmt.Errorf("invalid concurrency %d: must be positive", flags.Concurrency)
	}

	paths := fs.Args()
	labels := paths
	if flags.Labels != "" {
		labels = strings.Split(flags.Labels, ",")
		if len(labels) != len(paths) {
			return fmt.Errorf("got %d labels for %d files", len(labels), len(paths))
		}
	}

	logger := newLogger(stderr, flags.Verbose)
	p := &parser.Parser{Fs: fsys, Logger: logger}

	versions := make([]changelog.Version, 0, len(paths))
	for i, path := range paths {
		result, err := p.ParseFile(path)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		versions = append(versions, changelog.Version{Label: strings.TrimSpace(labels[i]), Document: result})
	}

	b := &changelog.Builder{
		Concurrency: flags.Concurrency,
		Logger:      logger,
		Differ:      &differ.Differ{Logger: logger},
	}
	entries, err := b.Build(ctx, versions)
	if err != nil {
		return err
	}

	written, err := cliutil.WriteOutput(stdout, fsys, flags.Output, []byte(changelog.Render(entries)))
	if err != nil {
		return err
	}
	if written != "" {
		cliutil.Writef(stderr, "Output written to: %s\n", written)
	}
	return nil
}
