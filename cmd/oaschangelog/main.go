package main

import (
	"errors"
	"io"
	"os"

	"github.com/erraggy/oaschangelog"
	"github.com/erraggy/oaschangelog/cmd/oaschangelog/commands"
	"github.com/erraggy/oaschangelog/internal/cliutil"
)

// commandNames lists everything suggestCommand may propose.
var commandNames = []string{"diff", "changelog", "mcp", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]

	var err error
	switch command {
	case "version", "-version", "--version":
		cliutil.Writef(stdout, "oaschangelog %s\n", oaschangelog.Version())
		if len(args) > 1 && args[1] == "-v" {
			cliutil.Writef(stdout, "%s\n", oaschangelog.BuildInfo())
		}
		return 0
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	case "diff":
		err = commands.HandleDiff(args[1:])
	case "changelog":
		err = commands.HandleChangelog(args[1:])
	case "mcp":
		err = commands.HandleMCP(args[1:])
	default:
		cliutil.Writef(stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			cliutil.Writef(stderr, "Did you mean: %s?\n", suggestion)
		}
		cliutil.Writef(stderr, "\n")
		printUsage(stderr)
		return 1
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, commands.ErrDifferencesFound):
		return 1
	default:
		cliutil.Writef(stderr, "Error: %v\n", err)
		return 1
	}
}

func printUsage(w io.Writer) {
	cliutil.Writef(w, "oaschangelog - route-level changelogs for OpenAPI 3.x documents\n\n")
	cliutil.Writef(w, "Usage:\n")
	cliutil.Writef(w, "  oaschangelog <command> [flags] [arguments]\n\n")
	cliutil.Writef(w, "Commands:\n")
	cliutil.Writef(w, "  diff        Compare two versions of a document\n")
	cliutil.Writef(w, "  changelog   Render a Markdown changelog from several versions\n")
	cliutil.Writef(w, "  mcp         Serve the diff and changelog tools over MCP stdio\n")
	cliutil.Writef(w, "  version     Show version information (-v for build details)\n")
	cliutil.Writef(w, "  help        Show this help message\n\n")
	cliutil.Writef(w, "Run 'oaschangelog <command> -h' for more information on a command.\n")
}

// suggestCommand returns the known command closest to input, or "" when
// none is within an edit distance of 2.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
