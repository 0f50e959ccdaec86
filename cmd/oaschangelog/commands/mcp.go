package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oaschangelog/internal/cliutil"
	"github.com/erraggy/oaschangelog/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command. It takes no flags;
// the server is configured through OASCHANGELOG_* environment variables.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oaschangelog mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the diff and changelog tools over the Model Context Protocol on stdio.\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  OASCHANGELOG_MAX_INLINE_SIZE        maximum inline document size in bytes\n")
		cliutil.Writef(fs.Output(), "  OASCHANGELOG_MAX_VERSIONS           maximum versions per changelog call\n")
		cliutil.Writef(fs.Output(), "  OASCHANGELOG_CHANGELOG_CONCURRENCY  version pairs compared at once\n")
		cliutil.Writef(fs.Output(), "  OASCHANGELOG_ROUTE_LIMIT            default page size of changed routes\n")
		cliutil.Writef(fs.Output(), "  OASCHANGELOG_ALLOW_PRIVATE_IPS      allow url inputs on private networks\n")
		cliutil.Writef(fs.Output(), "  OASCHANGELOG_CACHE_ENABLED          cache parsed documents per session\n")
	}
	return fs
}

// HandleMCP executes the mcp command. It blocks until the client
// disconnects or the process is interrupted.
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
