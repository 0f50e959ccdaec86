// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oaschangelog capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oaschangelog"
)

const serverInstructions = `oaschangelog MCP server: compares versions of an OpenAPI 3.x document route by route and builds Markdown changelogs.

Configuration: All defaults are configurable via OASCHANGELOG_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASCHANGELOG_MAX_INLINE_SIZE (default: 10485760) - maximum inline content and URL download size in bytes
- OASCHANGELOG_MAX_VERSIONS (default: 20) - maximum number of versions accepted by the changelog tool
- OASCHANGELOG_CHANGELOG_CONCURRENCY (default: 4) - version pairs compared at once by the changelog tool
- OASCHANGELOG_ROUTE_LIMIT (default: 100) - default page size for changed routes in diff results
- OASCHANGELOG_ALLOW_PRIVATE_IPS (default: false) - allow url inputs that resolve to private addresses
- OASCHANGELOG_CACHE_ENABLED (default: true) - disable document caching entirely

Caching: Parsed documents are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}
	return newServer().Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oaschangelog", Version: oaschangelog.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "diff",
		Description: "Compare two versions of the same OpenAPI 3.x document route by route. Every route (path + method) is classified as same, added, deleted or changed; changed routes list parameter, request body, response header and response body changes. Both documents must share the same major openapi version and only local $refs are followed. Use detail=true for full change records with schemas, and resolve_schemas=true to inline their $refs. Changed routes are paginated with offset/limit (default limit configurable via OASCHANGELOG_ROUTE_LIMIT).",
	}, handleDiff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "changelog",
		Description: "Build a Markdown changelog from an ordered list of document versions (oldest first). Each consecutive pair is compared; pairs that cannot be compared are reported with their error and left out of the Markdown. Requires at least 2 versions (maximum configurable via OASCHANGELOG_MAX_VERSIONS).",
	}, handleChangelog)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.RouteLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.RouteLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
