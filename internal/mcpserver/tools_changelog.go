package mcpserver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oaschangelog/changelog"
	"github.com/erraggy/oaschangelog/parser"
)

type versionInput struct {
	Label   string `json:"label,omitempty"   jsonschema:"Heading of the version in the changelog (defaults to its position, e.g. v2)"`
	File    string `json:"file,omitempty"    jsonschema:"Path to an OAS file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OAS document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OAS document content (JSON or YAML)"`
}

func (v versionInput) spec() specInput {
	return specInput{File: v.File, URL: v.URL, Content: v.Content}
}

type changelogInput struct {
	Versions []versionInput `json:"versions" jsonschema:"Document versions ordered oldest first"`
}

type changelogEntry struct {
	From         string `json:"from"`
	To           string `json:"to"`
	AddedCount   int    `json:"added_count"`
	DeletedCount int    `json:"deleted_count"`
	ChangedCount int    `json:"changed_count"`
	Error        string `json:"error,omitempty"`
}

type changelogOutput struct {
	Entries  []changelogEntry `json:"entries"`
	Skipped  int              `json:"skipped"`
	Markdown string           `json:"markdown"`
}

func handleChangelog(ctx context.Context, _ *mcp.CallToolRequest, input changelogInput) (*mcp.CallToolResult, changelogOutput, error) {
	if len(input.Versions) < 2 {
		return errResult(fmt.Errorf("at least 2 versions are required (got %d)", len(input.Versions))), changelogOutput{}, nil
	}
	if len(input.Versions) > cfg.MaxVersions {
		return errResult(fmt.Errorf("too many versions: %d exceeds maximum of %d; set OASCHANGELOG_MAX_VERSIONS to increase",
			len(input.Versions), cfg.MaxVersions)), changelogOutput{}, nil
	}

	versions := make([]changelog.Version, 0, len(input.Versions))
	for i, v := range input.Versions {
		label := v.Label
		if label == "" {
			label = "v" + strconv.Itoa(i+1)
		}
		result, err := v.spec().resolve(ctx)
		if err != nil {
			return errResult(fmt.Errorf("version %s: %w", label, err)), changelogOutput{}, nil
		}
		versions = append(versions, changelog.Version{Label: label, Document: result})
	}

	b := &changelog.Builder{
		Concurrency: cfg.ChangelogConcurrency,
		Logger:      parser.NewSlogAdapter(nil),
	}
	entries, err := b.Build(ctx, versions)
	if err != nil {
		return errResult(err), changelogOutput{}, nil
	}

	output := changelogOutput{
		Entries:  make([]changelogEntry, 0, len(entries)),
		Markdown: changelog.Render(entries),
	}
	for _, e := range entries {
		entry := changelogEntry{From: e.From, To: e.To}
		if e.Err != nil {
			entry.Error = sanitizeError(e.Err)
			output.Skipped++
		} else {
			entry.AddedCount = len(e.Result.AddedRoutes)
			entry.DeletedCount = len(e.Result.DeletedRoutes)
			entry.ChangedCount = len(e.Result.ChangedRoutes)
		}
		output.Entries = append(output.Entries, entry)
	}

	return nil, output, nil
}
