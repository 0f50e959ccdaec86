package mcpserver

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oaschangelog/differ"
)

type diffInput struct {
	Source         specInput `json:"source"                    jsonschema:"The older OAS document"`
	Target         specInput `json:"target"                    jsonschema:"The newer OAS document to compare against the source"`
	Detail         bool      `json:"detail,omitempty"          jsonschema:"Include the full change records (identity fields, schemas and keyword changes)"`
	ResolveSchemas bool      `json:"resolve_schemas,omitempty" jsonschema:"Inline the $refs of schemas in detailed change records"`
	Offset         int       `json:"offset,omitempty"          jsonschema:"Skip the first N changed routes"`
	Limit          int       `json:"limit,omitempty"           jsonschema:"Maximum number of changed routes to return"`
}

type routeSummary struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type diffChange struct {
	Type    string         `json:"type"`
	Action  string         `json:"action"`
	Message string         `json:"message"`
	Record  map[string]any `json:"record,omitempty"`
}

type changedRoute struct {
	Method  string       `json:"method"`
	Path    string       `json:"path"`
	Changes []diffChange `json:"changes"`
}

type diffOutput struct {
	IsEqual       bool           `json:"is_equal"`
	TotalRoutes   int            `json:"total_routes"`
	SameCount     int            `json:"same_count"`
	AddedCount    int            `json:"added_count"`
	DeletedCount  int            `json:"deleted_count"`
	ChangedCount  int            `json:"changed_count"`
	Added         []routeSummary `json:"added,omitempty"`
	Deleted       []routeSummary `json:"deleted,omitempty"`
	Changed       []changedRoute `json:"changed,omitempty"`
	ReturnedCount int            `json:"returned_count"`
	Summary       string         `json:"summary"`
}

func handleDiff(ctx context.Context, _ *mcp.CallToolRequest, input diffInput) (*mcp.CallToolResult, diffOutput, error) {
	sourceResult, err := input.Source.resolve(ctx)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}
	targetResult, err := input.Target.resolve(ctx)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	result, err := differ.DiffWithOptions(
		differ.WithSource(sourceResult),
		differ.WithTarget(targetResult),
		differ.WithResolveSchemas(input.Detail && input.ResolveSchemas),
	)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	output := diffOutput{
		IsEqual:      result.IsEqual,
		TotalRoutes:  result.TotalRoutes(),
		SameCount:    len(result.SameRoutes),
		AddedCount:   len(result.AddedRoutes),
		DeletedCount: len(result.DeletedRoutes),
		ChangedCount: len(result.ChangedRoutes),
		Added:        summarizeRoutes(result.AddedRoutes),
		Deleted:      summarizeRoutes(result.DeletedRoutes),
	}

	page := paginate(result.ChangedRoutes, input.Offset, input.Limit)
	output.Changed = makeSlice[changedRoute](len(page))
	for _, route := range page {
		changed := changedRoute{
			Method:  route.Method,
			Path:    route.Path,
			Changes: make([]diffChange, 0, len(route.Changes)),
		}
		for _, c := range route.Changes {
			dc := diffChange{
				Type:    string(c.Type()),
				Action:  string(c.Action()),
				Message: c.Message(),
			}
			if input.Detail {
				record, err := changeRecord(c)
				if err != nil {
					return errResult(err), diffOutput{}, nil
				}
				dc.Record = record
			}
			changed.Changes = append(changed.Changes, dc)
		}
		output.Changed = append(output.Changed, changed)
	}

	output.ReturnedCount = len(output.Changed)
	output.Summary = buildDiffSummary(output)

	return nil, output, nil
}

func summarizeRoutes(routes []differ.Route) []routeSummary {
	out := makeSlice[routeSummary](len(routes))
	for _, r := range routes {
		out = append(out, routeSummary{Method: r.Method, Path: r.Path})
	}
	return out
}

// changeRecord turns a change into its serialized JSON object form.
func changeRecord(c differ.Change) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func buildDiffSummary(output diffOutput) string {
	if output.IsEqual {
		return "No route changes detected across " + formatCount(output.TotalRoutes, "route") + "."
	}

	var parts []string
	if output.AddedCount > 0 {
		parts = append(parts, formatCount(output.AddedCount, "route")+" added")
	}
	if output.DeletedCount > 0 {
		parts = append(parts, formatCount(output.DeletedCount, "route")+" deleted")
	}
	if output.ChangedCount > 0 {
		parts = append(parts, formatCount(output.ChangedCount, "route")+" changed")
	}
	summary := strings.Join(parts, ", ") + "."
	if output.ReturnedCount < output.ChangedCount {
		summary += " Showing " + strconv.Itoa(output.ReturnedCount) + " of " + strconv.Itoa(output.ChangedCount) + " changed routes."
	}
	return summary
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
