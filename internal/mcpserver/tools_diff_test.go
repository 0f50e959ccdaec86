package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oaschangelog/internal/testutil"
)

const diffBaseSpec = `openapi: "3.0.0"
info:
  title: Test API
  version: "1.0.0"
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: OK
`

const diffRevisedSpec = `openapi: "3.0.0"
info:
  title: Test API
  version: "2.0.0"
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: OK
    post:
      operationId: createPet
      responses:
        "201":
          description: Created
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: OK
`

const diffRemovedSpec = `openapi: "3.1.0"
info:
  title: Test API
  version: "2.0.0"
paths: {}
`

// jsonContent serializes a fixture document for inline content input.
func jsonContent(t *testing.T, doc any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

// renamedPetstore returns the petstore fixture with Pet.name turned into an integer.
func renamedPetstore(t *testing.T) testutil.Object {
	t.Helper()
	doc := testutil.DeepCopy(t, testutil.NewPetstoreDocument())
	pet := doc["components"].(testutil.Object)["schemas"].(testutil.Object)["Pet"].(testutil.Object)
	pet["properties"].(testutil.Object)["name"] = testutil.Object{"type": "integer"}
	return doc
}

func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestDiffTool_DetectsAddedRoutes(t *testing.T) {
	input := diffInput{
		Source: specInput{Content: diffBaseSpec},
		Target: specInput{Content: diffRevisedSpec},
	}
	result, output, err := handleDiff(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Nil(t, result)

	assert.False(t, output.IsEqual)
	assert.Equal(t, 3, output.TotalRoutes)
	assert.Equal(t, 1, output.SameCount)
	assert.Equal(t, 2, output.AddedCount)
	assert.Equal(t, 0, output.DeletedCount)
	assert.Equal(t, 0, output.ChangedCount)
	assert.Equal(t, []routeSummary{
		{Method: "post", Path: "/pets"},
		{Method: "get", Path: "/pets/{petId}"},
	}, output.Added)
	assert.Nil(t, output.Deleted)
	assert.Nil(t, output.Changed)
	assert.Equal(t, "2 routes added.", output.Summary)
}

func TestDiffTool_DeletedRoutesAcrossMinorVersions(t *testing.T) {
	input := diffInput{
		Source: specInput{Content: diffRevisedSpec},
		Target: specInput{Content: diffRemovedSpec},
	}
	_, output, err := handleDiff(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, 0, output.TotalRoutes)
	assert.Equal(t, 3, output.DeletedCount)
	assert.Len(t, output.Deleted, 3)
	assert.Equal(t, "3 routes deleted.", output.Summary)
}

func TestDiffTool_NoChanges(t *testing.T) {
	input := diffInput{
		Source: specInput{Content: diffBaseSpec},
		Target: specInput{Content: diffBaseSpec},
	}
	_, output, err := handleDiff(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.True(t, output.IsEqual)
	assert.Equal(t, 1, output.SameCount)
	assert.Equal(t, "No route changes detected across 1 route.", output.Summary)
}

func TestDiffTool_ChangedRoutes(t *testing.T) {
	input := diffInput{
		Source: specInput{Content: jsonContent(t, testutil.NewPetstoreDocument())},
		Target: specInput{Content: jsonContent(t, renamedPetstore(t))},
	}
	_, output, err := handleDiff(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, 3, output.ChangedCount)
	assert.Equal(t, 1, output.SameCount)
	require.Len(t, output.Changed, 3)
	assert.Equal(t, 3, output.ReturnedCount)

	first := output.Changed[0]
	assert.Equal(t, "get", first.Method)
	assert.Equal(t, "/pets", first.Path)
	require.Len(t, first.Changes, 1)
	assert.Equal(t, "responseBody", first.Changes[0].Type)
	assert.Equal(t, "changed", first.Changes[0].Action)
	assert.Contains(t, first.Changes[0].Message, `GET "/pets" route`)
	assert.Nil(t, first.Changes[0].Record, "records are only included with detail")

	assert.Equal(t, "3 routes changed.", output.Summary)
}

func TestDiffTool_Detail(t *testing.T) {
	input := diffInput{
		Source: specInput{Content: jsonContent(t, testutil.NewPetstoreDocument())},
		Target: specInput{Content: jsonContent(t, renamedPetstore(t))},
		Detail: true,
	}
	_, output, err := handleDiff(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotEmpty(t, output.Changed)

	record := output.Changed[0].Changes[0].Record
	require.NotNil(t, record)
	assert.Equal(t, "responseBody", record["type"])
	assert.Equal(t, "changed", record["action"])
	assert.Equal(t, "200", record["statusCode"])
	assert.Equal(t, "application/json", record["mediaType"])

	// targetSchema is the media type object; without resolve_schemas its
	// schema keeps the $ref of the array items.
	target, ok := record["targetSchema"].(map[string]any)
	require.True(t, ok)
	schema, ok := target["schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", schema["type"])
	items, ok := schema["items"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "#/components/schemas/Pet", items["$ref"])
}

func TestDiffTool_DetailResolveSchemas(t *testing.T) {
	input := diffInput{
		Source:         specInput{Content: jsonContent(t, testutil.NewPetstoreDocument())},
		Target:         specInput{Content: jsonContent(t, renamedPetstore(t))},
		Detail:         true,
		ResolveSchemas: true,
	}
	_, output, err := handleDiff(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotEmpty(t, output.Changed)

	record := output.Changed[0].Changes[0].Record
	target, ok := record["targetSchema"].(map[string]any)
	require.True(t, ok)
	schema, ok := target["schema"].(map[string]any)
	require.True(t, ok)
	items, ok := schema["items"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, items, "$ref")
	props, ok := items["properties"].(map[string]any)
	require.True(t, ok)
	name, ok := props["name"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", name["type"])
}

func TestDiffTool_Pagination(t *testing.T) {
	input := diffInput{
		Source: specInput{Content: jsonContent(t, testutil.NewPetstoreDocument())},
		Target: specInput{Content: jsonContent(t, renamedPetstore(t))},
		Offset: 1,
		Limit:  1,
	}
	_, output, err := handleDiff(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, 3, output.ChangedCount)
	require.Len(t, output.Changed, 1)
	assert.Equal(t, "post", output.Changed[0].Method)
	assert.Equal(t, 1, output.ReturnedCount)
	assert.Equal(t, "3 routes changed. Showing 1 of 3 changed routes.", output.Summary)
}

func TestDiffTool_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   diffInput
		wantErr string
	}{
		{
			name:    "missing source",
			input:   diffInput{Target: specInput{Content: diffBaseSpec}},
			wantErr: "exactly one of file, url, or content must be provided",
		},
		{
			name: "missing target",
			input: diffInput{
				Source: specInput{Content: diffBaseSpec},
			},
			wantErr: "exactly one of file, url, or content must be provided",
		},
		{
			name: "source not an object",
			input: diffInput{
				Source: specInput{Content: "- just\n- a list\n"},
				Target: specInput{Content: diffBaseSpec},
			},
			wantErr: "source schema must be an object",
		},
		{
			name: "major version mismatch",
			input: diffInput{
				Source: specInput{Content: diffBaseSpec},
				Target: specInput{Content: `{"swagger": "2.0", "openapi": "2.0", "paths": {}}`},
			},
			wantErr: "source and target schemas must have the same major version",
		},
		{
			name: "unresolvable reference",
			input: diffInput{
				Source: specInput{Content: jsonContent(t, testutil.NewDocument("3.0.3", testutil.Object{
					"/pets": testutil.Get(testutil.Ref("#/components/schemas/Missing")),
				}))},
				Target: specInput{Content: jsonContent(t, testutil.NewDocument("3.0.3", testutil.Object{
					"/pets": testutil.Get(testutil.Object{"type": "string"}),
				}))},
			},
			wantErr: "invalid ref: #/components/schemas/Missing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, output, err := handleDiff(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			assert.Contains(t, errorText(t, result), tt.wantErr)
			assert.Equal(t, diffOutput{}, output)
		})
	}
}

func TestBuildDiffSummary(t *testing.T) {
	tests := []struct {
		name   string
		output diffOutput
		want   string
	}{
		{"equal", diffOutput{IsEqual: true, TotalRoutes: 4}, "No route changes detected across 4 routes."},
		{"single added", diffOutput{AddedCount: 1}, "1 route added."},
		{
			"mixed",
			diffOutput{AddedCount: 2, DeletedCount: 1, ChangedCount: 3, ReturnedCount: 3},
			"2 routes added, 1 route deleted, 3 routes changed.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDiffSummary(tt.output))
		})
	}
}
