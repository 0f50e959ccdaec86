// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oaschangelog/internal/pathutil"
	"github.com/erraggy/oaschangelog/parser"
)

// Object is shorthand for a decoded JSON object in fixtures.
type Object = map[string]any

// NewDocument creates a minimal document with the given version and paths.
func NewDocument(version string, paths Object) Object {
	if paths == nil {
		paths = Object{}
	}
	return Object{
		"openapi": version,
		"info":    Object{"title": "Test API", "version": "1.0.0"},
		"paths":   paths,
	}
}

// NewSimpleDocument creates an OAS 3.0.3 document without paths.
func NewSimpleDocument() Object {
	return NewDocument("3.0.3", nil)
}

// Ref builds a reference object.
func Ref(pointer string) Object {
	return Object{"$ref": pointer}
}

// JSONContent builds a content map with a single application/json media type.
func JSONContent(schema any) Object {
	return Object{"application/json": Object{"schema": schema}}
}

// JSONResponse builds a response with an application/json body.
func JSONResponse(schema any) Object {
	return Object{"description": "ok", "content": JSONContent(schema)}
}

// Get builds a path item with a single get operation answering 200 with schema.
func Get(schema any) Object {
	return Object{"get": Object{"responses": Object{"200": JSONResponse(schema)}}}
}

// WithComponent registers a component under components/<kind>/<name>.
func WithComponent(doc Object, kind, name string, value any) Object {
	components, ok := doc["components"].(Object)
	if !ok {
		components = Object{}
		doc["components"] = components
	}
	group, ok := components[kind].(Object)
	if !ok {
		group = Object{}
		components[kind] = group
	}
	group[name] = value
	return doc
}

// NewPetstoreDocument creates an OAS 3.0.3 document that exercises parameters,
// request bodies, response headers and component references.
func NewPetstoreDocument() Object {
	doc := NewDocument("3.0.3", Object{
		"/pets": Object{
			"summary": "Pets",
			"get": Object{
				"operationId": "listPets",
				"parameters": []any{
					Ref(pathutil.ParameterRef("limit")),
					Object{"name": "X-Request-ID", "in": "header", "schema": Object{"type": "string"}},
				},
				"responses": Object{
					"200": Object{
						"description": "A page of pets",
						"headers": Object{
							"X-Next": Ref(pathutil.HeaderRef("X-Next")),
						},
						"content": JSONContent(Object{"type": "array", "items": Ref(pathutil.SchemaRef("Pet"))}),
					},
					"default": Ref(pathutil.ResponseRef("Error")),
				},
			},
			"post": Object{
				"operationId": "createPet",
				"requestBody": Ref(pathutil.RequestBodyRef("NewPet")),
				"responses": Object{
					"201": JSONResponse(Ref(pathutil.SchemaRef("Pet"))),
				},
			},
		},
		"/pets/{petId}": Object{
			"get": Object{
				"parameters": []any{
					Object{"name": "petId", "in": "path", "required": true, "schema": Object{"type": "integer"}},
				},
				"responses": Object{
					"200": JSONResponse(Ref(pathutil.SchemaRef("Pet"))),
				},
			},
			"delete": Object{
				"parameters": []any{
					Object{"name": "petId", "in": "path", "required": true, "schema": Object{"type": "integer"}},
				},
				"responses": Object{"204": Object{"description": "deleted"}},
			},
		},
	})
	WithComponent(doc, "schemas", "Pet", Object{
		"type":     "object",
		"required": []any{"id", "name"},
		"properties": Object{
			"id":    Object{"type": "integer", "format": "int64"},
			"name":  Object{"type": "string"},
			"owner": Ref(pathutil.SchemaRef("Owner")),
		},
	})
	WithComponent(doc, "schemas", "Owner", Object{
		"type": "object",
		"properties": Object{
			"name": Object{"type": "string"},
			"pets": Object{"type": "array", "items": Ref(pathutil.SchemaRef("Pet"))},
		},
	})
	WithComponent(doc, "schemas", "Error", Object{
		"type":       "object",
		"properties": Object{"message": Object{"type": "string"}},
	})
	WithComponent(doc, "parameters", "limit", Object{
		"name": "limit", "in": "query", "schema": Object{"type": "integer", "maximum": 100},
	})
	WithComponent(doc, "headers", "X-Next", Object{"schema": Object{"type": "string"}})
	WithComponent(doc, "requestBodies", "NewPet", Object{
		"required": true,
		"content":  JSONContent(Ref(pathutil.SchemaRef("Pet"))),
	})
	WithComponent(doc, "responses", "Error", JSONResponse(Ref(pathutil.SchemaRef("Error"))))
	return doc
}

// DeepCopy returns a structurally independent copy of a fixture.
func DeepCopy(t *testing.T, v Object) Object {
	t.Helper()

	out, err := parser.Normalize(v)
	if err != nil {
		t.Fatalf("Failed to copy document: %v", err)
	}
	return out.(Object)
}

// WriteTempYAML marshals a document to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary YAML file: %v", err)
	}

	return tmpFile
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary JSON file: %v", err)
	}

	return tmpFile
}

// WriteMemJSON marshals a document to JSON and stores it in fs at path.
func WriteMemJSON(t *testing.T, fs afero.Fs, path string, doc any) {
	t.Helper()

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
