package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefBuilders(t *testing.T) {
	assert.Equal(t, "#/components/schemas/Pet", SchemaRef("Pet"))
	assert.Equal(t, "#/components/parameters/limit", ParameterRef("limit"))
	assert.Equal(t, "#/components/responses/NotFound", ResponseRef("NotFound"))
	assert.Equal(t, "#/components/requestBodies/PetBody", RequestBodyRef("PetBody"))
	assert.Equal(t, "#/components/headers/X-Rate-Limit", HeaderRef("X-Rate-Limit"))
	assert.Equal(t, "#/components/schemas/a~1b", SchemaRef("a/b"))
}

func TestPointerAndAppend(t *testing.T) {
	assert.Equal(t, "#", Pointer())
	assert.Equal(t, "#/paths/~1foo/get", Pointer("paths", "/foo", "get"))
	assert.Equal(t, "#/paths/~1foo/get/responses/200", Append("#/paths/~1foo/get", "responses", "200"))
	assert.Equal(t, "#/x", Append("#/x"))
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		tokens []string
		ok     bool
	}{
		{"root", "#", []string{}, true},
		{"component", "#/components/schemas/Bar", []string{"components", "schemas", "Bar"}, true},
		{"escaped", "#/paths/~1foo~1{id}/a~0b", []string{"paths", "/foo/{id}", "a~b"}, true},
		{"external file", "other.yaml#/components/schemas/Bar", nil, false},
		{"url", "https://example.com/api.yaml", nil, false},
		{"missing slash", "#components", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, ok := Tokens(tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.tokens, tokens)
		})
	}
}

func TestTokensRoundTrip(t *testing.T) {
	segments := []string{"paths", "/users/{id}", "get", "x~y"}
	tokens, ok := Tokens(Pointer(segments...))
	assert.True(t, ok)
	assert.Equal(t, segments, tokens)
}
