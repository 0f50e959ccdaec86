package differ

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oaschangelog/internal/testutil"
	"github.com/erraggy/oaschangelog/oaserrors"
	"github.com/erraggy/oaschangelog/parser"
)

func newTestComparison(t *testing.T, source, target map[string]any) *comparison {
	t.Helper()

	src, err := parser.NewDocument(source, oaserrors.SideSource)
	require.NoError(t, err)
	tgt, err := parser.NewDocument(target, oaserrors.SideTarget)
	require.NoError(t, err)
	return &comparison{
		source: src,
		target: tgt,
		memo:   make(map[string]*memoEntry),
		scoped: make(map[int][]string),
		log:    parser.NopLogger{},
	}
}

// schemaDocs builds a source and target document whose only difference is
// the component schemas.
func schemaDocs(source, target map[string]any) (map[string]any, map[string]any) {
	src := testutil.NewSimpleDocument()
	tgt := testutil.NewSimpleDocument()
	for name, schema := range source {
		testutil.WithComponent(src, "schemas", name, schema)
	}
	for name, schema := range target {
		testutil.WithComponent(tgt, "schemas", name, schema)
	}
	return src, tgt
}

func TestDiffSchemas(t *testing.T) {
	tests := []struct {
		name   string
		source any
		target any
		want   []SchemaChange
	}{
		{
			name:   "equal",
			source: map[string]any{"type": "string", "enum": []any{"a", "b"}},
			target: map[string]any{"type": "string", "enum": []any{"a", "b"}},
		},
		{
			name:   "both absent",
			source: nil,
			target: nil,
		},
		{
			name:   "changed leaf",
			source: map[string]any{"type": "integer"},
			target: map[string]any{"type": "string"},
			want:   []SchemaChange{{JSONPath: "#/type", Source: "integer", Target: "string", Action: ActionChanged}},
		},
		{
			name:   "added key",
			source: map[string]any{},
			target: map[string]any{"format": "uuid"},
			want:   []SchemaChange{{JSONPath: "#/format", Target: "uuid", Action: ActionAdded}},
		},
		{
			name:   "deleted key",
			source: map[string]any{"format": "uuid"},
			target: map[string]any{},
			want:   []SchemaChange{{JSONPath: "#/format", Source: "uuid", Action: ActionDeleted}},
		},
		{
			name:   "null is not absent",
			source: map[string]any{"default": nil},
			target: map[string]any{},
			want:   []SchemaChange{{JSONPath: "#/default", Source: nil, Action: ActionDeleted}},
		},
		{
			name:   "null to value",
			source: map[string]any{"default": nil},
			target: map[string]any{"default": "x"},
			want:   []SchemaChange{{JSONPath: "#/default", Source: nil, Target: "x", Action: ActionChanged}},
		},
		{
			name:   "nested property",
			source: map[string]any{"properties": map[string]any{"id": map[string]any{"type": "integer"}}},
			target: map[string]any{"properties": map[string]any{"id": map[string]any{"type": "string"}}},
			want:   []SchemaChange{{JSONPath: "#/properties/id/type", Source: "integer", Target: "string", Action: ActionChanged}},
		},
		{
			name:   "escaped segment",
			source: map[string]any{"properties": map[string]any{"a/b": map[string]any{"type": "integer"}}},
			target: map[string]any{"properties": map[string]any{"a/b": map[string]any{"type": "string"}}},
			want:   []SchemaChange{{JSONPath: "#/properties/a~1b/type", Source: "integer", Target: "string", Action: ActionChanged}},
		},
		{
			name:   "array element changed",
			source: map[string]any{"enum": []any{"a", "b"}},
			target: map[string]any{"enum": []any{"a", "c"}},
			want:   []SchemaChange{{JSONPath: "#/enum/1", Source: "b", Target: "c", Action: ActionChanged}},
		},
		{
			name:   "array grew",
			source: map[string]any{"enum": []any{"a"}},
			target: map[string]any{"enum": []any{"a", "b"}},
			want:   []SchemaChange{{JSONPath: "#/enum/1", Target: "b", Action: ActionAdded}},
		},
		{
			name:   "array shrank",
			source: map[string]any{"required": []any{"id", "name"}},
			target: map[string]any{"required": []any{"id"}},
			want:   []SchemaChange{{JSONPath: "#/required/1", Source: "name", Action: ActionDeleted}},
		},
		{
			name:   "numbers compare by value",
			source: map[string]any{"maximum": 10},
			target: map[string]any{"maximum": float64(10)},
		},
		{
			name:   "number and string differ",
			source: map[string]any{"maximum": 10},
			target: map[string]any{"maximum": "10"},
			want:   []SchemaChange{{JSONPath: "#/maximum", Source: 10, Target: "10", Action: ActionChanged}},
		},
		{
			name:   "object replaced by scalar",
			source: map[string]any{"items": map[string]any{"type": "string"}},
			target: map[string]any{"items": true},
			want: []SchemaChange{{
				JSONPath: "#/items",
				Source:   map[string]any{"type": "string"},
				Target:   true,
				Action:   ActionChanged,
			}},
		},
		{
			name:   "root changed",
			source: map[string]any{"type": "string"},
			target: true,
			want:   []SchemaChange{{JSONPath: "#", Source: map[string]any{"type": "string"}, Target: true, Action: ActionChanged}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestComparison(t, testutil.NewSimpleDocument(), testutil.NewSimpleDocument())
			got, err := c.diffSchemas(tt.source, tt.target, "#/s", "#/s")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiffSchemasRefs(t *testing.T) {
	t.Run("same reference compares targets", func(t *testing.T) {
		src, tgt := schemaDocs(
			map[string]any{"Bar": map[string]any{"properties": map[string]any{"bar": map[string]any{"type": "integer"}}}},
			map[string]any{"Bar": map[string]any{"properties": map[string]any{"bar": map[string]any{"type": "string"}}}},
		)
		c := newTestComparison(t, src, tgt)

		got, err := c.diffSchemas(testutil.Ref("#/components/schemas/Bar"), testutil.Ref("#/components/schemas/Bar"), "#/s", "#/s")
		require.NoError(t, err)
		assert.Equal(t, []SchemaChange{
			{JSONPath: "#/properties/bar/type", Source: "integer", Target: "string", Action: ActionChanged},
		}, got)
	})

	t.Run("different references are a single change", func(t *testing.T) {
		src, tgt := schemaDocs(
			map[string]any{"Bar1": map[string]any{"type": "integer"}},
			map[string]any{"Bar2": map[string]any{"type": "string"}},
		)
		c := newTestComparison(t, src, tgt)

		got, err := c.diffSchemas(
			map[string]any{"items": testutil.Ref("#/components/schemas/Bar1")},
			map[string]any{"items": testutil.Ref("#/components/schemas/Bar2")},
			"#/s", "#/s",
		)
		require.NoError(t, err)
		assert.Equal(t, []SchemaChange{{
			JSONPath: "#/items/$ref",
			Source:   "#/components/schemas/Bar1",
			Target:   "#/components/schemas/Bar2",
			Action:   ActionChanged,
		}}, got)
	})

	t.Run("reference against inline schema", func(t *testing.T) {
		src, tgt := schemaDocs(map[string]any{"Bar": map[string]any{"type": "integer"}}, nil)
		c := newTestComparison(t, src, tgt)

		got, err := c.diffSchemas(testutil.Ref("#/components/schemas/Bar"), map[string]any{"type": "integer"}, "#/s", "#/s")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = c.diffSchemas(testutil.Ref("#/components/schemas/Bar"), map[string]any{"type": "number"}, "#/t", "#/t")
		require.NoError(t, err)
		assert.Equal(t, []SchemaChange{{JSONPath: "#/type", Source: "integer", Target: "number", Action: ActionChanged}}, got)
	})

	t.Run("reference chain is followed", func(t *testing.T) {
		src, tgt := schemaDocs(
			map[string]any{
				"Alias": testutil.Ref("#/components/schemas/Bar"),
				"Bar":   map[string]any{"type": "integer"},
			},
			map[string]any{
				"Alias": testutil.Ref("#/components/schemas/Bar"),
				"Bar":   map[string]any{"type": "string"},
			},
		)
		c := newTestComparison(t, src, tgt)

		got, err := c.diffSchemas(testutil.Ref("#/components/schemas/Alias"), testutil.Ref("#/components/schemas/Alias"), "#/s", "#/s")
		require.NoError(t, err)
		assert.Equal(t, []SchemaChange{{JSONPath: "#/type", Source: "integer", Target: "string", Action: ActionChanged}}, got)
	})

	t.Run("reference chain loop", func(t *testing.T) {
		loop := map[string]any{
			"A": testutil.Ref("#/components/schemas/B"),
			"B": testutil.Ref("#/components/schemas/A"),
		}
		src, tgt := schemaDocs(loop, testutil.DeepCopy(t, loop))
		c := newTestComparison(t, src, tgt)

		_, err := c.diffSchemas(testutil.Ref("#/components/schemas/A"), testutil.Ref("#/components/schemas/A"), "#/s", "#/s")
		require.ErrorIs(t, err, oaserrors.ErrReference)
		assert.Contains(t, err.Error(), "reference chain loops back on itself")
	})

	t.Run("unresolvable reference", func(t *testing.T) {
		c := newTestComparison(t, testutil.NewSimpleDocument(), testutil.NewSimpleDocument())

		_, err := c.diffSchemas(testutil.Ref("#/components/schemas/Missing"), testutil.Ref("#/components/schemas/Missing"), "#/s", "#/s")
		assert.ErrorIs(t, err, oaserrors.ErrReference)
	})

	t.Run("siblings of a reference are ignored", func(t *testing.T) {
		src, tgt := schemaDocs(
			map[string]any{"Bar": map[string]any{"type": "integer"}},
			map[string]any{"Bar": map[string]any{"type": "integer"}},
		)
		c := newTestComparison(t, src, tgt)

		got, err := c.diffSchemas(
			map[string]any{"$ref": "#/components/schemas/Bar", "description": "old"},
			map[string]any{"$ref": "#/components/schemas/Bar", "description": "new"},
			"#/s", "#/s",
		)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

// ring builds the schemas S0..S{n-1} where S{i} refers to S{i+1} (and the
// last one back to S0) through both of its properties a and b.
func ring(n int, valueType string) map[string]any {
	schemas := make(map[string]any, n)
	for i := range n {
		next := testutil.Ref(fmt.Sprintf("#/components/schemas/S%d", (i+1)%n))
		schemas[fmt.Sprintf("S%d", i)] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": next,
				"b": next,
				"v": map[string]any{"type": valueType},
			},
		}
	}
	return schemas
}

// withinTimeout fails the test when fn does not return within d.
func withinTimeout(t *testing.T, d time.Duration, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("did not finish within %s", d)
	}
}

func TestDiffSchemasWideRing(t *testing.T) {
	src, tgt := schemaDocs(ring(64, "integer"), ring(64, "integer"))
	c := newTestComparison(t, src, tgt)

	var got []SchemaChange
	var err error
	withinTimeout(t, 5*time.Second, func() {
		got, err = c.diffSchemas(testutil.Ref("#/components/schemas/S0"), testutil.Ref("#/components/schemas/S0"), "#/s", "#/s")
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, c.scoped, "cut results must not outlive the comparison that cut them")
}

func TestDiffSchemasWideRingChanged(t *testing.T) {
	const n = 8
	src, tgt := schemaDocs(ring(n, "integer"), ring(n, "string"))
	c := newTestComparison(t, src, tgt)

	got, err := c.diffSchemas(testutil.Ref("#/components/schemas/S0"), testutil.Ref("#/components/schemas/S0"), "#/s", "#/s")
	require.NoError(t, err)

	// Every schema of the ring is reached once per a/b path that does not
	// loop back to S0.
	require.Len(t, got, 1<<n-1)
	paths := make(map[string]bool, len(got))
	for _, ch := range got {
		assert.Equal(t, "integer", ch.Source)
		assert.Equal(t, "string", ch.Target)
		paths[ch.JSONPath] = true
	}
	assert.True(t, paths["#/properties/v/type"])
	assert.True(t, paths["#/properties/a/properties/b/properties/v/type"])
	deepest := "#" + strings.Repeat("/properties/b", n-1) + "/properties/v/type"
	assert.True(t, paths[deepest])
	assert.Empty(t, c.scoped)
}

func TestDiffSchemasCutResultsDropped(t *testing.T) {
	src, tgt := schemaDocs(crossCycle("integer"), crossCycle("integer"))
	c := newTestComparison(t, src, tgt)

	_, err := c.diffSchemas(testutil.Ref("#/components/schemas/Bar1"), testutil.Ref("#/components/schemas/Bar1"), "#/s", "#/s")
	require.NoError(t, err)

	// Bar2 was cut by Bar1 and is forgotten once Bar1 is done; Bar1 only
	// loops back to itself and stays cached.
	assert.Contains(t, c.memo, "#/components/schemas/Bar1")
	assert.NotContains(t, c.memo, "#/components/schemas/Bar2")
	assert.Empty(t, c.scoped)
}

func selfCycle(barType string) map[string]any {
	return map[string]any{
		"Bar": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"bar":  map[string]any{"type": barType},
				"self": testutil.Ref("#/components/schemas/Bar"),
			},
		},
	}
}

func crossCycle(bar1Type string) map[string]any {
	return map[string]any{
		"Bar1": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"self": testutil.Ref("#/components/schemas/Bar2"),
				"bar":  map[string]any{"type": bar1Type},
			},
		},
		"Bar2": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"self": testutil.Ref("#/components/schemas/Bar1"),
				"bar":  map[string]any{"type": "integer"},
			},
		},
	}
}

func TestDiffSchemasCycles(t *testing.T) {
	barChanged := []SchemaChange{{JSONPath: "#/properties/bar/type", Source: "integer", Target: "string", Action: ActionChanged}}

	tests := []struct {
		name   string
		source map[string]any
		target map[string]any
		ref    string
		want   []SchemaChange
	}{
		{"self cycle equal", selfCycle("integer"), selfCycle("integer"), "#/components/schemas/Bar", nil},
		{"self cycle changed", selfCycle("integer"), selfCycle("string"), "#/components/schemas/Bar", barChanged},
		{"cross cycle equal", crossCycle("integer"), crossCycle("integer"), "#/components/schemas/Bar1", nil},
		{"cross cycle changed", crossCycle("integer"), crossCycle("string"), "#/components/schemas/Bar1", barChanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, tgt := schemaDocs(tt.source, tt.target)
			c := newTestComparison(t, src, tgt)

			got, err := c.diffSchemas(testutil.Ref(tt.ref), testutil.Ref(tt.ref), "#/s", "#/s")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiffSchemasCycleEnteredMidway(t *testing.T) {
	// Entering the cycle at Bar2 first must not leave an incomplete result
	// for Bar1 behind in the memo.
	src, tgt := schemaDocs(crossCycle("integer"), crossCycle("string"))
	c := newTestComparison(t, src, tgt)

	got, err := c.diffSchemas(testutil.Ref("#/components/schemas/Bar2"), testutil.Ref("#/components/schemas/Bar2"), "#/a", "#/a")
	require.NoError(t, err)
	assert.Equal(t, []SchemaChange{
		{JSONPath: "#/properties/self/properties/bar/type", Source: "integer", Target: "string", Action: ActionChanged},
	}, got)

	got, err = c.diffSchemas(testutil.Ref("#/components/schemas/Bar1"), testutil.Ref("#/components/schemas/Bar1"), "#/b", "#/b")
	require.NoError(t, err)
	assert.Equal(t, []SchemaChange{
		{JSONPath: "#/properties/bar/type", Source: "integer", Target: "string", Action: ActionChanged},
	}, got)
}

func TestDiffSchemasMemo(t *testing.T) {
	src, tgt := schemaDocs(
		map[string]any{"Bar": map[string]any{"type": "integer"}},
		map[string]any{"Bar": map[string]any{"type": "string"}},
	)
	c := newTestComparison(t, src, tgt)

	first, err := c.diffSchemas(testutil.Ref("#/components/schemas/Bar"), testutil.Ref("#/components/schemas/Bar"), "#/a", "#/a")
	require.NoError(t, err)
	require.Contains(t, c.memo, "#/components/schemas/Bar")
	assert.False(t, c.memo["#/components/schemas/Bar"].inProgress)

	second, err := c.diffSchemas(
		map[string]any{"items": testutil.Ref("#/components/schemas/Bar")},
		map[string]any{"items": testutil.Ref("#/components/schemas/Bar")},
		"#/b", "#/b",
	)
	require.NoError(t, err)
	assert.Equal(t, []SchemaChange{{JSONPath: "#/type", Source: "integer", Target: "string", Action: ActionChanged}}, first)
	assert.Equal(t, []SchemaChange{{JSONPath: "#/items/type", Source: "integer", Target: "string", Action: ActionChanged}}, second)

	// Prefixing a reused result must not rewrite the cached changes.
	assert.Equal(t, "/type", c.memo["#/components/schemas/Bar"].changes[0].JSONPath)
}

func TestDedupeChanges(t *testing.T) {
	got := dedupeChanges([]SchemaChange{
		{JSONPath: "/type", Source: "integer", Target: "string", Action: ActionChanged},
		{JSONPath: "/type", Source: "integer", Target: "string", Action: ActionChanged},
		{JSONPath: "/type", Source: "integer", Target: "number", Action: ActionChanged},
		{JSONPath: "/enum", Source: []any{"a"}, Target: []any{"b"}, Action: ActionChanged},
		{JSONPath: "/enum", Source: []any{"a"}, Target: []any{"b"}, Action: ActionChanged},
	})

	assert.Equal(t, []SchemaChange{
		{JSONPath: "#/type", Source: "integer", Target: "string", Action: ActionChanged},
		{JSONPath: "#/type", Source: "integer", Target: "number", Action: ActionChanged},
		{JSONPath: "#/enum", Source: []any{"a"}, Target: []any{"b"}, Action: ActionChanged},
	}, got)
	assert.Nil(t, dedupeChanges(nil))
}

func TestScalarEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal strings", "a", "a", true},
		{"different strings", "a", "b", false},
		{"int and float", 1, 1.0, true},
		{"int64 and uint8", int64(7), uint8(7), true},
		{"different numbers", 1, 1.5, false},
		{"number and bool", 1, true, false},
		{"nil and nil", nil, nil, true},
		{"nil and false", nil, false, false},
		{"uncomparable", []any{1}, []any{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scalarEqual(tt.a, tt.b))
		})
	}
}
