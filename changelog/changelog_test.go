package changelog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/erraggy/oaschangelog/differ"
	"github.com/erraggy/oaschangelog/internal/testutil"
	"github.com/erraggy/oaschangelog/oaserrors"
	"github.com/erraggy/oaschangelog/parser"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type object = map[string]any

func op() object {
	return object{"responses": object{"200": testutil.JSONResponse(object{"type": "string"})}}
}

// versions returns three revisions of a small API:
// v2 adds POST /pets and changes GET /pets, v3 deletes DELETE /pets/{id}.
func versions() []Version {
	v1 := testutil.NewDocument("3.0.3", object{
		"/pets":      object{"get": op()},
		"/pets/{id}": object{"delete": op()},
	})
	changed := op()
	changed["responses"].(object)["200"] = testutil.JSONResponse(object{"type": "integer"})
	v2 := testutil.NewDocument("3.0.3", object{
		"/pets":      object{"get": changed, "post": op()},
		"/pets/{id}": object{"delete": op()},
	})
	v3 := testutil.NewDocument("3.0.3", object{
		"/pets": object{"get": changed, "post": op()},
	})
	return []Version{{"v1", v1}, {"v2", v2}, {"v3", v3}}
}

func TestBuild(t *testing.T) {
	entries, err := New().Build(context.Background(), versions())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "v1", entries[0].From)
	assert.Equal(t, "v2", entries[0].To)
	require.NoError(t, entries[0].Err)
	assert.Len(t, entries[0].Result.AddedRoutes, 1)
	assert.Len(t, entries[0].Result.ChangedRoutes, 1)

	assert.Equal(t, "v2", entries[1].From)
	assert.Equal(t, "v3", entries[1].To)
	require.NoError(t, entries[1].Err)
	assert.Len(t, entries[1].Result.DeletedRoutes, 1)
}

func TestBuildTooFewVersions(t *testing.T) {
	for _, vs := range [][]Version{nil, versions()[:1]} {
		entries, err := New().Build(context.Background(), vs)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestBuildSkipsFailedPairs(t *testing.T) {
	var buf bytes.Buffer
	logger := parser.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	vs := versions()
	vs[1].Document = testutil.NewDocument("2.0", nil)

	b := &Builder{Concurrency: 1, Logger: logger}
	entries, err := b.Build(context.Background(), vs)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.ErrorIs(t, e.Err, oaserrors.ErrVersionMismatch)
		assert.Nil(t, e.Result)
	}
	assert.Contains(t, buf.String(), "skipping version pair")
	assert.Contains(t, buf.String(), "from=v1 to=v2")
	assert.Equal(t, "# Changelog\n", Render(entries))
}

func TestBuildConcurrency(t *testing.T) {
	var vs []Version
	for range 5 {
		vs = append(vs, versions()...)
	}

	sequential, err := (&Builder{Concurrency: 1}).Build(context.Background(), vs)
	require.NoError(t, err)
	parallel, err := (&Builder{Concurrency: 8, Differ: differ.New()}).Build(context.Background(), vs)
	require.NoError(t, err)

	assert.Len(t, parallel, len(vs)-1)
	assert.Equal(t, sequential, parallel)
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Build(ctx, versions())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
