package changelog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oaschangelog/differ"
	"github.com/erraggy/oaschangelog/parser"
)

// DefaultConcurrency is the number of version pairs compared at once when
// Builder.Concurrency is not set.
const DefaultConcurrency = 4

// Version is one revision of a document.
type Version struct {
	// Label names the version in the changelog, e.g. a tag or a date
	Label string
	// Document is anything differ.Differ.Diff accepts
	Document any
}

// Entry is the comparison of two consecutive versions.
type Entry struct {
	// From is the label of the older version
	From string
	// To is the label of the newer version
	To string
	// Result is nil when Err is set
	Result *differ.Result
	// Err is the reason the pair could not be compared
	Err error
}

// Builder compares consecutive document versions.
type Builder struct {
	// Concurrency limits the number of comparisons running at once.
	// Defaults to DefaultConcurrency.
	Concurrency int
	// Logger receives a warning for every pair that cannot be compared.
	// Defaults to parser.NopLogger.
	Logger parser.Logger
	// Differ performs the comparisons. Defaults to differ.New().
	Differ *differ.Differ
}

// New creates a new Builder with default settings.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) log() parser.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return parser.NopLogger{}
}

// Build compares every version with the one before it. versions are ordered
// oldest first; the returned entries follow the same order and there is one
// fewer of them than there are versions.
//
// A pair that fails to compare does not stop the build: its entry carries
// the error and a warning is logged. Build itself only fails when ctx is
// done before every pair was compared.
func (b *Builder) Build(ctx context.Context, versions []Version) ([]Entry, error) {
	if len(versions) < 2 {
		return []Entry{}, nil
	}

	d := b.Differ
	if d == nil {
		d = differ.New()
	}
	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	log := b.log()

	entries := make([]Entry, len(versions)-1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range entries {
		from, to := versions[i], versions[i+1]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry := Entry{From: from.Label, To: to.Label}
			entry.Result, entry.Err = d.Diff(from.Document, to.Document)
			if entry.Err != nil {
				log.Warn("skipping version pair", "from", from.Label, "to", to.Label, "error", entry.Err)
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("changelog: %w", err)
	}
	return entries, nil
}
