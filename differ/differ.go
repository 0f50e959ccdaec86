package differ

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/erraggy/oaschangelog/oaserrors"
	"github.com/erraggy/oaschangelog/parser"
)

// Differ compares OpenAPI documents. A Differ holds configuration only and
// is safe for concurrent use: every comparison allocates its own state.
type Differ struct {
	// Logger receives debug output. Defaults to parser.NopLogger.
	Logger parser.Logger
	// Fs is the filesystem DiffFiles reads from. Defaults to the OS filesystem.
	Fs afero.Fs
	// ResolveSchemas replaces the $refs inside the sourceSchema and
	// targetSchema fields of the report with their targets, so consumers can
	// render them without the documents. Cycles are left as $refs.
	ResolveSchemas bool
}

// New creates a new Differ with default settings.
func New() *Differ {
	return &Differ{}
}

func (d *Differ) log() parser.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return parser.NopLogger{}
}

// comparison is the state of a single Diff call.
type comparison struct {
	source *parser.Document
	target *parser.Document
	// memo caches schema comparisons by document location
	memo map[string]*memoEntry
	// scoped lists the memo keys whose results were cut by the in-progress
	// comparison at a given depth; they are dropped when it finishes
	scoped map[int][]string
	log    parser.Logger
}

// Diff compares source (the older document) with target (the newer one).
//
// Each side may be JSON or YAML text ([]byte or string), a *parser.ParseResult,
// a *parser.Document or an already decoded value such as map[string]any.
// The inputs are never modified.
//
// The returned error is a *oaserrors.ShapeError when a side is not an object,
// a *oaserrors.VersionError when a side has no string openapi version or the
// major versions differ, and a *oaserrors.ReferenceError when a $ref cannot be
// resolved. No partial result is returned.
func (d *Differ) Diff(source, target any) (*Result, error) {
	src, err := loadDocument(source, oaserrors.SideSource)
	if err != nil {
		return nil, err
	}
	tgt, err := loadDocument(target, oaserrors.SideTarget)
	if err != nil {
		return nil, err
	}
	return d.DiffDocuments(src, tgt)
}

// DiffDocuments compares two documents that already passed the shape checks.
func (d *Differ) DiffDocuments(source, target *parser.Document) (*Result, error) {
	if source.MajorVersion() != target.MajorVersion() {
		return nil, &oaserrors.VersionError{
			Mismatch:      true,
			SourceVersion: source.OpenAPI,
			TargetVersion: target.OpenAPI,
		}
	}

	log := d.log()
	log.Debug("comparing documents", "sourceVersion", source.OpenAPI, "targetVersion", target.OpenAPI)

	c := &comparison{
		source: source,
		target: target,
		memo:   make(map[string]*memoEntry),
		scoped: make(map[int][]string),
		log:    log,
	}
	result, err := c.comparePaths()
	if err != nil {
		return nil, err
	}
	if d.ResolveSchemas {
		if err := resolveReport(result, source.Raw, target.Raw); err != nil {
			return nil, err
		}
	}

	log.Debug("comparison complete",
		"same", len(result.SameRoutes),
		"added", len(result.AddedRoutes),
		"deleted", len(result.DeletedRoutes),
		"changed", len(result.ChangedRoutes),
		"memoized", len(c.memo),
	)
	return result, nil
}

// DiffFiles parses and compares two files.
func (d *Differ) DiffFiles(sourcePath, targetPath string) (*Result, error) {
	p := &parser.Parser{Fs: d.Fs, Logger: d.Logger}

	sourceResult, err := p.ParseFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("differ: failed to parse source: %w", err)
	}
	targetResult, err := p.ParseFile(targetPath)
	if err != nil {
		return nil, fmt.Errorf("differ: failed to parse target: %w", err)
	}
	return d.Diff(sourceResult, targetResult)
}

// Diff compares two documents with a default Differ.
func Diff(source, target any) (*Result, error) {
	return New().Diff(source, target)
}

// loadDocument turns any supported input into a shape-checked document.
func loadDocument(v any, side oaserrors.Side) (*parser.Document, error) {
	var data any
	switch val := v.(type) {
	case *parser.Document:
		if val == nil {
			return nil, &oaserrors.ShapeError{Side: side}
		}
		return val, nil
	case *parser.ParseResult:
		if val == nil {
			return nil, &oaserrors.ShapeError{Side: side}
		}
		data = val.Data
	case parser.ParseResult:
		data = val.Data
	case []byte:
		res, err := parser.ParseBytes(val)
		if err != nil {
			return nil, fmt.Errorf("differ: failed to parse %s: %w", side, err)
		}
		data = res.Data
	case string:
		res, err := parser.ParseBytes([]byte(val))
		if err != nil {
			return nil, fmt.Errorf("differ: failed to parse %s: %w", side, err)
		}
		data = res.Data
	default:
		normalized, err := parser.Normalize(val)
		if err != nil {
			return nil, fmt.Errorf("differ: invalid %s: %w", side, err)
		}
		data = normalized
	}
	return parser.NewDocument(data, side)
}
