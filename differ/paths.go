package differ

import (
	"github.com/erraggy/oaschangelog/internal/maputil"
	"github.com/erraggy/oaschangelog/parser"
)

// comparePaths partitions routes into the four result buckets.
func (c *comparison) comparePaths() (*Result, error) {
	result := newResult()
	srcPaths, tgtPaths := c.source.Paths(), c.target.Paths()

	keys := maputil.CompareKeys(srcPaths, tgtPaths)
	for _, path := range keys.Added {
		item := c.target.PathItem(path)
		for _, method := range item.Methods() {
			if op, ok := item.Operation(method); ok {
				result.AddedRoutes = append(result.AddedRoutes, Route{Method: method, Path: path, TargetSchema: op})
			}
		}
	}
	for _, path := range keys.Removed {
		item := c.source.PathItem(path)
		for _, method := range item.Methods() {
			if op, ok := item.Operation(method); ok {
				result.DeletedRoutes = append(result.DeletedRoutes, Route{Method: method, Path: path, SourceSchema: op})
			}
		}
	}
	for _, path := range keys.Common {
		if err := c.comparePathItem(result, path, c.source.PathItem(path), c.target.PathItem(path)); err != nil {
			return nil, err
		}
	}

	result.finish()
	return result, nil
}

// comparePathItem compares the operations of a path present in both
// documents. Non-operation keys such as summary and description are ignored.
func (c *comparison) comparePathItem(result *Result, path string, src, tgt parser.PathItem) error {
	for _, method := range parser.HTTPMethods {
		srcOp, inSource := src.Operation(method)
		tgtOp, inTarget := tgt.Operation(method)

		switch {
		case inSource && inTarget:
			changes, err := c.compareOperation(newRoute(path, method), srcOp, tgtOp)
			if err != nil {
				return err
			}
			r := Route{Method: method, Path: path, SourceSchema: srcOp, TargetSchema: tgtOp}
			if len(changes) == 0 {
				result.SameRoutes = append(result.SameRoutes, r)
				continue
			}
			r.Changes = changes
			result.ChangedRoutes = append(result.ChangedRoutes, r)
		case inTarget:
			result.AddedRoutes = append(result.AddedRoutes, Route{Method: method, Path: path, TargetSchema: tgtOp})
		case inSource:
			result.DeletedRoutes = append(result.DeletedRoutes, Route{Method: method, Path: path, SourceSchema: srcOp})
		}
	}
	return nil
}
