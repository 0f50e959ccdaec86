package differ

import (
	"cmp"
	"slices"

	"github.com/erraggy/oaschangelog/parser"
)

// Route is one (path, method) pair of the comparison.
//
// Same and changed routes carry both operation objects, added routes only
// the target and deleted routes only the source. Changes is only set for
// changed routes.
type Route struct {
	Method       string         `json:"method"`
	Path         string         `json:"path"`
	SourceSchema map[string]any `json:"sourceSchema,omitzero"`
	TargetSchema map[string]any `json:"targetSchema,omitzero"`
	Changes      []Change       `json:"changes,omitempty"`
}

// Result is the report of comparing two documents.
// Every route of either document appears in exactly one of the four lists.
type Result struct {
	// IsEqual is true when no route was added, deleted or changed
	IsEqual       bool    `json:"isEqual"`
	SameRoutes    []Route `json:"sameRoutes"`
	AddedRoutes   []Route `json:"addedRoutes"`
	DeletedRoutes []Route `json:"deletedRoutes"`
	ChangedRoutes []Route `json:"changedRoutes"`
}

func newResult() *Result {
	return &Result{
		SameRoutes:    []Route{},
		AddedRoutes:   []Route{},
		DeletedRoutes: []Route{},
		ChangedRoutes: []Route{},
	}
}

// finish sorts every bucket and computes IsEqual.
func (r *Result) finish() {
	for _, routes := range [][]Route{r.SameRoutes, r.AddedRoutes, r.DeletedRoutes, r.ChangedRoutes} {
		slices.SortStableFunc(routes, compareRoutes)
	}
	r.IsEqual = len(r.AddedRoutes) == 0 && len(r.DeletedRoutes) == 0 && len(r.ChangedRoutes) == 0
}

func compareRoutes(a, b Route) int {
	return cmp.Or(
		cmp.Compare(a.Path, b.Path),
		cmp.Compare(parser.MethodOrder(a.Method), parser.MethodOrder(b.Method)),
	)
}

// TotalRoutes returns the number of routes of the target document.
func (r *Result) TotalRoutes() int {
	return len(r.SameRoutes) + len(r.AddedRoutes) + len(r.ChangedRoutes)
}
