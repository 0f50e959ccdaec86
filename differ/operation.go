package differ

import (
	"fmt"
	"strings"

	"github.com/erraggy/oaschangelog/internal/maputil"
	"github.com/erraggy/oaschangelog/internal/pathutil"
	"github.com/erraggy/oaschangelog/parser"
)

// route identifies the operation being compared and formats comments.
type route struct {
	path   string
	method string
	// srcLoc and tgtLoc point at the operation inside each document
	srcLoc string
	tgtLoc string
}

func newRoute(path, method string) route {
	loc := pathutil.Pointer("paths", path, method)
	return route{path: path, method: method, srcLoc: loc, tgtLoc: loc}
}

// describe renders `<subject> has been <verb> "<path>" route`.
func (r route) describe(subject, verb string) string {
	return fmt.Sprintf("%s has been %s %s %q route", subject, verb, strings.ToUpper(r.method), r.path)
}

const (
	verbAdded   = "added to"
	verbChanged = "changed in"
	verbDeleted = "deleted from"
)

// resolvedItem is a list or map entry after its $ref, if any, was followed.
type resolvedItem struct {
	value map[string]any
	loc   string
}

func resolveItem(node any, loc string, root map[string]any) (resolvedItem, error) {
	v, loc, err := followRef(node, loc, root)
	if err != nil {
		return resolvedItem{}, err
	}
	obj, _ := v.(map[string]any)
	return resolvedItem{value: obj, loc: loc}, nil
}

// compareOperation compares one route present in both documents and returns
// parameter, request body and response changes, in that order.
func (c *comparison) compareOperation(r route, src, tgt parser.Operation) ([]Change, error) {
	params, err := c.compareParameters(r, src, tgt)
	if err != nil {
		return nil, err
	}
	body, err := c.compareRequestBodies(r, src, tgt)
	if err != nil {
		return nil, err
	}
	responses, err := c.compareResponses(r, src, tgt)
	if err != nil {
		return nil, err
	}

	changes := make([]Change, 0, len(params)+len(body)+len(responses))
	changes = append(changes, params...)
	changes = append(changes, body...)
	return append(changes, responses...), nil
}

func (c *comparison) resolveParameters(op parser.Operation, opLoc string, root map[string]any) ([]resolvedItem, error) {
	params := op.Parameters()
	out := make([]resolvedItem, 0, len(params))
	for i, p := range params {
		item, err := resolveItem(p, pathutil.Append(opLoc, "parameters", fmt.Sprint(i)), root)
		if err != nil {
			return nil, err
		}
		if item.value != nil {
			out = append(out, item)
		}
	}
	return out, nil
}

func findParameter(params []resolvedItem, name, in string) (resolvedItem, bool) {
	for _, p := range params {
		if parser.Parameter(p.value).Name() == name && parser.Parameter(p.value).In() == in {
			return p, true
		}
	}
	return resolvedItem{}, false
}

// compareParameters matches parameters by name and location. Becoming
// required is reported; becoming optional is not, since it relaxes a
// constraint.
func (c *comparison) compareParameters(r route, src, tgt parser.Operation) ([]Change, error) {
	srcParams, err := c.resolveParameters(src, r.srcLoc, c.source.Raw)
	if err != nil {
		return nil, err
	}
	tgtParams, err := c.resolveParameters(tgt, r.tgtLoc, c.target.Raw)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, t := range tgtParams {
		tp := parser.Parameter(t.value)
		subject := fmt.Sprintf("%s parameter %q", tp.In(), tp.Name())

		s, ok := findParameter(srcParams, tp.Name(), tp.In())
		if !ok {
			changes = append(changes, ParameterAdded{
				Name:         tp.Name(),
				In:           tp.In(),
				TargetSchema: t.value,
				Comment:      r.describe(subject, verbAdded),
			})
			continue
		}
		sp := parser.Parameter(s.value)

		var keywords []KeywordChange
		schemaChanges, err := c.diffSchemas(sp.Schema(), tp.Schema(), pathutil.Append(s.loc, "schema"), pathutil.Append(t.loc, "schema"))
		if err != nil {
			return nil, err
		}
		if len(schemaChanges) > 0 {
			keywords = append(keywords, SchemaKeywordChange{
				Changes: schemaChanges,
				Comment: "parameter schema has been changed",
			})
		}
		if !sp.Required() && tp.Required() {
			keywords = append(keywords, RequiredKeywordChange{
				Source:  optionalBool(sp["required"]),
				Target:  optionalBool(tp["required"]),
				Comment: "parameter has been made required",
			})
		}

		if len(keywords) > 0 {
			changes = append(changes, ParameterChanged{
				Name:         tp.Name(),
				In:           tp.In(),
				SourceSchema: s.value,
				TargetSchema: t.value,
				Changes:      keywords,
				Comment:      r.describe(subject, verbChanged),
			})
		}
	}

	for _, s := range srcParams {
		sp := parser.Parameter(s.value)
		if _, ok := findParameter(tgtParams, sp.Name(), sp.In()); ok {
			continue
		}
		changes = append(changes, ParameterDeleted{
			Name:         sp.Name(),
			In:           sp.In(),
			SourceSchema: s.value,
			Comment:      r.describe(fmt.Sprintf("%s parameter %q", sp.In(), sp.Name()), verbDeleted),
		})
	}
	return changes, nil
}

// compareRequestBodies compares request bodies media type by media type.
// Unlike parameters, the required flag is reported in both directions.
func (c *comparison) compareRequestBodies(r route, src, tgt parser.Operation) ([]Change, error) {
	s, err := resolveItem(src.RequestBody(), pathutil.Append(r.srcLoc, "requestBody"), c.source.Raw)
	if err != nil {
		return nil, err
	}
	t, err := resolveItem(tgt.RequestBody(), pathutil.Append(r.tgtLoc, "requestBody"), c.target.Raw)
	if err != nil {
		return nil, err
	}
	srcBody, tgtBody := parser.RequestBody(s.value), parser.RequestBody(t.value)
	srcContent, tgtContent := srcBody.Content(), tgtBody.Content()

	var changes []Change
	keys := maputil.CompareKeys(srcContent, tgtContent)
	for _, mediaType := range keys.Added {
		changes = append(changes, RequestBodyAdded{
			MediaType:    mediaType,
			TargetSchema: tgtContent[mediaType],
			Comment:      r.describe(requestBodySubject(mediaType), verbAdded),
		})
	}
	for _, mediaType := range keys.Removed {
		changes = append(changes, RequestBodyDeleted{
			MediaType:    mediaType,
			SourceSchema: srcContent[mediaType],
			Comment:      r.describe(requestBodySubject(mediaType), verbDeleted),
		})
	}

	for _, mediaType := range keys.Common {
		srcMedia := mediaTypeOf(srcContent[mediaType])
		tgtMedia := mediaTypeOf(tgtContent[mediaType])

		var keywords []KeywordChange
		schemaChanges, err := c.diffSchemas(
			srcMedia.Schema(), tgtMedia.Schema(),
			pathutil.Append(s.loc, "content", mediaType, "schema"),
			pathutil.Append(t.loc, "content", mediaType, "schema"),
		)
		if err != nil {
			return nil, err
		}
		if len(schemaChanges) > 0 {
			keywords = append(keywords, SchemaKeywordChange{
				Changes: schemaChanges,
				Comment: "request body schema has been changed",
			})
		}
		switch {
		case !srcBody.Required() && tgtBody.Required():
			keywords = append(keywords, RequiredKeywordChange{
				Source:  boolPtr(false),
				Target:  boolPtr(true),
				Comment: "request body has been made required",
			})
		case srcBody.Required() && !tgtBody.Required():
			keywords = append(keywords, RequiredKeywordChange{
				Source:  boolPtr(true),
				Target:  boolPtr(false),
				Comment: "request body has been made optional",
			})
		}

		if len(keywords) > 0 {
			changes = append(changes, RequestBodyChanged{
				MediaType:    mediaType,
				SourceSchema: srcContent[mediaType],
				TargetSchema: tgtContent[mediaType],
				Changes:      keywords,
				Comment:      r.describe(requestBodySubject(mediaType), verbChanged),
			})
		}
	}
	return changes, nil
}

func requestBodySubject(mediaType string) string {
	return fmt.Sprintf("request body for %q media type", mediaType)
}

func responseHeaderSubject(statusCode string) string {
	return fmt.Sprintf("response header for %q status code", statusCode)
}

func responseBodySubject(statusCode, mediaType string) string {
	return fmt.Sprintf("response body for %q status code and %q media type", statusCode, mediaType)
}

// compareResponses walks the target status codes for added and changed
// headers and bodies, then the source status codes for deleted ones.
func (c *comparison) compareResponses(r route, src, tgt parser.Operation) ([]Change, error) {
	srcResponses, err := resolveMap(src.Responses(), pathutil.Append(r.srcLoc, "responses"), c.source.Raw)
	if err != nil {
		return nil, err
	}
	tgtResponses, err := resolveMap(tgt.Responses(), pathutil.Append(r.tgtLoc, "responses"), c.target.Raw)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, status := range maputil.SortedKeys(tgtResponses) {
		t := tgtResponses[status]
		s := srcResponses[status]
		tgtResp, srcResp := parser.Response(t.value), parser.Response(s.value)

		tgtHeaders, srcHeaders := tgtResp.Headers(), srcResp.Headers()
		for _, name := range maputil.SortedKeys(tgtHeaders) {
			if !present(srcHeaders, name) {
				changes = append(changes, ResponseHeaderAdded{
					StatusCode:   status,
					Header:       name,
					TargetSchema: tgtHeaders[name],
					Comment:      r.describe(responseHeaderSubject(status), verbAdded),
				})
				continue
			}
			schemaChanges, err := c.diffHeaders(
				srcHeaders[name], tgtHeaders[name],
				pathutil.Append(s.loc, "headers", name),
				pathutil.Append(t.loc, "headers", name),
			)
			if err != nil {
				return nil, err
			}
			if len(schemaChanges) > 0 {
				changes = append(changes, ResponseHeaderChanged{
					StatusCode:   status,
					Header:       name,
					SourceSchema: srcHeaders[name],
					TargetSchema: tgtHeaders[name],
					Changes: []SchemaKeywordChange{{
						Changes: schemaChanges,
						Comment: "response header schema has been changed",
					}},
					Comment: r.describe(responseHeaderSubject(status), verbChanged),
				})
			}
		}

		tgtContent, srcContent := tgtResp.Content(), srcResp.Content()
		for _, mediaType := range maputil.SortedKeys(tgtContent) {
			if !present(srcContent, mediaType) {
				changes = append(changes, ResponseBodyAdded{
					StatusCode:   status,
					MediaType:    mediaType,
					TargetSchema: tgtContent[mediaType],
					Comment:      r.describe(responseBodySubject(status, mediaType), verbAdded),
				})
				continue
			}
			schemaChanges, err := c.diffSchemas(
				mediaTypeOf(srcContent[mediaType]).Schema(),
				mediaTypeOf(tgtContent[mediaType]).Schema(),
				pathutil.Append(s.loc, "content", mediaType, "schema"),
				pathutil.Append(t.loc, "content", mediaType, "schema"),
			)
			if err != nil {
				return nil, err
			}
			if len(schemaChanges) > 0 {
				changes = append(changes, ResponseBodyChanged{
					StatusCode:   status,
					MediaType:    mediaType,
					SourceSchema: srcContent[mediaType],
					TargetSchema: tgtContent[mediaType],
					Changes: []SchemaKeywordChange{{
						Changes: schemaChanges,
						Comment: "response body schema has been changed",
					}},
					Comment: r.describe(responseBodySubject(status, mediaType), verbChanged),
				})
			}
		}
	}

	for _, status := range maputil.SortedKeys(srcResponses) {
		srcResp := parser.Response(srcResponses[status].value)
		tgtResp := parser.Response(tgtResponses[status].value)

		srcHeaders, tgtHeaders := srcResp.Headers(), tgtResp.Headers()
		for _, name := range maputil.SortedKeys(srcHeaders) {
			if present(tgtHeaders, name) {
				continue
			}
			changes = append(changes, ResponseHeaderDeleted{
				StatusCode:   status,
				Header:       name,
				SourceSchema: srcHeaders[name],
				Comment:      r.describe(responseHeaderSubject(status), verbDeleted),
			})
		}

		srcContent, tgtContent := srcResp.Content(), tgtResp.Content()
		for _, mediaType := range maputil.SortedKeys(srcContent) {
			if present(tgtContent, mediaType) {
				continue
			}
			changes = append(changes, ResponseBodyDeleted{
				StatusCode:   status,
				MediaType:    mediaType,
				SourceSchema: srcContent[mediaType],
				Comment:      r.describe(responseBodySubject(status, mediaType), verbDeleted),
			})
		}
	}
	return changes, nil
}

// diffHeaders resolves both headers and compares their schemas.
func (c *comparison) diffHeaders(src, tgt any, srcLoc, tgtLoc string) ([]SchemaChange, error) {
	s, err := resolveItem(src, srcLoc, c.source.Raw)
	if err != nil {
		return nil, err
	}
	t, err := resolveItem(tgt, tgtLoc, c.target.Raw)
	if err != nil {
		return nil, err
	}
	return c.diffSchemas(
		parser.Header(s.value).Schema(), parser.Header(t.value).Schema(),
		pathutil.Append(s.loc, "schema"), pathutil.Append(t.loc, "schema"),
	)
}

// resolveMap follows the $ref of every entry of m.
func resolveMap(m map[string]any, loc string, root map[string]any) (map[string]resolvedItem, error) {
	out := make(map[string]resolvedItem, len(m))
	for k, v := range m {
		item, err := resolveItem(v, pathutil.Append(loc, k), root)
		if err != nil {
			return nil, err
		}
		out[k] = item
	}
	return out, nil
}

// present reports whether m holds a non-null value for key.
func present(m map[string]any, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

func mediaTypeOf(v any) parser.MediaType {
	m, _ := v.(map[string]any)
	return m
}

func optionalBool(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func boolPtr(b bool) *bool {
	return &b
}
