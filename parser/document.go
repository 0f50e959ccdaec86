package parser

import (
	"slices"
	"strings"

	"github.com/erraggy/oaschangelog/oaserrors"
)

// HTTPMethods lists the path item keys treated as operations, in report order.
// Any other path item key (summary, description, servers, parameters,
// extensions) is ignored when routes are compared.
var HTTPMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// IsHTTPMethod reports whether key names an operation of a path item.
func IsHTTPMethod(key string) bool {
	return slices.Contains(HTTPMethods, key)
}

// MethodOrder returns the position of method within HTTPMethods,
// or len(HTTPMethods) for unknown methods.
func MethodOrder(method string) int {
	if i := slices.Index(HTTPMethods, method); i >= 0 {
		return i
	}
	return len(HTTPMethods)
}

// Document is the root of an OpenAPI document that passed the minimal shape
// checks: it is an object and its openapi field is a string. Everything else
// stays in Raw, untouched, so unknown fields are tolerated.
type Document struct {
	// OpenAPI is the value of the openapi field, e.g. "3.1.0"
	OpenAPI string
	// Raw is the whole document tree
	Raw map[string]any
}

// NewDocument checks v against the input contract and wraps it.
// side selects the wording of the returned error.
func NewDocument(v any, side oaserrors.Side) (*Document, error) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, &oaserrors.ShapeError{Side: side, Value: v}
	}
	version, ok := root["openapi"].(string)
	if !ok {
		return nil, &oaserrors.VersionError{Side: side}
	}
	return &Document{OpenAPI: version, Raw: root}, nil
}

// MajorVersion returns the first dot-delimited component of the openapi version.
func (d *Document) MajorVersion() string {
	return MajorVersion(d.OpenAPI)
}

// Paths returns the paths object, or an empty map when it is missing.
func (d *Document) Paths() map[string]any {
	if paths, ok := AsObject(d.Raw["paths"]); ok {
		return paths
	}
	return map[string]any{}
}

// PathItem returns the path item registered under path, or nil.
func (d *Document) PathItem(path string) PathItem {
	item, _ := AsObject(d.Paths()[path])
	return item
}

// MajorVersion returns the part of version before the first dot.
func MajorVersion(version string) string {
	major, _, _ := strings.Cut(version, ".")
	return major
}

// AsObject returns v as a mapping if it is one.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// RefOf returns the pointer held by a reference node.
// ok is false when v is not an object with a string $ref.
func RefOf(v any) (ref string, ok bool) {
	m, isObj := v.(map[string]any)
	if !isObj {
		return "", false
	}
	ref, ok = m["$ref"].(string)
	return ref, ok
}

func objectField(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// PathItem is a view over a path item object.
type PathItem map[string]any

// Operation returns the operation for method, if present.
func (p PathItem) Operation(method string) (Operation, bool) {
	op, ok := p[method].(map[string]any)
	return op, ok
}

// Methods returns the HTTP methods defined on the path item in HTTPMethods order.
func (p PathItem) Methods() []string {
	methods := make([]string, 0, len(HTTPMethods))
	for _, m := range HTTPMethods {
		if _, ok := p[m]; ok {
			methods = append(methods, m)
		}
	}
	return methods
}

// Operation is a view over an operation object.
type Operation map[string]any

// Parameters returns the parameter list. Entries may be reference nodes.
func (o Operation) Parameters() []any {
	params, _ := o["parameters"].([]any)
	return params
}

// RequestBody returns the request body, which may be a reference node, or nil.
func (o Operation) RequestBody() any {
	return o["requestBody"]
}

// Responses returns the responses keyed by status code. Entries may be reference nodes.
func (o Operation) Responses() map[string]any {
	return objectField(o, "responses")
}

// Parameter is a view over a resolved parameter object.
type Parameter map[string]any

// Name returns the parameter name.
func (p Parameter) Name() string {
	name, _ := p["name"].(string)
	return name
}

// In returns the parameter location: query, header, path or cookie.
func (p Parameter) In() string {
	in, _ := p["in"].(string)
	return in
}

// Required reports whether the parameter is marked required.
func (p Parameter) Required() bool {
	return isTrue(p["required"])
}

// Schema returns the parameter schema, or nil.
func (p Parameter) Schema() any {
	return p["schema"]
}

// RequestBody is a view over a resolved request body object.
type RequestBody map[string]any

// Content returns the media type map.
func (r RequestBody) Content() map[string]any {
	return objectField(r, "content")
}

// Required reports whether the request body is marked required.
func (r RequestBody) Required() bool {
	return isTrue(r["required"])
}

// MediaType is a view over a media type object.
type MediaType map[string]any

// Schema returns the media type schema, or an empty schema when none is set.
func (m MediaType) Schema() any {
	if s, ok := m["schema"]; ok && s != nil {
		return s
	}
	return map[string]any{}
}

// Response is a view over a resolved response object.
type Response map[string]any

// Headers returns the headers keyed by name. Entries may be reference nodes.
func (r Response) Headers() map[string]any {
	return objectField(r, "headers")
}

// Content returns the media type map.
func (r Response) Content() map[string]any {
	return objectField(r, "content")
}

// Header is a view over a header object.
type Header map[string]any

// Schema returns the header schema, or nil.
func (h Header) Schema() any {
	return h["schema"]
}
