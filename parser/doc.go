// Package parser decodes OpenAPI documents for comparison.
//
// Documents are kept as generic trees (map[string]any, []any and scalars)
// rather than decoded into typed structs: the differ needs to walk arbitrary
// JSON Schema, follow local $ref pointers by key and tolerate fields it does
// not know about. Thin map-backed views ([PathItem], [Operation],
// [Parameter], [RequestBody], [MediaType], [Response], [Header]) give the
// differ typed accessors without copying anything.
//
// # Quick Start
//
//	result, err := parser.ParseFile("openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := parser.NewDocument(result.Data, oaserrors.SideSource)
//	if err != nil {
//		log.Fatal(err) // not an object, or no openapi version
//	}
//	fmt.Println(doc.OpenAPI, len(doc.Paths()))
//
// JSON input is decoded with encoding/json; anything else goes through the
// YAML decoder. YAML mappings with non-string keys, such as unquoted status
// codes, are normalized to string keys by [Normalize].
//
// A [Parser] reads files through an afero filesystem, which lets tests and
// embedding programs supply an in-memory filesystem:
//
//	p := &parser.Parser{Fs: afero.NewMemMapFs()}
//	result, err := p.ParseFile("/specs/v2.json")
package parser
