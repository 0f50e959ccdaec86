// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

package pathutil

import (
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// Root is the pointer to a whole document.
const Root = "#"

// OAS 3.x reference prefixes
const (
	RefPrefixSchemas       = "#/components/schemas/"
	RefPrefixParameters    = "#/components/parameters/"
	RefPrefixResponses     = "#/components/responses/"
	RefPrefixRequestBodies = "#/components/requestBodies/"
	RefPrefixHeaders       = "#/components/headers/"
)

// SchemaRef builds "#/components/schemas/{name}".
func SchemaRef(name string) string {
	return RefPrefixSchemas + Escape(name)
}

// ParameterRef builds "#/components/parameters/{name}".
func ParameterRef(name string) string {
	return RefPrefixParameters + Escape(name)
}

// ResponseRef builds "#/components/responses/{name}".
func ResponseRef(name string) string {
	return RefPrefixResponses + Escape(name)
}

// RequestBodyRef builds "#/components/requestBodies/{name}".
func RequestBodyRef(name string) string {
	return RefPrefixRequestBodies + Escape(name)
}

// HeaderRef builds "#/components/headers/{name}".
func HeaderRef(name string) string {
	return RefPrefixHeaders + Escape(name)
}

// Escape escapes a single reference token ("~" to "~0", "/" to "~1").
func Escape(token string) string {
	return jsonpointer.Escape(token)
}

// Unescape reverses Escape for a single reference token.
func Unescape(token string) string {
	return jsonpointer.Unescape(token)
}

// Pointer builds a document pointer from unescaped segments.
func Pointer(segments ...string) string {
	return Append(Root, segments...)
}

// Append extends an existing pointer with unescaped segments.
func Append(base string, segments ...string) string {
	if len(segments) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(Escape(seg))
	}
	return b.String()
}

// Tokens decodes a local reference ("#", "#/a/b") into its unescaped tokens.
// It reports false for anything that is not a local fragment reference.
func Tokens(ref string) ([]string, bool) {
	if ref == Root {
		return []string{}, true
	}
	rest, ok := strings.CutPrefix(ref, "#/")
	if !ok {
		return nil, false
	}
	parts := strings.Split(rest, "/")
	for i, part := range parts {
		parts[i] = Unescape(part)
	}
	return parts, true
}
