// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides JSON Pointer utilities for OpenAPI document
// traversal.
//
// Pointers are plain strings rooted at "#". [Pointer] builds one from raw
// segments and [Append] extends an existing one, escaping each segment per
// RFC 6901 ("~" becomes "~0", "/" becomes "~1"), so route templates can be
// used directly as segments:
//
//	pathutil.Pointer("paths", "/pets/{id}", "get") // "#/paths/~1pets~1{id}/get"
//	pathutil.Append("#/properties", "name")        // "#/properties/name"
//
// # Reference Helpers
//
// [Tokens] decodes a local "#/..." reference into its unescaped segments, and
// the ref builders produce pointers to OpenAPI 3.x components:
//
//	ref := pathutil.SchemaRef("Pet") // "#/components/schemas/Pet"
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] validates and cleans output file paths for the CLI.
// It rejects symlinks:
//
//	safe, err := pathutil.SanitizeOutputPath(fs, userProvidedPath)
//	if err != nil {
//	    return err // symlink detected
//	}
package pathutil
