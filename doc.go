// Package oaschangelog compares versions of an OpenAPI 3.x document and
// reports what changed between them, route by route.
//
// # Overview
//
// The module consists of three public packages:
//
//   - parser: Decode JSON or YAML documents into generic trees
//   - differ: Compare two documents and classify every route as same, added, deleted or changed
//   - changelog: Compare a series of versions and render a Markdown changelog
//
// Only local references ("#/components/schemas/Pet") are followed. Both
// documents must share the same major openapi version.
//
// # Quick Start
//
// Compare two files:
//
//	import "github.com/erraggy/oaschangelog/differ"
//
//	result, err := differ.DiffWithOptions(
//		differ.WithSourceFilePath("api-v1.yaml"),
//		differ.WithTargetFilePath("api-v2.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, route := range result.ChangedRoutes {
//		for _, change := range route.Changes {
//			fmt.Println(change.Message())
//		}
//	}
//
// Build a changelog from several versions:
//
//	import "github.com/erraggy/oaschangelog/changelog"
//
//	entries, err := changelog.New().Build(ctx, []changelog.Version{
//		{Label: "v1", Document: v1},
//		{Label: "v2", Document: v2},
//		{Label: "v3", Document: v3},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(changelog.Render(entries))
//
// # Error Handling
//
// Typed errors live in the oaserrors package and match their sentinels with
// errors.Is:
//
//   - oaserrors.ErrShape: a document is not an object
//   - oaserrors.ErrVersion: a document has no string openapi field
//   - oaserrors.ErrVersionMismatch: the major versions differ
//   - oaserrors.ErrReference: a $ref cannot be resolved
//
// # Command-Line Interface
//
//	# Compare two documents
//	oaschangelog diff -format markdown api-v1.yaml api-v2.yaml
//
//	# Changelog across releases
//	oaschangelog changelog v1.yaml v2.yaml v3.yaml
//
//	# Serve the diff and changelog tools over MCP stdio
//	oaschangelog mcp
//
// Install the CLI:
//
//	go install github.com/erraggy/oaschangelog/cmd/oaschangelog@latest
//
// # License
//
// This library is released under the MIT License. See the LICENSE file in the
// repository for full details.
package oaschangelog
