// Package differ compares two versions of an OpenAPI document route by route.
//
// # Quick Start
//
//	result, err := differ.DiffWithOptions(
//		differ.WithSourceFilePath("api-v1.yaml"),
//		differ.WithTargetFilePath("api-v2.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.IsEqual {
//		for _, route := range result.ChangedRoutes {
//			for _, change := range route.Changes {
//				fmt.Println(change.Message())
//			}
//		}
//	}
//
// Or with a reusable Differ and in-memory documents:
//
//	d := differ.New()
//	d.Logger = parser.NewSlogAdapter(slog.Default())
//	result, err := d.Diff(oldJSON, newJSON)
//
// # Report
//
// Every (path, method) pair of either document lands in exactly one of
// SameRoutes, AddedRoutes, DeletedRoutes and ChangedRoutes. Routes of a
// changed operation carry typed change records: [ParameterAdded],
// [ParameterChanged], [RequestBodyDeleted], [ResponseBodyChanged] and so on,
// one struct per element type and action. Changed records hold keyword-level
// changes, and schema keyword changes hold the leaf [SchemaChange]s.
//
// Parameters are matched by name and location. A parameter that becomes
// required is reported, one that becomes optional is not. Request bodies
// report the required flag flipping in either direction.
//
// Buckets are sorted by path and then by method in the order of
// parser.HTTPMethods, so the report is deterministic.
//
// # References and Cycles
//
// Schemas are compared lazily: a $ref is followed when the comparison reaches
// it, and the leaf paths in the report describe the dereferenced schema
// ("#/properties/owner/properties/name/type" rather than a path through
// "$ref"). Two schemas referring to different components produce a single
// "#/$ref" difference instead of a comparison of the components.
//
// Comparisons are memoized by document location for the duration of one Diff
// call. Reaching a location that is still being compared means the schema is
// recursive, and that branch is cut, so self-referencing and mutually
// referencing schemas terminate and report each difference once. A component
// used in several places is compared once and reported at every place.
//
// [ResolveRef] and [ResolveRefDeep] expose the resolver on its own. The deep
// form leaves a reference in place when its target is already being expanded.
//
// # Errors
//
// Diff fails without a partial report when either document is not an object
// (oaserrors.ErrShape), has no string openapi field (oaserrors.ErrVersion),
// has a different major version than the other (oaserrors.ErrVersionMismatch),
// or contains an unresolvable $ref (oaserrors.ErrReference).
package differ
