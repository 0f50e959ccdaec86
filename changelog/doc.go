// Package changelog builds API changelogs from a series of OpenAPI document
// versions.
//
// Each consecutive pair of versions is compared with the differ package and
// the results are rendered as Markdown, newest version first.
//
// # Quick Start
//
//	entries, err := changelog.New().Build(ctx, []changelog.Version{
//	    {Label: "v1", Document: v1},
//	    {Label: "v2", Document: v2},
//	    {Label: "v3", Document: v3},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(changelog.Render(entries))
//
// # Output
//
// Every entry lists the route counts of the newer version followed by the
// added, deleted and changed routes:
//
//	## v2
//
//	3 total, 1 added, 0 removed, 1 changed
//
//	### Added Routes
//
//	- POST /pets
//
// Version pairs that cannot be compared, for example because a $ref does not
// resolve, are logged at warning level and left out of the output.
package changelog
