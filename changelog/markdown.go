package changelog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/oaschangelog/differ"
)

// Render writes entries as a Markdown changelog, newest version first.
// Entries that carry an error are left out.
func Render(entries []Entry) string {
	var b strings.Builder
	b.WriteString("# Changelog\n")
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Err != nil || e.Result == nil {
			continue
		}
		b.WriteString("\n")
		writeResult(&b, e.To, e.Result)
	}
	return b.String()
}

// RenderResult writes a single comparison as a Markdown section titled label.
func RenderResult(label string, result *differ.Result) string {
	var b strings.Builder
	writeResult(&b, label, result)
	return b.String()
}

func writeResult(b *strings.Builder, label string, result *differ.Result) {
	fmt.Fprintf(b, "## %s\n\n", label)
	fmt.Fprintf(b, "%d total, %d added, %d removed, %d changed\n",
		result.TotalRoutes(), len(result.AddedRoutes), len(result.DeletedRoutes), len(result.ChangedRoutes))

	writeRoutes(b, "Added Routes", result.AddedRoutes)
	writeRoutes(b, "Deleted Routes", result.DeletedRoutes)
	writeRoutes(b, "Changed Routes", result.ChangedRoutes)
}

// writeRoutes lists routes with their methods padded one past the longest.
func writeRoutes(b *strings.Builder, title string, routes []differ.Route) {
	if len(routes) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)

	upper := cases.Upper(language.Und)
	width := 0
	for _, r := range routes {
		width = max(width, len(r.Method))
	}
	for _, r := range routes {
		fmt.Fprintf(b, "- %-*s %s\n", width+1, upper.String(r.Method), r.Path)
	}
}
