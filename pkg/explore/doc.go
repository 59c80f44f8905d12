// Package explore filters curriculum modules and aggregates their credits.
//
// A [FilterSpec] combines three categories of predicates. Within a category
// the requested values are OR-matched; across categories they are
// AND-matched:
//
//   - Semester: "ALL" (or empty) passes every module, any other value passes
//     modules whose semester field contains it as a substring, so "3" matches
//     a composite "3,5".
//   - Tags: an empty set passes everything, otherwise the module must carry at
//     least one requested tag.
//   - Groups: an empty set passes everything, otherwise the module's group must
//     be one of the requested groups.
//
// [Apply] returns the surviving modules together with a two-level [Summary]
// (group, then module) of ECTS credits. When nothing survives the summary is
// nil and [Result.Empty] reports true, which callers use to render a "no data"
// state distinct from a set of zero-credit modules.
package explore
