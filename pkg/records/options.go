package records

import (
	"maps"
	"slices"
	"strconv"
)

// AllSemesters is the semester filter sentinel matching every module.
const AllSemesters = "ALL"

// SemesterCount is the number of regular semesters offered as filter options.
const SemesterCount = 6

// Option is a labelled filter choice.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SemesterOptions returns the semester filter choices 1..SemesterCount
// followed by the [AllSemesters] option.
func SemesterOptions() []Option {
	opts := make([]Option, 0, SemesterCount+1)
	for i := 1; i <= SemesterCount; i++ {
		v := strconv.Itoa(i)
		opts = append(opts, Option{Label: "Semester " + v, Value: v})
	}
	return append(opts, Option{Label: "Alle Semester", Value: AllSemesters})
}

// Tags returns the distinct tags of all modules in sorted order.
func Tags(mods []Module) []string {
	set := make(map[string]struct{})
	for _, m := range mods {
		for _, t := range m.Tags {
			set[t] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Groups returns the distinct module groups in sorted order.
// Modules without a group contribute the empty string.
func Groups(mods []Module) []string {
	set := make(map[string]struct{})
	for _, m := range mods {
		set[m.Group] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}
