package explore

import (
	"slices"
	"strings"

	"github.com/fhgr/curnav/pkg/errors"
	"github.com/fhgr/curnav/pkg/records"
)

// FilterSpec selects modules by semester, tags and groups.
type FilterSpec struct {
	Semester string   `json:"semester" yaml:"semester" validate:"omitempty,max=16"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty" validate:"dive,required"`
	Groups   []string `json:"groups,omitempty" yaml:"groups,omitempty" validate:"dive,required"`
}

// All returns the filter that every module passes.
func All() FilterSpec { return FilterSpec{Semester: records.AllSemesters} }

// IsAll reports whether the semester predicate passes every module.
func (f FilterSpec) IsAll() bool {
	s := strings.TrimSpace(f.Semester)
	return s == "" || strings.EqualFold(s, records.AllSemesters)
}

// Validate checks the filter values for obviously malformed input.
func (f FilterSpec) Validate() error {
	if err := errors.ValidateSemester(f.Semester); err != nil {
		return err
	}
	for _, v := range append(slices.Clone(f.Tags), f.Groups...) {
		if strings.TrimSpace(v) == "" {
			return errors.New(errors.ErrCodeInvalidFilter, "filter values must not be blank")
		}
	}
	return nil
}

// Match reports whether m passes all three predicates of f.
func (f FilterSpec) Match(m records.Module) bool {
	if !f.IsAll() && !strings.Contains(m.Semester, strings.TrimSpace(f.Semester)) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, m.HasTag) {
		return false
	}
	if len(f.Groups) > 0 && !slices.Contains(f.Groups, m.Group) {
		return false
	}
	return true
}

// Unknown returns the requested tags and groups that no module carries.
// They are not errors: such a filter simply selects nothing in that category.
func Unknown(f FilterSpec, mods []records.Module) (tags, groups []string) {
	known := records.Tags(mods)
	for _, t := range f.Tags {
		if !slices.Contains(known, t) && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	known = records.Groups(mods)
	for _, g := range f.Groups {
		if !slices.Contains(known, g) && !slices.Contains(groups, g) {
			groups = append(groups, g)
		}
	}
	return tags, groups
}
