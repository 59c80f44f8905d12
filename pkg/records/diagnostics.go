package records

import "fmt"

// IssueKind classifies a data-quality problem.
type IssueKind string

const (
	IssueEmptyID           IssueKind = "empty_id"
	IssueDuplicateID       IssueKind = "duplicate_id"
	IssueNonNumericCredits IssueKind = "non_numeric_credits"
	IssueNegativeCredits   IssueKind = "negative_credits"
	IssueDanglingPrereq    IssueKind = "dangling_prerequisite"
)

// Issue is a single recovered data-quality problem.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Row      int       `json:"row"` // zero-based input row, -1 when not row-specific
	ModuleID string    `json:"module_id,omitempty"`
	Detail   string    `json:"detail"`
}

func (i Issue) String() string {
	if i.ModuleID != "" {
		return fmt.Sprintf("%s (row %d, module %s): %s", i.Kind, i.Row, i.ModuleID, i.Detail)
	}
	return fmt.Sprintf("%s (row %d): %s", i.Kind, i.Row, i.Detail)
}

// Diagnostics is the list of issues collected while loading a dataset.
type Diagnostics []Issue

// Count returns the number of issues of the given kind.
func (d Diagnostics) Count(kind IssueKind) int {
	n := 0
	for _, i := range d {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

// ByKind groups issue counts by kind.
func (d Diagnostics) ByKind() map[IssueKind]int {
	m := make(map[IssueKind]int)
	for _, i := range d {
		m[i.Kind]++
	}
	return m
}
