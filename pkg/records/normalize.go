package records

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Result is the output of [Normalize].
type Result struct {
	Modules     []Module
	Diagnostics Diagnostics
}

// Normalize converts raw rows into modules.
//
// Rows are processed in order. Rows without an ID are dropped, and for
// duplicate IDs the first row wins. Every recovered problem is reported in
// Result.Diagnostics; Normalize itself never fails.
func Normalize(rows []Row) Result {
	var res Result
	seen := make(map[string]int, len(rows))

	for i, row := range rows {
		id := strings.TrimSpace(cellText(row[ColID]))
		if id == "" {
			res.Diagnostics = append(res.Diagnostics, Issue{
				Kind:   IssueEmptyID,
				Row:    i,
				Detail: "row has no module ID and was dropped",
			})
			continue
		}
		if first, dup := seen[id]; dup {
			res.Diagnostics = append(res.Diagnostics, Issue{
				Kind:     IssueDuplicateID,
				Row:      i,
				ModuleID: id,
				Detail:   fmt.Sprintf("duplicate of row %d, dropped", first),
			})
			continue
		}
		seen[id] = i

		credits, issue := parseCredits(row[ColCredits])
		if issue != nil {
			issue.Row = i
			issue.ModuleID = id
			res.Diagnostics = append(res.Diagnostics, *issue)
		}

		res.Modules = append(res.Modules, Module{
			ID:            id,
			Name:          cellText(row[ColName]),
			Group:         cellText(row[ColGroup]),
			Semester:      cellText(row[ColSemester]),
			Credits:       credits,
			Description:   cellText(row[ColDescription]),
			LearningGoals: cellText(row[ColLearningGoals]),
			Responsible:   cellText(row[ColResponsible]),
			Tags:          SplitList(cellText(row[ColTags])),
			HardPrereqs:   SplitList(cellText(row[ColHardPrereqs])),
			SoftPrereqs:   SplitList(cellText(row[ColSoftPrereqs])),
		})
	}
	return res
}

// cellText renders a raw cell as text. Missing cells and NaN become "".
// Integral floats drop their fraction so that a spreadsheet ID 101.0 reads "101".
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseCredits coerces a credit cell. Missing cells are 0 without an issue.
func parseCredits(v any) (float64, *Issue) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		s := strings.TrimSpace(cellText(v))
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, &Issue{Kind: IssueNonNumericCredits, Detail: fmt.Sprintf("credits %q are not numeric, using 0", s)}
		}
		f = parsed
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &Issue{Kind: IssueNonNumericCredits, Detail: "credits are not a finite number, using 0"}
	}
	if f < 0 {
		return 0, &Issue{Kind: IssueNegativeCredits, Detail: fmt.Sprintf("credits %v are negative, using 0", f)}
	}
	return f, nil
}
