package records

import (
	"math"
	"slices"
	"testing"
)

func TestNormalize(t *testing.T) {
	rows := []Row{
		{
			ColID: "  INF1 ", ColName: "Programmieren", ColGroup: "Informatik",
			ColSemester: 1.0, ColCredits: 6.0, ColTags: "Code; Logik;;Code",
			ColHardPrereqs: "", ColSoftPrereqs: nil,
		},
		{
			ColID: "INF2", ColName: "Datenbanken", ColGroup: "Informatik",
			ColSemester: "2,4", ColCredits: "3", ColHardPrereqs: "INF1; EXT9 ",
		},
	}

	res := Normalize(rows)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if len(res.Modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(res.Modules))
	}

	m := res.Modules[0]
	if m.ID != "INF1" {
		t.Errorf("ID = %q, want trimmed INF1", m.ID)
	}
	if m.Semester != "1" {
		t.Errorf("Semester = %q, want 1", m.Semester)
	}
	if m.Credits != 6 {
		t.Errorf("Credits = %v, want 6", m.Credits)
	}
	if !slices.Equal(m.Tags, []string{"Code", "Logik"}) {
		t.Errorf("Tags = %v, want [Code Logik]", m.Tags)
	}
	if m.HardPrereqs != nil || m.SoftPrereqs != nil {
		t.Errorf("empty prerequisite cells should yield nil, got %v / %v", m.HardPrereqs, m.SoftPrereqs)
	}

	m2 := res.Modules[1]
	if m2.Credits != 3 {
		t.Errorf("string credits = %v, want 3", m2.Credits)
	}
	if !slices.Equal(m2.HardPrereqs, []string{"INF1", "EXT9"}) {
		t.Errorf("HardPrereqs = %v", m2.HardPrereqs)
	}
}

func TestNormalizeMissingColumns(t *testing.T) {
	res := Normalize([]Row{{ColID: "X"}})
	if len(res.Modules) != 1 {
		t.Fatalf("got %d modules, want 1", len(res.Modules))
	}
	m := res.Modules[0]
	if m.Name != "" || m.Group != "" || m.Semester != "" || m.Credits != 0 || m.Tags != nil {
		t.Errorf("missing columns should be zero values, got %+v", m)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("absent credits are not an issue, got %v", res.Diagnostics)
	}
}

func TestNormalizeDataQuality(t *testing.T) {
	tests := []struct {
		name        string
		rows        []Row
		wantModules []string
		wantKind    IssueKind
		wantRow     int
	}{
		{
			name:        "EmptyID",
			rows:        []Row{{ColID: "  "}, {ColID: "A"}},
			wantModules: []string{"A"},
			wantKind:    IssueEmptyID,
			wantRow:     0,
		},
		{
			name:        "NilID",
			rows:        []Row{{ColName: "orphan"}},
			wantModules: nil,
			wantKind:    IssueEmptyID,
			wantRow:     0,
		},
		{
			name:        "DuplicateFirstWins",
			rows:        []Row{{ColID: "A", ColName: "first"}, {ColID: "A ", ColName: "second"}},
			wantModules: []string{"A"},
			wantKind:    IssueDuplicateID,
			wantRow:     1,
		},
		{
			name:        "NonNumericCredits",
			rows:        []Row{{ColID: "A", ColCredits: "viele"}},
			wantModules: []string{"A"},
			wantKind:    IssueNonNumericCredits,
			wantRow:     0,
		},
		{
			name:        "NaNCredits",
			rows:        []Row{{ColID: "A", ColCredits: math.NaN()}},
			wantModules: []string{"A"},
			wantKind:    IssueNonNumericCredits,
			wantRow:     0,
		},
		{
			name:        "NegativeCredits",
			rows:        []Row{{ColID: "A", ColCredits: -3}},
			wantModules: []string{"A"},
			wantKind:    IssueNegativeCredits,
			wantRow:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(tt.rows)

			var ids []string
			for _, m := range res.Modules {
				ids = append(ids, m.ID)
				if m.Credits != 0 && tt.wantKind != IssueDuplicateID && tt.wantKind != IssueEmptyID {
					t.Errorf("credits for %s = %v, want fallback 0", m.ID, m.Credits)
				}
			}
			if !slices.Equal(ids, tt.wantModules) {
				t.Errorf("modules = %v, want %v", ids, tt.wantModules)
			}
			if len(res.Diagnostics) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(res.Diagnostics), res.Diagnostics)
			}
			d := res.Diagnostics[0]
			if d.Kind != tt.wantKind || d.Row != tt.wantRow {
				t.Errorf("diagnostic = %+v, want kind %s row %d", d, tt.wantKind, tt.wantRow)
			}
		})
	}
}

func TestDuplicateKeepsFirstRecord(t *testing.T) {
	res := Normalize([]Row{{ColID: "A", ColName: "first"}, {ColID: "A", ColName: "second"}})
	if res.Modules[0].Name != "first" {
		t.Errorf("Name = %q, want first", res.Modules[0].Name)
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{101.0, "101"},
		{2.5, "2.5"},
		{math.NaN(), ""},
		{int64(7), "7"},
		{3, "3"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := cellText(tt.in); got != tt.want {
			t.Errorf("cellText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"a", []string{"a"}},
		{" a ; b ;", []string{"a", "b"}},
		{";;", nil},
		{"a;a;b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDiagnosticsCount(t *testing.T) {
	d := Diagnostics{
		{Kind: IssueEmptyID}, {Kind: IssueEmptyID}, {Kind: IssueDanglingPrereq},
	}
	if got := d.Count(IssueEmptyID); got != 2 {
		t.Errorf("Count(empty_id) = %d, want 2", got)
	}
	if got := d.ByKind()[IssueDanglingPrereq]; got != 1 {
		t.Errorf("ByKind()[dangling] = %d, want 1", got)
	}
}
