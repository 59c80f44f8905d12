package records

import (
	"slices"
	"strings"
)

// Column names of the curriculum workbook.
const (
	ColID            = "Modul_ID"
	ColName          = "Modul_Name"
	ColGroup         = "Modulgruppe"
	ColSemester      = "Semester"
	ColCredits       = "ECTS"
	ColDescription   = "Kurzbeschreibung"
	ColLearningGoals = "Lernziele"
	ColResponsible   = "Verantwortlich"
	ColTags          = "Tags"
	ColHardPrereqs   = "Voraussetzung_Hard"
	ColSoftPrereqs   = "Voraussetzung_Soft"
)

// Columns lists all recognized columns in workbook order.
var Columns = []string{
	ColID, ColName, ColGroup, ColSemester, ColCredits, ColDescription,
	ColLearningGoals, ColResponsible, ColTags, ColHardPrereqs, ColSoftPrereqs,
}

// ListSeparator separates tokens in list-valued cells (tags, prerequisites).
const ListSeparator = ";"

// Row is one raw spreadsheet row keyed by column name. Values may be nil,
// strings, or numbers as produced by the ingestion layer.
type Row map[string]any

// Module is a normalized curriculum module.
type Module struct {
	ID            string   `json:"id" bson:"id"`
	Name          string   `json:"name" bson:"name"`
	Group         string   `json:"group" bson:"group"`
	Semester      string   `json:"semester" bson:"semester"`
	Credits       float64  `json:"credits" bson:"credits"`
	Description   string   `json:"description,omitempty" bson:"description,omitempty"`
	LearningGoals string   `json:"learning_goals,omitempty" bson:"learning_goals,omitempty"`
	Responsible   string   `json:"responsible,omitempty" bson:"responsible,omitempty"`
	Tags          []string `json:"tags,omitempty" bson:"tags,omitempty"`
	HardPrereqs   []string `json:"hard_prereqs,omitempty" bson:"hard_prereqs,omitempty"`
	SoftPrereqs   []string `json:"soft_prereqs,omitempty" bson:"soft_prereqs,omitempty"`
}

// HasTag reports whether the module carries tag t.
func (m Module) HasTag(t string) bool { return slices.Contains(m.Tags, t) }

// SplitList splits a list-valued cell on [ListSeparator], trims each token
// and drops empty and repeated tokens. Token order is preserved.
// An empty cell yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(s, ListSeparator) {
		tok = strings.TrimSpace(tok)
		if tok == "" || slices.Contains(out, tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Index maps module IDs to their position in mods.
func Index(mods []Module) map[string]int {
	m := make(map[string]int, len(mods))
	for i, mod := range mods {
		m[mod.ID] = i
	}
	return m
}
