package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/records"
	"github.com/fhgr/curnav/pkg/session"
	"github.com/fhgr/curnav/pkg/view"
)

func exploreDataset() *dataset.Dataset {
	mods := []records.Module{
		{ID: "A", Name: "Analysis", Group: "Mathematik", Semester: "1", Credits: 6, Tags: []string{"Informatik"}},
		{ID: "B", Name: "Bauen", Group: "Informatik", Semester: "2", Credits: 4, Tags: []string{"Informatik", "Praxis"}, HardPrereqs: []string{"A"}},
		{ID: "C", Name: "Cloud", Group: "Informatik", Semester: "3", Credits: 3, Tags: []string{"Praxis"}, HardPrereqs: []string{"B"}},
		{ID: "D", Name: "Design", Group: "Gestaltung", Semester: "1", Credits: 2, SoftPrereqs: []string{"A"}},
	}
	return dataset.New("test", mods, nil)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ExploreModel, keys ...string) ExploreModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ExploreModel)
	}
	return m
}

func TestExploreModelSelect(t *testing.T) {
	m := NewExploreModel(exploreDataset(), session.New(session.DefaultTTL), view.DefaultPalette())

	m = press(m, "j", "enter")
	if m.Cursor != 1 || m.Session.Focus != "B" {
		t.Fatalf("cursor = %d, focus = %q; want 1, B", m.Cursor, m.Session.Focus)
	}
	if m.highlight.Len() != 3 || m.highlight.Contains("D") {
		t.Errorf("highlight = %v, want A B C", m.highlight.IDs())
	}
	// With a focus only the edges inside the highlight set are visible.
	if m.visible != 2 {
		t.Errorf("visible edges = %d, want 2", m.visible)
	}
	if v := m.View(); !strings.Contains(v, "Focus B") || !strings.Contains(v, "3 highlighted") {
		t.Errorf("view missing focus status:\n%s", v)
	}

	m = press(m, "esc")
	if m.Session.Focus != "" || m.highlight.Len() != 0 {
		t.Errorf("reset left focus %q", m.Session.Focus)
	}
	if m.visible != 3 {
		t.Errorf("visible edges after reset = %d, want 3", m.visible)
	}
}

func TestExploreModelEdgesAndFilter(t *testing.T) {
	m := NewExploreModel(exploreDataset(), session.New(session.DefaultTTL), view.DefaultPalette())

	m = press(m, "s")
	if m.Session.Edges.Soft || !m.Session.Edges.Hard {
		t.Errorf("edges = %+v, want hard only", m.Session.Edges)
	}
	if m.visible != 2 {
		t.Errorf("visible edges = %d, want 2", m.visible)
	}

	m = press(m, "f", "t")
	if m.Session.Filter.Semester != "1" {
		t.Errorf("semester = %q, want 1", m.Session.Filter.Semester)
	}
	if len(m.Session.Filter.Tags) != 1 || m.Session.Filter.Tags[0] != "Informatik" {
		t.Errorf("tags = %v, want [Informatik]", m.Session.Filter.Tags)
	}
	if m.summary.Empty || len(m.summary.ModuleIDs) != 1 || m.summary.ModuleIDs[0] != "A" {
		t.Errorf("summary = %+v, want A only", m.summary)
	}

	// Five more presses reach semester 6, one more wraps to ALL.
	m = press(m, "f", "f", "f", "f", "f")
	if m.Session.Filter.Semester != "6" || !m.summary.Empty {
		t.Errorf("semester 6: semester = %q, empty = %v", m.Session.Filter.Semester, m.summary.Empty)
	}
	if !strings.Contains(m.View(), "no matching modules") {
		t.Error("view should show the empty result")
	}
	m = press(m, "f")
	if m.Session.Filter.Semester != records.AllSemesters {
		t.Errorf("semester = %q, want ALL", m.Session.Filter.Semester)
	}
}

func TestExploreModelResumeFocus(t *testing.T) {
	sess := session.New(session.DefaultTTL)
	sess.Focus = "C"
	m := NewExploreModel(exploreDataset(), sess, view.DefaultPalette())
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}
	if m.highlight.Len() != 3 {
		t.Errorf("highlight = %v", m.highlight.IDs())
	}
}

func TestExploreModelQuit(t *testing.T) {
	m := NewExploreModel(exploreDataset(), session.New(session.DefaultTTL), view.DefaultPalette())
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestNext(t *testing.T) {
	cycle := []string{"ALL", "1", "2"}
	tests := map[string]string{"ALL": "1", "2": "ALL", "": "ALL", "x": "ALL"}
	for cur, want := range tests {
		if got := next(cycle, cur); got != want {
			t.Errorf("next(%q) = %q, want %q", cur, got, want)
		}
	}
}

func TestResumeSession(t *testing.T) {
	c := testCLI(t)
	store := session.NewMemoryStore()
	ctx := context.Background()

	saved := session.New(session.DefaultTTL)
	saved.Focus = "B"
	if err := store.Set(ctx, saved); err != nil {
		t.Fatal(err)
	}

	got, err := c.resumeSession(ctx, store, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != saved.ID || got.Focus != "B" {
		t.Errorf("resumed %+v, want focus B of %s", got, saved.ID)
	}

	fresh, err := c.resumeSession(ctx, store, "")
	if err != nil || fresh.ID == saved.ID || fresh.Focus != "" {
		t.Errorf("empty id gave %+v, %v", fresh, err)
	}

	missing, err := c.resumeSession(ctx, store, "gone")
	if err != nil {
		t.Fatalf("missing session: %v", err)
	}
	if missing.ID == "gone" || missing.Focus != "" {
		t.Errorf("missing session gave %+v", missing)
	}
	if !strings.Contains(c.Out.(*bytes.Buffer).String(), "gone not found") {
		t.Errorf("no warning printed: %q", c.Out.(*bytes.Buffer).String())
	}
}
