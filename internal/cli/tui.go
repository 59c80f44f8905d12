package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/depgraph"
	"github.com/fhgr/curnav/pkg/records"
	"github.com/fhgr/curnav/pkg/session"
	"github.com/fhgr/curnav/pkg/view"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listNormal     = lipgloss.NewStyle().Foreground(colorWhite)
	listHighlight  = lipgloss.NewStyle().Foreground(colorCyan)
	listFocusStyle = lipgloss.NewStyle().Foreground(colorGold).Bold(true)
	listErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// semesterCycle is the order the semester filter steps through.
var semesterCycle = func() []string {
	out := []string{records.AllSemesters}
	for _, o := range records.SemesterOptions() {
		if o.Value != records.AllSemesters {
			out = append(out, o.Value)
		}
	}
	return out
}()

// =============================================================================
// ExploreModel - Interactive curriculum navigator
// =============================================================================

// ExploreModel is the bubbletea model of `curnav explore`. Every key press
// maps onto one session trigger; the views are recomputed from the session.
type ExploreModel struct {
	ds      *dataset.Dataset
	palette view.Palette
	tags    []string

	Session *session.Session
	Cursor  int
	Offset  int
	Height  int

	highlight depgraph.Highlight
	summary   view.Summary
	visible   int
	err       error
}

// NewExploreModel creates a navigator over ds driven by sess.
func NewExploreModel(ds *dataset.Dataset, sess *session.Session, pal view.Palette) ExploreModel {
	m := ExploreModel{
		ds:      ds,
		palette: pal,
		tags:    records.Tags(ds.Modules),
		Session: sess,
		Height:  15,
	}
	if sess.Focus != "" {
		if i := slices.IndexFunc(ds.Modules, func(mod records.Module) bool { return mod.ID == sess.Focus }); i >= 0 {
			m.Cursor = i
			m.scroll()
		}
	}
	m.refresh()
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.scroll()
			}
		case "down", "j":
			if m.Cursor < len(m.ds.Modules)-1 {
				m.Cursor++
				m.scroll()
			}
		case "enter", " ":
			if len(m.ds.Modules) > 0 {
				m.err = m.Session.SelectNode(m.ds.Graph, m.ds.Modules[m.Cursor].ID)
			}
		case "esc", "r":
			m.Session.ResetSelection()
		case "h":
			e := m.Session.Edges
			e.Hard = !e.Hard
			m.Session.SetEdgeKindVisibility(e)
		case "s":
			e := m.Session.Edges
			e.Soft = !e.Soft
			m.Session.SetEdgeKindVisibility(e)
		case "f":
			f := m.Session.Filter
			f.Semester = next(semesterCycle, f.Semester)
			m.err = m.Session.SetFilter(f)
		case "t":
			f := m.Session.Filter
			cur := ""
			if len(f.Tags) > 0 {
				cur = f.Tags[0]
			}
			f.Tags = nil
			if t := next(append([]string{""}, m.tags...), cur); t != "" {
				f.Tags = []string{t}
			}
			m.err = m.Session.SetFilter(f)
		}
		m.refresh()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
		m.scroll()
	}
	return m, nil
}

// next returns the element after cur in cycle, wrapping around. An unknown
// cur yields the first element.
func next(cycle []string, cur string) string {
	i := slices.Index(cycle, cur)
	return cycle[(i+1)%len(cycle)]
}

func (m *ExploreModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// refresh recomputes highlight, summary and edge counts from the session.
func (m *ExploreModel) refresh() {
	m.highlight = depgraph.Highlight{}
	if m.Session.Focus != "" {
		if h, err := m.ds.Graph.Reachable(m.Session.Focus); err == nil {
			m.highlight = h
		}
	}
	m.summary = view.BuildSummary(m.ds, m.Session.Filter, m.palette)
	if net, err := view.BuildNetwork(m.ds, m.Session.ViewState(), m.palette); err == nil {
		m.visible = net.VisibleEdges()
	}
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.ds.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  r reset  h/s hard/soft edges  f semester  t tag  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.ds.Modules))
	inFilter := make(map[string]bool, len(m.summary.ModuleIDs))
	for _, id := range m.summary.ModuleIDs {
		inFilter[id] = true
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		mod := m.ds.Modules[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		match := ""
		if inFilter[mod.ID] {
			match = "✓"
		}
		rows = append(rows, []string{cursor, mod.ID, mod.Name, mod.Group, mod.Semester, formatCredits(mod.Credits), match})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Group", "Sem", "ECTS", "Filter").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.ds.Modules) {
				return lipgloss.NewStyle()
			}
			return m.rowStyle(m.ds.Modules[idx].ID, idx == m.Cursor)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m ExploreModel) rowStyle(id string, current bool) lipgloss.Style {
	var s lipgloss.Style
	switch {
	case id == m.Session.Focus:
		s = listFocusStyle
	case m.Session.Focus == "":
		s = listNormal
	case m.highlight.Contains(id):
		s = listHighlight
	default:
		s = listDimStyle
	}
	if current {
		s = s.Bold(true)
	}
	return s
}

func (m ExploreModel) statusLine() string {
	var b strings.Builder

	if m.Session.Focus != "" {
		b.WriteString(listFocusStyle.Render("Focus " + m.Session.Focus))
		b.WriteString(listDimStyle.Render(fmt.Sprintf(" · %d highlighted", m.highlight.Len())))
	} else {
		b.WriteString(listDimStyle.Render("No focus"))
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf(" · hard %s soft %s · %d edges visible",
		onOff(m.Session.Edges.Hard), onOff(m.Session.Edges.Soft), m.visible)))
	b.WriteString("\n")

	f := m.Session.Filter
	tag := "any"
	if len(f.Tags) > 0 {
		tag = strings.Join(f.Tags, ",")
	}
	b.WriteString(listDimStyle.Render("Semester " + f.Semester + " · tag " + tag + " · "))
	if m.summary.Empty {
		b.WriteString(StyleWarning.Render("no matching modules"))
	} else {
		b.WriteString(StyleNumber.Render(formatCredits(m.summary.TotalCredits) + " ECTS"))
		b.WriteString(listDimStyle.Render(" in " + strconv.Itoa(len(m.summary.ModuleIDs)) + " modules"))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(listErrorStyle.Render(m.err.Error()))
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
