package view

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/fhgr/curnav/pkg/depgraph"
)

// Edge colours.
const (
	ColorHard   = "#2c3e50"
	ColorSoft   = "#bdc3c7"
	ColorHidden = "#ecf0f1"
)

// Edge widths and opacities.
const (
	WidthShown  = 2.0
	WidthHidden = 1.0

	OpacityActive  = 1.0
	OpacityHard    = 0.6
	OpacitySoft    = 0.4
	OpacityHidden  = 0.1
	OpacityFaded   = 0.15
	OpacityVisible = 1.0
)

// Node marker sizes.
const (
	SizeNormal = 30.0
	SizeFaded  = 15.0
)

// FallbackColor is used for groups missing from the palette.
const FallbackColor = "#999"

// HoverWidth is the column at which hover text paragraphs wrap.
const HoverWidth = 60

// Palette maps module groups to colours.
type Palette map[string]string

// DefaultPalette returns the colours of the BSc Information Science groups.
func DefaultPalette() Palette {
	return Palette{
		"Informatik":                     "#4b92a4",
		"Major GLAM":                     "#b39048",
		"Major IDMM":                     "#2b6777",
		"Informationswissenschaft":       "#7a7760",
		"Vertiefungsstudium":             "#6c757d",
		"Methodik":                       "#17a2b8",
		"Betriebsökonomie":               "#343a40",
		"Common":                         "#adb5bd",
		"Arbeits- & Forschungs-Methodik": "#7B3F52",
		"Informationsmethodik":           "#8DAA91",
		"Gesellschaft und Fremdsprachen": "#D18B60",
	}
}

// Color returns the colour of group, or [FallbackColor].
func (p Palette) Color(group string) string {
	if c, ok := p[group]; ok && c != "" {
		return c
	}
	return FallbackColor
}

// Merge returns a copy of p with the entries of other added or replaced.
func (p Palette) Merge(other map[string]string) Palette {
	out := make(Palette, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// EdgeColor returns the colour of a shown edge of the given kind.
func EdgeColor(k depgraph.Kind) string {
	if k == depgraph.KindHard {
		return ColorHard
	}
	return ColorSoft
}

// HoverText renders the tooltip for a module. Empty fields fall back to
// German placeholders and the free-text paragraphs wrap at [HoverWidth].
func HoverText(n depgraph.Node) string {
	resp := orDefault(n.Responsible, "Unbekannt")
	desc := orDefault(n.Description, "Keine Beschreibung")
	goals := orDefault(n.LearningGoals, "Keine Lernziele")

	var b strings.Builder
	b.WriteString(n.Label())
	b.WriteString("\nSemester: ")
	b.WriteString(n.Semester)
	b.WriteString("\nVerantwortlich: ")
	b.WriteString(resp)
	b.WriteString("\n\n")
	b.WriteString(Wrap(desc, HoverWidth))
	b.WriteString("\n\nLernziele:\n")
	b.WriteString(Wrap(goals, HoverWidth))
	return b.String()
}

// Wrap collapses whitespace in s and wraps it at width columns. Words longer
// than width are broken.
func Wrap(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	lines := strings.Split(ansi.Wrap(s, width, ""), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
