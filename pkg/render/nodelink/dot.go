package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/fhgr/curnav/pkg/layout"
	"github.com/fhgr/curnav/pkg/view"
)

// DefaultScale maps layout units to inches.
const DefaultScale = 6.0

// Options configures DOT generation.
type Options struct {
	// Scale multiplies layout coordinates. Zero selects DefaultScale.
	Scale float64

	// ShowHidden also draws edges the view marks as not visible.
	ShowHidden bool

	// Legend adds a box listing the module groups and their colours.
	Legend bool
}

// ToDOT converts a network view to DOT source for neato.
func ToDOT(net view.Network, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("digraph curriculum {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontname=\"Roboto\", fontsize=10, color=white, penwidth=2, label=\"\"];\n")
	buf.WriteString("  edge [arrowhead=normal, arrowsize=0.7];\n")

	for _, g := range net.Groups {
		fmt.Fprintf(&buf, "\n  // %s\n", g.Group)
		for _, n := range g.Nodes {
			attrs := []string{
				fmt.Sprintf("pos=\"%s,%s!\"", coord(n.Pos.X*scale), coord(n.Pos.Y*scale)),
				fmt.Sprintf("width=%s", coord(n.Size/72)),
				fmt.Sprintf("fillcolor=%q", withAlpha(g.Color, n.Opacity)),
				fmt.Sprintf("xlabel=%q", n.DisplayText),
				fmt.Sprintf("tooltip=%q", n.HoverText),
			}
			if n.Highlighted && n.ID == net.Focus {
				attrs = append(attrs, "color=\"#b39048\"", "penwidth=4")
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("\n")
	for _, e := range net.Edges {
		if !e.Visible && !opts.ShowHidden {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=%s];\n",
			e.From, e.To, withAlpha(e.Color, e.Opacity), coord(e.Width))
	}

	if opts.Legend && len(net.Groups) > 0 {
		writeLegend(&buf, net, scale)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeLegend places the group legend to the right of the top-right node.
func writeLegend(buf *bytes.Buffer, net view.Network, scale float64) {
	pos := layout.Positions{}
	for _, g := range net.Groups {
		for _, n := range g.Nodes {
			pos[n.ID] = n.Pos
		}
	}
	_, hi := pos.Bounds()

	var rows strings.Builder
	rows.WriteString("<TABLE BORDER=\"0\" CELLBORDER=\"0\" CELLSPACING=\"2\">")
	rows.WriteString("<TR><TD COLSPAN=\"2\"><B>Modulgruppen</B></TD></TR>")
	for _, g := range net.Groups {
		fmt.Fprintf(&rows, "<TR><TD BGCOLOR=\"%s\" WIDTH=\"12\"></TD><TD ALIGN=\"LEFT\">%s</TD></TR>",
			g.Color, htmlEscape(g.Group))
	}
	rows.WriteString("</TABLE>")
	fmt.Fprintf(buf, "\n  legend [shape=plaintext, style=\"\", fixedsize=false, pos=\"%s,%s!\", label=<%s>];\n",
		coord((hi.X+0.4)*scale), coord(hi.Y*scale), rows.String())
}

func coord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// withAlpha appends an alpha channel to a #rgb or #rrggbb colour.
// Named colours and malformed values are returned unchanged.
func withAlpha(color string, opacity float64) string {
	hex, ok := strings.CutPrefix(color, "#")
	if !ok || !isHex(hex) {
		return color
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color
	}
	a := int(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
	return fmt.Sprintf("#%s%02x", strings.ToLower(hex), a)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

var htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")

func htmlEscape(s string) string { return htmlReplacer.Replace(s) }

// RenderSVG lays out and renders DOT source with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT source to PNG without external tools.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces graphviz's fixed pt-sized root element with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
