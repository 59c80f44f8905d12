// Package render converts rendered SVG documents to other formats.
//
// Network diagrams are produced as SVG by the [nodelink] subpackage. [ToPDF]
// and [ToPNG] convert any SVG using the external rsvg-convert tool (librsvg):
//
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)
package render
