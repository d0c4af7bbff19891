package xiangqi

import (
	"bytes"
	"fmt"
	"strings"

	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
)

func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stop-color: #"), []byte("stop-color:#"))
	return fixed
}

// boardGeometry maps intersections to pixels inside the board SVG.
type boardGeometry struct {
	cell int
	pad  int
}

func newBoardGeometry(cell int) boardGeometry {
	return boardGeometry{cell: cell, pad: cell * 3 / 4}
}

func (g boardGeometry) width() int  { return (core.Files-1)*g.cell + 2*g.pad }
func (g boardGeometry) height() int { return (core.Ranks-1)*g.cell + 2*g.pad }

func (g boardGeometry) point(c core.Coord) (int, int) {
	return g.pad + c.File*g.cell, g.pad + c.Rank*g.cell
}

// boardSVG draws the wooden background, the grid with its river gap and both
// palaces.
func boardSVG(g boardGeometry) []byte {
	var sb strings.Builder
	w, h := g.width(), g.height()
	stroke := max(1, g.cell/32)
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" fill="#e8c48c"/>`, w, h)

	var d strings.Builder
	line := func(a, b core.Coord) {
		x1, y1 := g.point(a)
		x2, y2 := g.point(b)
		fmt.Fprintf(&d, "M%d %d L%d %d ", x1, y1, x2, y2)
	}
	for r := 0; r < core.Ranks; r++ {
		line(core.C(0, r), core.C(core.Files-1, r))
	}
	for f := 0; f < core.Files; f++ {
		if f == 0 || f == core.Files-1 {
			line(core.C(f, 0), core.C(f, core.Ranks-1))
			continue
		}
		line(core.C(f, 0), core.C(f, 4))
		line(core.C(f, 5), core.C(f, core.Ranks-1))
	}
	line(core.C(3, 0), core.C(5, 2))
	line(core.C(5, 0), core.C(3, 2))
	line(core.C(3, 7), core.C(5, 9))
	line(core.C(5, 7), core.C(3, 9))
	fmt.Fprintf(&sb, `<path d="%s" fill="none" stroke="#5b3a1e" stroke-width="%d"/>`, strings.TrimSpace(d.String()), stroke)

	x0, y0 := g.point(core.C(0, 0))
	x1, y1 := g.point(core.C(core.Files-1, core.Ranks-1))
	border := g.cell / 8
	fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#5b3a1e" stroke-width="%d"/>`,
		x0-border, y0-border, x1-x0+2*border, y1-y0+2*border, stroke*2)
	sb.WriteString(`</svg>`)
	return sanitizeSVG([]byte(sb.String()))
}

// pieceSVG draws the disc for a piece; the letter is stamped afterwards.
func pieceSVG(p core.Piece, size int) []byte {
	ink := "#b3261e"
	if p.Side == core.Black {
		ink = "#1f1f1f"
	}
	c := float64(size) / 2
	outer := c - 1
	inner := outer * 0.78
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, size, size, size)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#f6e7c8" stroke="%s" stroke-width="%.1f"/>`, c, c, outer, ink, float64(size)/24)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="%.1f"/>`, c, c, inner, ink, float64(size)/48)
	sb.WriteString(`</svg>`)
	return sanitizeSVG([]byte(sb.String()))
}
