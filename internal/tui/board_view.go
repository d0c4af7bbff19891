package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
	"github.com/park285/Cheese-Xiangqi/pkg/xiangqidto"
)

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	blackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderBoard draws the board with rank 0 on top. Red is upper-case, Black is
// lower-case and '*' marks a legal target.
func RenderBoard(state *xiangqidto.SessionState, targets []xiangqidto.Coord) string {
	if state == nil {
		return "no game\n\ntype: new"
	}
	marked := make(map[xiangqidto.Coord]bool, len(targets))
	for _, t := range targets {
		marked[t] = true
	}

	var b strings.Builder
	b.WriteString("  ")
	for f := 0; f < core.Files; f++ {
		b.WriteString(" " + strconv.Itoa(f))
	}
	b.WriteString("\n")

	for r := 0; r < core.Ranks; r++ {
		if r == core.Ranks/2 {
			b.WriteString(dimStyle.Render("   ~ ~ ~ ~ ~ ~ ~ ~ ~") + "\n")
		}
		b.WriteString(strconv.Itoa(r) + " ")
		for f := 0; f < core.Files; f++ {
			b.WriteString(" ")
			c := xiangqidto.Coord{File: f, Rank: r}
			p := state.State.Board[r][f]
			switch {
			case marked[c] && p != nil:
				b.WriteString(targetStyle.Render(cellText(p)))
			case marked[c]:
				b.WriteString(targetStyle.Render("*"))
			case p == nil:
				b.WriteString(dimStyle.Render("."))
			case p.Side == "red":
				b.WriteString(redStyle.Render(cellText(p)))
			default:
				b.WriteString(blackStyle.Render(cellText(p)))
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func cellText(p *xiangqidto.Piece) string {
	kind, _ := core.ParseKind(p.Kind)
	side, _ := core.ParseSide(p.Side)
	return string(core.PieceLetter(core.NewPiece(kind, side)))
}
