package xiangqipresenter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/Cheese-Xiangqi/internal/msgcat"
	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
	"github.com/park285/Cheese-Xiangqi/pkg/xiangqidto"
)

// Formatter renders DTOs into plain text using the message catalog.
type Formatter struct {
	catalog *msgcat.Catalog
}

func NewFormatter(catalog *msgcat.Catalog) *Formatter {
	return &Formatter{catalog: catalog}
}

func (f *Formatter) text(key string, data map[string]any, fallback string) string {
	if f == nil {
		return fallback
	}
	return f.catalog.RenderOr(key, data, fallback)
}

// Board draws rank 0 at the top. Red is upper-case, Black lower-case, '.' is
// empty and '*' marks a highlighted target.
func (f *Formatter) Board(board xiangqidto.Board, targets []xiangqidto.Coord) string {
	marked := make(map[xiangqidto.Coord]bool, len(targets))
	for _, t := range targets {
		marked[t] = true
	}

	var sb strings.Builder
	sb.WriteString("  ")
	for file := 0; file < core.Files; file++ {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(file))
	}
	sb.WriteByte('\n')
	for rank := 0; rank < core.Ranks; rank++ {
		fmt.Fprintf(&sb, "%d ", rank)
		for file := 0; file < core.Files; file++ {
			sb.WriteByte(' ')
			if marked[xiangqidto.Coord{File: file, Rank: rank}] {
				sb.WriteByte('*')
				continue
			}
			sb.WriteByte(pieceByte(board[rank][file]))
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func pieceByte(p *xiangqidto.Piece) byte {
	if p == nil {
		return '.'
	}
	kind, _ := core.ParseKind(p.Kind)
	side, _ := core.ParseSide(p.Side)
	return core.PieceLetter(core.NewPiece(kind, side))
}

func (f *Formatter) NewGame(state *xiangqidto.SessionState) string {
	if state == nil {
		return ""
	}
	lines := []string{
		f.text("game.new", nil, "New game started."),
		f.text("game.session", map[string]any{"Session": state.SessionUUID}, "Session "+state.SessionUUID),
	}
	return strings.Join(lines, "\n")
}

// Status summarises whose turn it is, check and the result.
func (f *Formatter) Status(state *xiangqidto.SessionState) string {
	if state == nil {
		return ""
	}
	st := state.State
	if st.Ended {
		return f.text("status.ended", map[string]any{"Winner": sideLabel(st.Winner), "Moves": state.MoveCount},
			sideLabel(st.Winner)+" won.")
	}
	line := f.text("status.turn", map[string]any{"Turn": sideLabel(st.Turn), "Moves": state.MoveCount + 1},
		sideLabel(st.Turn)+" to move")
	if st.InCheck {
		line += "\n" + f.text("status.check", map[string]any{"Turn": sideLabel(st.Turn)}, "Check!")
	}
	return line
}

func (f *Formatter) MoveLine(e xiangqidto.HistoryEntry) string {
	data := map[string]any{
		"Side":     sideLabel(e.Side),
		"Piece":    pieceName(e.Piece),
		"From":     coordText(e.From),
		"To":       coordText(e.To),
		"Captured": pieceName(e.Captured),
	}
	fallback := fmt.Sprintf("%s %s -> %s", sideLabel(e.Side), coordText(e.From), coordText(e.To))
	return f.text("move.applied", data, fallback)
}

func (f *Formatter) Move(summary *xiangqidto.MoveSummary) string {
	if summary == nil {
		return ""
	}
	lines := []string{f.MoveLine(summary.Move)}
	switch {
	case summary.Finished:
		lines = append(lines, f.text("game.over", map[string]any{"Winner": sideLabel(summary.Winner)}, "Game over."))
	case summary.Check && summary.State != nil:
		lines = append(lines, f.text("move.check", map[string]any{"Turn": sideLabel(summary.State.State.Turn)}, "Check."))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) Undo(state *xiangqidto.SessionState) string {
	if state == nil {
		return ""
	}
	turn := sideLabel(state.State.Turn)
	return f.text("undo.applied", map[string]any{"Turn": turn}, "Move taken back.")
}

func (f *Formatter) LegalMoves(from xiangqidto.Coord, piece *xiangqidto.Piece, targets []xiangqidto.Coord) string {
	if len(targets) == 0 {
		return f.text("moves.none", map[string]any{"From": coordText(from)}, "No legal moves.")
	}
	parts := make([]string, 0, len(targets))
	for _, t := range targets {
		parts = append(parts, coordText(t))
	}
	data := map[string]any{
		"Piece":   pieceName(piece),
		"From":    coordText(from),
		"Count":   len(targets),
		"Targets": strings.Join(parts, " "),
	}
	return f.text("moves.list", data, strings.Join(parts, " "))
}

// History lists rounds as "n. red-move  black-move".
func (f *Formatter) History(rounds []xiangqidto.Round) string {
	if len(rounds) == 0 {
		return f.text("history.empty", nil, "No moves yet.")
	}
	moves := 0
	lines := make([]string, 0, len(rounds)+1)
	for _, r := range rounds {
		red, black := "...", ""
		if r.Red != nil {
			red = shortMove(*r.Red)
			moves++
		}
		if r.Black != nil {
			black = shortMove(*r.Black)
			moves++
		}
		lines = append(lines, strings.TrimRight(f.text("history.round",
			map[string]any{"Number": r.Number, "Red": red, "Black": black},
			fmt.Sprintf("%d. %s  %s", r.Number, red, black)), " "))
	}
	header := f.text("history.header", map[string]any{"Moves": moves}, "Move history")
	return header + "\n" + strings.Join(lines, "\n")
}

func (f *Formatter) Captured(c xiangqidto.CapturedPieces) string {
	var lines []string
	for _, side := range []struct {
		name   string
		pieces []string
	}{{"red", c.Red}, {"black", c.Black}} {
		if len(side.pieces) == 0 {
			continue
		}
		list := strings.Join(side.pieces, ", ")
		lines = append(lines, f.text("captured.line",
			map[string]any{"Side": sideLabel(side.name), "Pieces": list}, list))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) Exported(path string) string {
	return f.text("export.saved", map[string]any{"Path": path}, path)
}

func (f *Formatter) Help() string {
	return f.text("help.text", nil, "new | move f,r f,r | undo | moves f,r | history | export | help | quit")
}

// Error renders any error through its catalog entry error.<Code>.
func (f *Formatter) Error(err error) string {
	if err == nil {
		return ""
	}
	de := ToDomainError(err)
	detail := core.Reason(err)
	if detail == "" {
		var me *core.MoveError
		if errors.As(err, &me) {
			detail = me.From.String() + " -> " + me.To.String()
		} else {
			detail = de.Message
		}
	}
	return f.text("error."+de.Code, map[string]any{"Detail": detail}, de.Error())
}

// InputError reports a command that could not be parsed.
func (f *Formatter) InputError(err error) string {
	return f.text("error.Input", map[string]any{"Detail": err.Error()}, err.Error())
}

func coordText(c xiangqidto.Coord) string {
	return strconv.Itoa(c.File) + "," + strconv.Itoa(c.Rank)
}

func shortMove(e xiangqidto.HistoryEntry) string {
	s := ""
	if e.Piece != nil {
		kind, _ := core.ParseKind(e.Piece.Kind)
		s = string(rune(kind.Letter()))
	}
	s += coordText(e.From) + "-" + coordText(e.To)
	if e.Captured != nil {
		s += "x"
	}
	return s
}

func pieceName(p *xiangqidto.Piece) string {
	if p == nil {
		return ""
	}
	return p.Kind
}

func sideLabel(side string) string {
	switch side {
	case "red":
		return "Red"
	case "black":
		return "Black"
	default:
		return side
	}
}
