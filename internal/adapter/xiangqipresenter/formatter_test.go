package xiangqipresenter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/park285/Cheese-Xiangqi/internal/msgcat"
	svc "github.com/park285/Cheese-Xiangqi/internal/service/xiangqi"
	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
	"github.com/park285/Cheese-Xiangqi/pkg/xiangqidto"
)

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return NewFormatter(cat)
}

func TestBoardText(t *testing.T) {
	f := newTestFormatter(t)
	board := ToDTOBoard(core.NewStandardBoard())

	got := f.Board(board, []xiangqidto.Coord{{File: 0, Rank: 8}, {File: 0, Rank: 7}})
	lines := strings.Split(got, "\n")
	if len(lines) != 11 {
		t.Fatalf("expected header + 10 ranks, got %d lines:\n%s", len(lines), got)
	}
	if lines[0] != "   0 1 2 3 4 5 6 7 8" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "0  r h e a g a e h r" {
		t.Fatalf("unexpected black back rank %q", lines[1])
	}
	if lines[8] != "7  * C . . . . . C ." {
		t.Fatalf("unexpected rank 7 %q", lines[8])
	}
	if lines[10] != "9  R H E A G A E H R" {
		t.Fatalf("unexpected red back rank %q", lines[10])
	}
}

func TestStatusAndMoveLines(t *testing.T) {
	f := newTestFormatter(t)
	st := &xiangqidto.SessionState{State: xiangqidto.GameState{Turn: "black", InCheck: true}, MoveCount: 3}
	got := f.Status(st)
	if !strings.Contains(got, "Black to move (move 4)") || !strings.Contains(got, "Black is in check!") {
		t.Fatalf("unexpected status %q", got)
	}

	ended := &xiangqidto.SessionState{State: xiangqidto.GameState{Ended: true, Winner: "red"}, MoveCount: 5}
	if got := f.Status(ended); got != "Finished: Red won after 5 moves." {
		t.Fatalf("unexpected ended status %q", got)
	}

	summary := &xiangqidto.MoveSummary{
		Move: xiangqidto.HistoryEntry{
			From: xiangqidto.Coord{File: 1, Rank: 7}, To: xiangqidto.Coord{File: 1, Rank: 0},
			Piece:    &xiangqidto.Piece{Kind: "cannon", Side: "red"},
			Captured: &xiangqidto.Piece{Kind: "horse", Side: "black"},
			Side:     "red",
		},
		Finished: true,
		Winner:   "red",
	}
	want := "Red cannon 1,7 -> 1,0, takes horse\nGame over. Red wins."
	if got := f.Move(summary); got != want {
		t.Fatalf("Move = %q, want %q", got, want)
	}
}

func TestHistoryText(t *testing.T) {
	f := newTestFormatter(t)
	if got := f.History(nil); got != "No moves yet." {
		t.Fatalf("unexpected empty history %q", got)
	}
	rounds := []xiangqidto.Round{
		{Number: 1,
			Red:   &xiangqidto.HistoryEntry{From: xiangqidto.Coord{File: 0, Rank: 9}, To: xiangqidto.Coord{File: 0, Rank: 8}, Piece: &xiangqidto.Piece{Kind: "chariot", Side: "red"}},
			Black: &xiangqidto.HistoryEntry{From: xiangqidto.Coord{File: 0, Rank: 0}, To: xiangqidto.Coord{File: 0, Rank: 1}, Piece: &xiangqidto.Piece{Kind: "chariot", Side: "black"}},
		},
		{Number: 2,
			Red: &xiangqidto.HistoryEntry{From: xiangqidto.Coord{File: 1, Rank: 7}, To: xiangqidto.Coord{File: 1, Rank: 0}, Piece: &xiangqidto.Piece{Kind: "cannon", Side: "red"}, Captured: &xiangqidto.Piece{Kind: "horse", Side: "black"}},
		},
	}
	want := "Move history (3 moves)\n1. R0,9-0,8  R0,0-0,1\n2. C1,7-1,0x"
	if got := f.History(rounds); got != want {
		t.Fatalf("History = %q, want %q", got, want)
	}
}

func TestLegalMovesText(t *testing.T) {
	f := newTestFormatter(t)
	from := xiangqidto.Coord{File: 1, Rank: 9}
	got := f.LegalMoves(from, &xiangqidto.Piece{Kind: "horse", Side: "red"}, []xiangqidto.Coord{{File: 0, Rank: 7}, {File: 2, Rank: 7}})
	if got != "horse at 1,9 can reach 2 squares: 0,7 2,7" {
		t.Fatalf("unexpected %q", got)
	}
	if got := f.LegalMoves(from, nil, nil); got != "No legal moves from 1,9." {
		t.Fatalf("unexpected %q", got)
	}
}

func TestErrorText(t *testing.T) {
	f := newTestFormatter(t)
	b := core.NewStandardBoard()

	err := fmt.Errorf("play: %w", core.Validate(b, core.C(1, 9), core.C(1, 8), core.Red))
	if got := f.Error(err); got != "Illegal move: horse moves in an L shape." {
		t.Fatalf("unexpected invalid move text %q", got)
	}
	if got := f.Error(core.Validate(b, core.C(0, 0), core.C(0, 1), core.Red)); got != "There is no piece of yours on that square." {
		t.Fatalf("unexpected not-your-piece text %q", got)
	}
	if got := f.Error(svc.ErrSessionNotFound); !strings.Contains(got, "new") {
		t.Fatalf("unexpected session text %q", got)
	}
	if got := f.Error(errors.New("disk on fire")); got != "Something went wrong: disk on fire" {
		t.Fatalf("unexpected unknown text %q", got)
	}
}

func TestToDomainError(t *testing.T) {
	cases := []struct {
		err       error
		code      string
		retryable bool
	}{
		{core.ErrNoHistory, core.CodeNoHistory, false},
		{fmt.Errorf("undo: %w", core.ErrNoHistory), core.CodeNoHistory, false},
		{svc.ErrTooManySessions, CodeTooManySessions, true},
		{context.Canceled, CodeCancelled, true},
		{errors.New("x"), CodeUnknown, false},
	}
	for _, tc := range cases {
		de := ToDomainError(tc.err)
		if de.Code != tc.code || de.Retryable != tc.retryable {
			t.Fatalf("ToDomainError(%v) = %+v", tc.err, de)
		}
	}
	if de := ToDomainError(nil); de.Code != "" {
		t.Fatalf("nil error should map to empty DomainError")
	}
}

func TestBoardDTORoundTrip(t *testing.T) {
	b := core.NewStandardBoard()
	back, err := FromDTOBoard(ToDTOBoard(b))
	if err != nil {
		t.Fatalf("FromDTOBoard: %v", err)
	}
	if !back.Equal(b) {
		t.Fatalf("board changed across DTO conversion")
	}

	var bad xiangqidto.Board
	bad[0][0] = &xiangqidto.Piece{Kind: "queen", Side: "red"}
	if _, err := FromDTOBoard(bad); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
