package xiangqipresenter

import (
	"context"
	"errors"

	svc "github.com/park285/Cheese-Xiangqi/internal/service/xiangqi"
	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
	"github.com/park285/Cheese-Xiangqi/pkg/xiangqidto"
)

const (
	CodeSessionNotFound = "SessionNotFound"
	CodeTooManySessions = "TooManySessions"
	CodeServiceClosed   = "ServiceClosed"
	CodeCancelled       = "Cancelled"
	CodeUnknown         = "Unknown"
)

func ToDTOState(s *svc.SessionState) *xiangqidto.SessionState {
	if s == nil {
		return nil
	}
	return &xiangqidto.SessionState{
		SessionUUID: s.SessionUUID,
		State:       ToDTOGameState(s.State),
		History:     ToDTOEntries(s.History),
		Rounds:      ToDTORounds(s.Rounds),
		Captured:    toDTOCaptured(s.Captured),
		MoveCount:   s.MoveCount,
		BoardImage:  append([]byte(nil), s.BoardImage...),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ToDTOMoveSummary(m *svc.MoveSummary) *xiangqidto.MoveSummary {
	if m == nil {
		return nil
	}
	return &xiangqidto.MoveSummary{
		State:    ToDTOState(m.State),
		Move:     toDTOEntry(m.Move),
		Check:    m.Check,
		Finished: m.Finished,
		Winner:   m.Winner.String(),
	}
}

func ToDTOGameState(st core.GameState) xiangqidto.GameState {
	return xiangqidto.GameState{
		Board:   ToDTOBoard(&st.Board),
		Turn:    st.Turn.String(),
		InCheck: st.InCheck,
		Ended:   st.Ended,
		Winner:  st.Winner.String(),
	}
}

func ToDTOBoard(b *core.Board) xiangqidto.Board {
	var out xiangqidto.Board
	for _, o := range b.Pieces(core.NoSide) {
		out[o.At.Rank][o.At.File] = toDTOPiece(o.Piece)
	}
	return out
}

// FromDTOBoard rebuilds a core board; unknown kinds or sides are errors.
func FromDTOBoard(b xiangqidto.Board) (*core.Board, error) {
	out := core.NewBoard()
	for r := range b {
		for f, p := range b[r] {
			if p == nil {
				continue
			}
			kind, ok := core.ParseKind(p.Kind)
			if !ok {
				return nil, errors.New("unknown piece kind " + p.Kind)
			}
			side, ok := core.ParseSide(p.Side)
			if !ok {
				return nil, errors.New("unknown side " + p.Side)
			}
			out.Set(core.C(f, r), core.NewPiece(kind, side))
		}
	}
	return out, nil
}

func ToDTOEntries(entries []core.Entry) []xiangqidto.HistoryEntry {
	out := make([]xiangqidto.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toDTOEntry(e))
	}
	return out
}

func ToDTORounds(rounds []core.Round) []xiangqidto.Round {
	out := make([]xiangqidto.Round, 0, len(rounds))
	for _, r := range rounds {
		dr := xiangqidto.Round{Number: r.Number}
		if r.Red != nil {
			e := toDTOEntry(*r.Red)
			dr.Red = &e
		}
		if r.Black != nil {
			e := toDTOEntry(*r.Black)
			dr.Black = &e
		}
		out = append(out, dr)
	}
	return out
}

func ToDTOCoord(c core.Coord) xiangqidto.Coord {
	return xiangqidto.Coord{File: c.File, Rank: c.Rank}
}

func FromDTOCoord(c xiangqidto.Coord) core.Coord {
	return core.C(c.File, c.Rank)
}

func ToDTOCoords(cs []core.Coord) []xiangqidto.Coord {
	out := make([]xiangqidto.Coord, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToDTOCoord(c))
	}
	return out
}

func toDTOEntry(e core.Entry) xiangqidto.HistoryEntry {
	return xiangqidto.HistoryEntry{
		From:     ToDTOCoord(e.Record.From),
		To:       ToDTOCoord(e.Record.To),
		Piece:    toDTOPiece(e.Record.Piece),
		Captured: toDTOPiece(e.Record.Captured),
		Side:     e.Side.String(),
	}
}

func toDTOPiece(p core.Piece) *xiangqidto.Piece {
	if p.IsZero() {
		return nil
	}
	return &xiangqidto.Piece{Kind: p.Kind.String(), Side: p.Side.String()}
}

func toDTOCaptured(c svc.CapturedPieces) xiangqidto.CapturedPieces {
	return xiangqidto.CapturedPieces{
		Red:   toKindList(c.Red),
		Black: toKindList(c.Black),
	}
}

func toKindList(list []core.Piece) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Kind.String())
	}
	return out
}

// ToDomainError classifies err into a stable code. Retryable marks failures
// that may pass on a later attempt.
func ToDomainError(err error) xiangqidto.DomainError {
	if err == nil {
		return xiangqidto.DomainError{}
	}
	if code := core.ErrorCode(err); code != "" {
		return xiangqidto.DomainError{Code: code, Message: err.Error()}
	}
	switch {
	case errors.Is(err, svc.ErrSessionNotFound):
		return xiangqidto.DomainError{Code: CodeSessionNotFound, Message: err.Error()}
	case errors.Is(err, svc.ErrTooManySessions):
		return xiangqidto.DomainError{Code: CodeTooManySessions, Message: err.Error(), Retryable: true}
	case errors.Is(err, svc.ErrServiceClosed):
		return xiangqidto.DomainError{Code: CodeServiceClosed, Message: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return xiangqidto.DomainError{Code: CodeCancelled, Message: err.Error(), Retryable: true}
	default:
		return xiangqidto.DomainError{Code: CodeUnknown, Message: err.Error()}
	}
}
