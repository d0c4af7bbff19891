package xiangqi

// GameState is a value snapshot. Copying it copies the board.
type GameState struct {
	Board   Board
	Turn    Side
	InCheck bool
	Ended   bool
	Winner  Side
}

func NewGameState() GameState {
	return GameState{Board: *NewStandardBoard(), Turn: Red}
}

// Playing reports whether moves are still accepted.
func (s GameState) Playing() bool { return !s.Ended }

// IsInCheck reports whether any enemy piece could move onto side's General.
// A board without that General is never in check.
func IsInCheck(b *Board, side Side) bool {
	gen, ok := b.FindGeneral(side)
	if !ok {
		return false
	}
	enemy := side.Opposite()
	for _, o := range b.Pieces(enemy) {
		if Validate(b, o.At, gen, enemy) == nil {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether side is in check and no move of side escapes it.
// Each candidate is tried on a scratch copy of b.
func IsCheckmate(b *Board, side Side) bool {
	if !IsInCheck(b, side) {
		return false
	}
	return len(EscapingMoves(b, side)) == 0
}

// EscapingMoves lists moves of side after which side is not in check.
func EscapingMoves(b *Board, side Side) []MoveRecord {
	var out []MoveRecord
	for _, o := range b.Pieces(side) {
		for _, to := range LegalDestinations(b, o.At, side) {
			scratch := *b
			captured := scratch.Move(o.At, to)
			if !IsInCheck(&scratch, side) {
				out = append(out, MoveRecord{From: o.At, To: to, Piece: o.Piece, Captured: captured})
			}
		}
	}
	return out
}

// apply performs a validated move and advances the state machine.
func (s *GameState) apply(from, to Coord) (MoveRecord, error) {
	if s.Ended {
		return MoveRecord{}, moveErr(ErrGameEnded, NoKind, from, to, "")
	}
	if err := Validate(&s.Board, from, to, s.Turn); err != nil {
		return MoveRecord{}, err
	}
	mover := s.Turn
	piece := s.Board.At(from)
	captured := s.Board.Move(from, to)
	rec := MoveRecord{From: from, To: to, Piece: piece, Captured: captured}

	if captured.Kind == General && captured.Side != mover {
		s.Ended = true
		s.Winner = mover
		s.InCheck = false
		return rec, nil
	}

	s.Turn = mover.Opposite()
	s.InCheck = IsInCheck(&s.Board, s.Turn)
	if s.InCheck && IsCheckmate(&s.Board, s.Turn) {
		s.Ended = true
		s.Winner = mover
	}
	return rec, nil
}

// revert undoes rec, which was made by mover.
func (s *GameState) revert(rec MoveRecord, mover Side) {
	moving := s.Board.At(rec.To)
	s.Board.Set(rec.From, moving)
	s.Board.Set(rec.To, rec.Captured)
	s.Turn = mover
	s.InCheck = IsInCheck(&s.Board, mover)
	s.Ended = false
	s.Winner = NoSide
}
