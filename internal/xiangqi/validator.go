package xiangqi

// Validate checks a move for side on b. It returns nil when legal, otherwise a
// *MoveError wrapping one of ErrOutOfBoard, ErrNotYourPiece,
// ErrCannotCaptureOwnPiece or ErrInvalidMove.
func Validate(b *Board, from, to Coord, side Side) error {
	if !from.Valid() || !to.Valid() {
		return moveErr(ErrOutOfBoard, NoKind, from, to, "")
	}
	p, ok := b.Get(from)
	if !ok {
		return moveErr(ErrNotYourPiece, NoKind, from, to, "origin is empty")
	}
	if p.Side != side {
		return moveErr(ErrNotYourPiece, p.Kind, from, to, "")
	}
	if dst, ok := b.Get(to); ok && dst.Side == side {
		return moveErr(ErrCannotCaptureOwnPiece, p.Kind, from, to, "")
	}
	if from == to {
		return moveErr(ErrInvalidMove, p.Kind, from, to, "piece must move")
	}
	check, ok := rules[p.Kind]
	if !ok {
		return moveErr(ErrInvalidMove, p.Kind, from, to, "unknown piece kind")
	}
	if reason := check(b, from, to, side); reason != "" {
		return moveErr(ErrInvalidMove, p.Kind, from, to, reason)
	}
	return nil
}

// LegalDestinations lists every square the piece at from may reach, in
// file-major order. It is empty when from does not hold a piece of side.
// Moves that leave the mover in check are not filtered out.
func LegalDestinations(b *Board, from Coord, side Side) []Coord {
	p, ok := b.Get(from)
	if !ok || p.Side != side {
		return nil
	}
	var out []Coord
	for f := 0; f < Files; f++ {
		for r := 0; r < Ranks; r++ {
			to := C(f, r)
			if Validate(b, from, to, side) == nil {
				out = append(out, to)
			}
		}
	}
	return out
}
