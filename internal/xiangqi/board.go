package xiangqi

import "strings"

// Board is a passive 9x10 container. It is a plain array value: assigning a
// Board copies it, which is how hypothetical positions are built.
type Board struct {
	cells [Ranks][Files]Piece
}

func NewBoard() *Board { return &Board{} }

// NewStandardBoard returns the opening position. Black occupies ranks 0-3,
// Red ranks 6-9.
func NewStandardBoard() *Board {
	b := &Board{}
	back := [Files]Kind{Chariot, Horse, Elephant, Advisor, General, Advisor, Elephant, Horse, Chariot}
	for f, k := range back {
		b.Set(C(f, 0), NewPiece(k, Black))
		b.Set(C(f, 9), NewPiece(k, Red))
	}
	for _, f := range []int{1, 7} {
		b.Set(C(f, 2), NewPiece(Cannon, Black))
		b.Set(C(f, 7), NewPiece(Cannon, Red))
	}
	for f := 0; f < Files; f += 2 {
		b.Set(C(f, 3), NewPiece(Soldier, Black))
		b.Set(C(f, 6), NewPiece(Soldier, Red))
	}
	return b
}

// Get returns the piece at c. Out-of-range coordinates read as empty.
func (b *Board) Get(c Coord) (Piece, bool) {
	if !c.Valid() {
		return Piece{}, false
	}
	p := b.cells[c.Rank][c.File]
	return p, !p.IsZero()
}

// At is Get without the occupancy flag.
func (b *Board) At(c Coord) Piece {
	p, _ := b.Get(c)
	return p
}

func (b *Board) Occupied(c Coord) bool {
	_, ok := b.Get(c)
	return ok
}

// Set stores p at c; the zero Piece clears the square. Out-of-range is a no-op.
func (b *Board) Set(c Coord, p Piece) {
	if !c.Valid() {
		return
	}
	b.cells[c.Rank][c.File] = p
}

func (b *Board) Clear(c Coord) { b.Set(c, Piece{}) }

// Move relocates whatever is on from to to and returns the previous occupant
// of to. Legality is not consulted.
func (b *Board) Move(from, to Coord) Piece {
	if !from.Valid() || !to.Valid() {
		return Piece{}
	}
	captured := b.At(to)
	moving := b.At(from)
	b.Set(to, moving)
	b.Clear(from)
	return captured
}

func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.cells == o.cells
}

// Occupant pairs a square with its piece.
type Occupant struct {
	At    Coord
	Piece Piece
}

// Pieces lists the occupied squares of side in file-major order.
// NoSide lists both sides.
func (b *Board) Pieces(side Side) []Occupant {
	out := make([]Occupant, 0, 16)
	for f := 0; f < Files; f++ {
		for r := 0; r < Ranks; r++ {
			p := b.cells[r][f]
			if p.IsZero() {
				continue
			}
			if side != NoSide && p.Side != side {
				continue
			}
			out = append(out, Occupant{At: C(f, r), Piece: p})
		}
	}
	return out
}

func (b *Board) FindGeneral(side Side) (Coord, bool) {
	for f := 0; f < Files; f++ {
		for r := 0; r < Ranks; r++ {
			p := b.cells[r][f]
			if p.Kind == General && p.Side == side {
				return C(f, r), true
			}
		}
	}
	return Coord{}, false
}

// String renders rank 0 at the top; Red letters upper-case, Black lower-case.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Ranks; r++ {
		for f := 0; f < Files; f++ {
			if f > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(PieceLetter(b.cells[r][f]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PieceLetter is '.' for empty, upper-case for Red and lower-case for Black.
func PieceLetter(p Piece) byte {
	if p.IsZero() {
		return '.'
	}
	l := p.Kind.Letter()
	if p.Side == Black {
		l += 'a' - 'A'
	}
	return l
}
