package xiangqi

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Files = 9
	Ranks = 10
)

// Side identifies one of the two armies. The zero value means "no side".
type Side uint8

const (
	NoSide Side = iota
	Red
	Black
)

func (s Side) Opposite() Side {
	switch s {
	case Red:
		return Black
	case Black:
		return Red
	default:
		return NoSide
	}
}

func (s Side) String() string {
	switch s {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return ""
	}
}

func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, true
	case "black", "b":
		return Black, true
	default:
		return NoSide, false
	}
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*s = NoSide
		return nil
	}
	parsed, ok := ParseSide(string(text))
	if !ok {
		return fmt.Errorf("invalid side %q", string(text))
	}
	*s = parsed
	return nil
}

// Kind is one of the seven piece kinds. The zero value means "no piece".
type Kind uint8

const (
	NoKind Kind = iota
	General
	Advisor
	Elephant
	Horse
	Chariot
	Cannon
	Soldier
)

var AllKinds = []Kind{General, Advisor, Elephant, Horse, Chariot, Cannon, Soldier}

func (k Kind) String() string {
	switch k {
	case General:
		return "general"
	case Advisor:
		return "advisor"
	case Elephant:
		return "elephant"
	case Horse:
		return "horse"
	case Chariot:
		return "chariot"
	case Cannon:
		return "cannon"
	case Soldier:
		return "soldier"
	default:
		return ""
	}
}

// Letter is the single upper-case letter used by text boards and the renderer.
func (k Kind) Letter() byte {
	switch k {
	case General:
		return 'G'
	case Advisor:
		return 'A'
	case Elephant:
		return 'E'
	case Horse:
		return 'H'
	case Chariot:
		return 'R'
	case Cannon:
		return 'C'
	case Soldier:
		return 'S'
	default:
		return '?'
	}
}

func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general", "g", "king", "k":
		return General, true
	case "advisor", "a":
		return Advisor, true
	case "elephant", "e", "bishop":
		return Elephant, true
	case "horse", "h", "knight", "n":
		return Horse, true
	case "chariot", "r", "rook":
		return Chariot, true
	case "cannon", "c":
		return Cannon, true
	case "soldier", "s", "pawn", "p":
		return Soldier, true
	default:
		return NoKind, false
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*k = NoKind
		return nil
	}
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("invalid piece kind %q", string(text))
	}
	*k = parsed
	return nil
}

// Piece is pure data. The zero Piece is an empty square.
type Piece struct {
	Kind Kind `json:"kind"`
	Side Side `json:"side"`
}

func NewPiece(kind Kind, side Side) Piece { return Piece{Kind: kind, Side: side} }

func (p Piece) IsZero() bool { return p.Kind == NoKind }

func (p Piece) String() string {
	if p.IsZero() {
		return "empty"
	}
	return p.Side.String() + " " + p.Kind.String()
}

// Coord addresses an intersection: File in [0,8], Rank in [0,9].
// Black's back rank is 0, Red's is 9.
type Coord struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func C(file, rank int) Coord { return Coord{File: file, Rank: rank} }

func (c Coord) Valid() bool {
	return c.File >= 0 && c.File < Files && c.Rank >= 0 && c.Rank < Ranks
}

func (c Coord) String() string {
	return strconv.Itoa(c.File) + "," + strconv.Itoa(c.Rank)
}

// ParseCoord reads the "file,rank" form used by the command line.
func ParseCoord(s string) (Coord, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coord{}, fmt.Errorf("coordinate %q: want file,rank", s)
	}
	f, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Coord{}, fmt.Errorf("coordinate %q: bad file: %w", s, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Coord{}, fmt.Errorf("coordinate %q: bad rank: %w", s, err)
	}
	c := Coord{File: f, Rank: r}
	if !c.Valid() {
		return Coord{}, fmt.Errorf("coordinate %q: %w", s, ErrOutOfBoard)
	}
	return c, nil
}

// MoveRecord holds what is needed to invert one applied move.
type MoveRecord struct {
	From     Coord `json:"from"`
	To       Coord `json:"to"`
	Piece    Piece `json:"piece"`
	Captured Piece `json:"captured"`
}

func (m MoveRecord) HasCapture() bool { return !m.Captured.IsZero() }

func (m MoveRecord) String() string {
	s := m.Piece.Kind.String() + " " + m.From.String() + "->" + m.To.String()
	if m.HasCapture() {
		s += " x" + m.Captured.Kind.String()
	}
	return s
}
