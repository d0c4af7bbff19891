package xiangqi

// Per-kind legality predicates. Each assumes the shared preconditions in
// Validate already passed and returns "" when the move is legal, otherwise a
// short reason.

type rule func(b *Board, from, to Coord, side Side) string

var rules = map[Kind]rule{
	General:  generalRule,
	Advisor:  advisorRule,
	Elephant: elephantRule,
	Horse:    horseRule,
	Chariot:  chariotRule,
	Cannon:   cannonRule,
	Soldier:  soldierRule,
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// InPalace reports whether c lies in side's palace.
func InPalace(c Coord, side Side) bool {
	if c.File < 3 || c.File > 5 {
		return false
	}
	switch side {
	case Red:
		return c.Rank >= 7 && c.Rank <= 9
	case Black:
		return c.Rank >= 0 && c.Rank <= 2
	default:
		return false
	}
}

// OwnHalf reports whether c is on side's half of the river.
func OwnHalf(c Coord, side Side) bool {
	switch side {
	case Red:
		return c.Rank >= 5
	case Black:
		return c.Rank <= 4
	default:
		return false
	}
}

// forward is the rank delta of one step toward the opponent.
func forward(side Side) int {
	if side == Red {
		return -1
	}
	return 1
}

func generalRule(_ *Board, from, to Coord, side Side) string {
	if !InPalace(to, side) {
		return "general must stay in the palace"
	}
	dx, dy := abs(to.File-from.File), abs(to.Rank-from.Rank)
	if max(dx, dy) != 1 {
		return "general moves one step"
	}
	return ""
}

func advisorRule(_ *Board, from, to Coord, side Side) string {
	if !InPalace(to, side) {
		return "advisor must stay in the palace"
	}
	if abs(to.File-from.File) != 1 || abs(to.Rank-from.Rank) != 1 {
		return "advisor moves one step diagonally"
	}
	return ""
}

func elephantRule(b *Board, from, to Coord, side Side) string {
	dx, dy := to.File-from.File, to.Rank-from.Rank
	if abs(dx) != 2 || abs(dy) != 2 {
		return "elephant moves two steps diagonally"
	}
	if !OwnHalf(to, side) {
		return "elephant cannot cross the river"
	}
	if b.Occupied(C(from.File+dx/2, from.Rank+dy/2)) {
		return "elephant eye is blocked"
	}
	return ""
}

func horseRule(b *Board, from, to Coord, _ Side) string {
	dx, dy := to.File-from.File, to.Rank-from.Rank
	ax, ay := abs(dx), abs(dy)
	if !(ax == 1 && ay == 2) && !(ax == 2 && ay == 1) {
		return "horse moves in an L shape"
	}
	leg := C(from.File, from.Rank+sign(dy))
	if ax == 2 {
		leg = C(from.File+sign(dx), from.Rank)
	}
	if b.Occupied(leg) {
		return "horse leg is blocked"
	}
	return ""
}

// between counts occupied squares strictly between two points on one line.
// ok is false when the points do not share a file or rank.
func between(b *Board, from, to Coord) (n int, ok bool) {
	if from == to || (from.File != to.File && from.Rank != to.Rank) {
		return 0, false
	}
	sf, sr := sign(to.File-from.File), sign(to.Rank-from.Rank)
	for c := C(from.File+sf, from.Rank+sr); c != to; c = C(c.File+sf, c.Rank+sr) {
		if b.Occupied(c) {
			n++
		}
	}
	return n, true
}

func chariotRule(b *Board, from, to Coord, _ Side) string {
	n, ok := between(b, from, to)
	if !ok {
		return "chariot moves in a straight line"
	}
	if n > 0 {
		return "chariot path is blocked"
	}
	return ""
}

func cannonRule(b *Board, from, to Coord, _ Side) string {
	n, ok := between(b, from, to)
	if !ok {
		return "cannon moves in a straight line"
	}
	if b.Occupied(to) {
		if n != 1 {
			return "cannon captures over exactly one screen"
		}
		return ""
	}
	if n != 0 {
		return "cannon path is blocked"
	}
	return ""
}

func soldierRule(_ *Board, from, to Coord, side Side) string {
	dx, dy := to.File-from.File, to.Rank-from.Rank
	if dx == 0 && dy == forward(side) {
		return ""
	}
	crossed := !OwnHalf(from, side)
	if dy == 0 && abs(dx) == 1 {
		if crossed {
			return ""
		}
		return "soldier moves sideways only after crossing the river"
	}
	return "soldier moves one step forward"
}
