package xiangqi

// Entry is one applied move and the side that made it.
type Entry struct {
	Record MoveRecord `json:"record"`
	Side   Side       `json:"side"`
}

// History is the flat, append-only move stack. Undo pops the tail.
type History struct {
	entries []Entry
}

func (h *History) Push(rec MoveRecord, side Side) {
	h.entries = append(h.entries, Entry{Record: rec, Side: side})
}

func (h *History) Pop() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h *History) Peek() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) IsEmpty() bool { return len(h.entries) == 0 }

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Clone() *History {
	return &History{entries: h.Entries()}
}

func (h *History) Reset() { h.entries = nil }

// Round is one Red move plus the following Black move. Either half may be nil.
type Round struct {
	Number int    `json:"number"`
	Red    *Entry `json:"red,omitempty"`
	Black  *Entry `json:"black,omitempty"`
}

// Rounds folds the flat stack into numbered rounds. It is derived on every
// call and never stored.
func (h *History) Rounds() []Round {
	return BuildRounds(h.entries)
}

// BuildRounds groups entries into rounds starting at 1. A Red move always
// opens a round; a Black move closes the open round or opens one of its own.
func BuildRounds(entries []Entry) []Round {
	var rounds []Round
	for i := range entries {
		e := entries[i]
		switch e.Side {
		case Red:
			rounds = append(rounds, Round{Number: len(rounds) + 1, Red: &e})
		default:
			if n := len(rounds); n > 0 && rounds[n-1].Black == nil && rounds[n-1].Red != nil {
				rounds[n-1].Black = &e
				continue
			}
			rounds = append(rounds, Round{Number: len(rounds) + 1, Black: &e})
		}
	}
	return rounds
}
