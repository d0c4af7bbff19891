package xiangqi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryStack(t *testing.T) {
	var h History
	require.True(t, h.IsEmpty())
	_, ok := h.Pop()
	require.False(t, ok)

	first := MoveRecord{From: C(0, 9), To: C(0, 8), Piece: red(Chariot)}
	second := MoveRecord{From: C(0, 0), To: C(0, 1), Piece: black(Chariot)}
	h.Push(first, Red)
	h.Push(second, Black)

	top, ok := h.Peek()
	require.True(t, ok)
	require.Equal(t, second, top.Record)
	require.Equal(t, 2, h.Len())

	e, ok := h.Pop()
	require.True(t, ok)
	require.Equal(t, Black, e.Side)
	require.Equal(t, 1, h.Len())
}

func TestEntriesIsACopy(t *testing.T) {
	var h History
	h.Push(MoveRecord{From: C(0, 9), To: C(0, 8)}, Red)

	entries := h.Entries()
	entries[0].Side = Black

	top, _ := h.Peek()
	require.Equal(t, Red, top.Side)
}

func TestRoundsFoldPairs(t *testing.T) {
	m := NewManager()
	moves := [][2]Coord{
		{C(0, 9), C(0, 8)},
		{C(0, 0), C(0, 1)},
		{C(8, 9), C(8, 8)},
	}
	for _, mv := range moves {
		_, err := m.MakeMove(mv[0], mv[1])
		require.NoError(t, err)
	}

	rounds := m.Rounds()
	require.Len(t, rounds, 2)
	require.Equal(t, 1, rounds[0].Number)
	require.Equal(t, C(0, 8), rounds[0].Red.Record.To)
	require.Equal(t, C(0, 1), rounds[0].Black.Record.To)
	require.Equal(t, 2, rounds[1].Number)
	require.NotNil(t, rounds[1].Red)
	require.Nil(t, rounds[1].Black)

	require.Equal(t, rounds, BuildRounds(m.History().Entries()))
}

func TestRoundsBlackFirst(t *testing.T) {
	rounds := BuildRounds([]Entry{
		{Record: MoveRecord{From: C(0, 0), To: C(0, 1)}, Side: Black},
		{Record: MoveRecord{From: C(0, 9), To: C(0, 8)}, Side: Red},
		{Record: MoveRecord{From: C(0, 1), To: C(0, 2)}, Side: Black},
	})

	require.Len(t, rounds, 2)
	require.Nil(t, rounds[0].Red)
	require.NotNil(t, rounds[0].Black)
	require.NotNil(t, rounds[1].Red)
	require.NotNil(t, rounds[1].Black)
}

func TestParseCoord(t *testing.T) {
	c, err := ParseCoord(" 4, 9 ")
	require.NoError(t, err)
	require.Equal(t, C(4, 9), c)
	require.Equal(t, "4,9", c.String())

	_, err = ParseCoord("9,0")
	require.ErrorIs(t, err, ErrOutOfBoard)

	_, err = ParseCoord("a,b")
	require.Error(t, err)
	_, err = ParseCoord("4")
	require.Error(t, err)
}

func TestBoardString(t *testing.T) {
	rows := NewStandardBoard().String()
	require.Contains(t, rows, "r h e a g a e h r\n")
	require.Contains(t, rows, "R H E A G A E H R\n")
}

func TestBoardMoveOutOfRangeIsNoop(t *testing.T) {
	b := NewStandardBoard()
	before := *b

	require.True(t, b.Move(C(0, 9), C(0, 10)).IsZero())
	b.Set(C(-1, 0), red(Chariot))

	require.True(t, b.Equal(&before))
	_, ok := b.Get(C(9, 9))
	require.False(t, ok)
}
