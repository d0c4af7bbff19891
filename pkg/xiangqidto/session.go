package xiangqidto

import "time"

// Piece is an occupied intersection. Kind and Side use the lower-case names
// "general".."soldier" and "red"/"black".
type Piece struct {
	Kind string `json:"kind"`
	Side string `json:"side"`
}

type Coord struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

// Board is 10 ranks of 9 files; nil means an empty intersection.
type Board [10][9]*Piece

type CapturedPieces struct {
	Red   []string `json:"red"`
	Black []string `json:"black"`
}

type GameState struct {
	Board   Board  `json:"board"`
	Turn    string `json:"turn"`
	InCheck bool   `json:"in_check"`
	Ended   bool   `json:"ended"`
	Winner  string `json:"winner,omitempty"`
}

type SessionState struct {
	SessionUUID string         `json:"session_uuid"`
	State       GameState      `json:"state"`
	History     []HistoryEntry `json:"history"`
	Rounds      []Round        `json:"rounds,omitempty"`
	Captured    CapturedPieces `json:"captured"`
	MoveCount   int            `json:"move_count"`
	BoardImage  []byte         `json:"board_image,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
