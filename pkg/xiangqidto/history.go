package xiangqidto

// HistoryEntry is one applied move in play order.
type HistoryEntry struct {
	From     Coord  `json:"from"`
	To       Coord  `json:"to"`
	Piece    *Piece `json:"piece,omitempty"`
	Captured *Piece `json:"captured,omitempty"`
	Side     string `json:"side"`
}

type Round struct {
	Number int           `json:"number"`
	Red    *HistoryEntry `json:"red,omitempty"`
	Black  *HistoryEntry `json:"black,omitempty"`
}
