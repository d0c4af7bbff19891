package xiangqidto

// MoveSummary describes the outcome of a single Play call.
type MoveSummary struct {
	State    *SessionState `json:"state"`
	Move     HistoryEntry  `json:"move"`
	Check    bool          `json:"check"`
	Finished bool          `json:"finished"`
	Winner   string        `json:"winner,omitempty"`
}
