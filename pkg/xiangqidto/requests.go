package xiangqidto

type RequestMeta struct {
	SessionID string `json:"session_id"`
}

type NewGameRequest struct {
	Meta RequestMeta `json:"meta"`
}

type NewGameResponse struct {
	State *SessionState `json:"state"`
}

type StatusRequest struct {
	Meta RequestMeta `json:"meta"`
}

type StatusResponse struct {
	State *SessionState `json:"state"`
}

type PlayRequest struct {
	Meta RequestMeta `json:"meta"`
	From Coord       `json:"from"`
	To   Coord       `json:"to"`
}

type PlayResponse struct {
	Summary *MoveSummary `json:"summary"`
}

type UndoRequest struct {
	Meta RequestMeta `json:"meta"`
}

type UndoResponse struct {
	State *SessionState `json:"state"`
}

type LegalMovesRequest struct {
	Meta RequestMeta `json:"meta"`
	From Coord       `json:"from"`
}

type LegalMovesResponse struct {
	From    Coord   `json:"from"`
	Targets []Coord `json:"targets"`
}

type HistoryRequest struct {
	Meta RequestMeta `json:"meta"`
}

type HistoryResponse struct {
	Rounds []Round `json:"rounds"`
}
