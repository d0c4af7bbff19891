package xiangqi

import (
	"go.uber.org/zap"
)

// Manager owns one game: its state and history. It is not safe for concurrent
// use; callers serialise access.
type Manager struct {
	state   GameState
	history History
	logger  *zap.Logger
}

type Option func(*Manager)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager starts a game from the standard position with Red to move.
func NewManager(opts ...Option) *Manager {
	m := &Manager{state: NewGameState(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewManagerFromPosition starts from an arbitrary board with turn to move.
func NewManagerFromPosition(b *Board, turn Side, opts ...Option) *Manager {
	m := NewManager(opts...)
	m.state = GameState{Board: *b.Clone(), Turn: turn}
	m.state.InCheck = IsInCheck(&m.state.Board, turn)
	return m
}

// Reset discards the game and history and sets up the standard position.
func (m *Manager) Reset() GameState {
	m.state = NewGameState()
	m.history.Reset()
	m.logger.Debug("xiangqi_reset")
	return m.state
}

// MakeMove validates and applies a move for the side to move. On error the
// game is unchanged.
func (m *Manager) MakeMove(from, to Coord) (GameState, error) {
	mover := m.state.Turn
	next := m.state
	rec, err := next.apply(from, to)
	if err != nil {
		m.logger.Debug("xiangqi_move_rejected",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.String("code", ErrorCode(err)),
			zap.Error(err),
		)
		return m.state, err
	}
	m.state = next
	m.history.Push(rec, mover)
	m.logger.Debug("xiangqi_move",
		zap.String("side", mover.String()),
		zap.String("move", rec.String()),
		zap.Bool("check", m.state.InCheck),
	)
	if m.state.Ended {
		m.logger.Info("xiangqi_game_end",
			zap.String("winner", m.state.Winner.String()),
			zap.Int("moves", m.history.Len()),
		)
	}
	return m.state, nil
}

// UndoMove retracts the last move and gives the turn back to whoever made it.
func (m *Manager) UndoMove() (GameState, error) {
	e, ok := m.history.Pop()
	if !ok {
		return m.state, ErrNoHistory
	}
	m.state.revert(e.Record, e.Side)
	m.logger.Debug("xiangqi_undo",
		zap.String("side", e.Side.String()),
		zap.String("move", e.Record.String()),
	)
	return m.state, nil
}

// LegalDestinations lists targets for the piece at from, for the side to move.
func (m *Manager) LegalDestinations(from Coord) []Coord {
	return LegalDestinations(&m.state.Board, from, m.state.Turn)
}

func (m *Manager) State() GameState { return m.state }

func (m *Manager) History() *History { return m.history.Clone() }

func (m *Manager) Rounds() []Round { return m.history.Rounds() }
