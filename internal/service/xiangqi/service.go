package xiangqi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("xiangqi session not found")
	ErrTooManySessions = errors.New("too many xiangqi sessions")
	ErrServiceClosed   = errors.New("xiangqi service closed")
)

const (
	defaultSessionTTL  = time.Hour
	defaultMaxSessions = 64
)

type Config struct {
	SessionTTL   time.Duration
	MaxSessions  int
	RenderImages bool
}

// CapturedPieces lists the pieces each side has taken, in capture order.
type CapturedPieces struct {
	Red   []core.Piece
	Black []core.Piece
}

func (c CapturedPieces) IsEmpty() bool { return len(c.Red) == 0 && len(c.Black) == 0 }

type SessionState struct {
	SessionUUID string
	State       core.GameState
	History     []core.Entry
	Rounds      []core.Round
	Captured    CapturedPieces
	MoveCount   int
	BoardImage  []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MoveSummary struct {
	State    *SessionState
	Move     core.Entry
	Check    bool
	Finished bool
	Winner   core.Side
}

// Service hosts many games at once. Each session is guarded by its own mutex
// so a Manager is only ever touched by one caller at a time.
type Service struct {
	renderer BoardRenderer
	store    *sessionStore
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
	closed   atomic.Bool
}

func NewService(renderer BoardRenderer, cfg Config, logger *zap.Logger) (*Service, error) {
	if renderer == nil {
		return nil, fmt.Errorf("board renderer is required")
	}
	if cfg.SessionTTL < 0 {
		return nil, fmt.Errorf("session TTL must not be negative")
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		renderer: renderer,
		store:    newSessionStore(),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// NewGame starts a fresh game. An existing session with the same id is reset;
// an empty id allocates a new one.
func (s *Service) NewGame(ctx context.Context, sessionID string) (*SessionState, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	sessionID = strings.TrimSpace(sessionID)
	now := s.now()

	if sessionID != "" {
		if sess, ok := s.store.get(sessionID); ok {
			sess.mu.Lock()
			defer sess.mu.Unlock()
			sess.manager.Reset()
			sess.ended = false
			sess.createdAt = now
			sess.touch(now)
			s.logger.Info("session_reset", zap.String("session", sess.id))
			return s.stateFromSession(ctx, sess, nil), nil
		}
	} else {
		sessionID = uuid.NewString()
	}

	if s.store.len() >= s.cfg.MaxSessions {
		s.Evict(now)
		if s.store.len() >= s.cfg.MaxSessions {
			return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, s.cfg.MaxSessions)
		}
	}

	sess := &session{
		id:        sessionID,
		manager:   core.NewManager(core.WithLogger(s.logger.With(zap.String("session", sessionID)))),
		createdAt: now,
		updatedAt: now,
	}
	s.store.put(sess)
	s.logger.Info("session_create", zap.String("session", sessionID), zap.Int("sessions", s.store.len()))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.stateFromSession(ctx, sess, nil), nil
}

func (s *Service) Status(ctx context.Context, sessionID string) (*SessionState, error) {
	sess, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	return s.stateFromSession(ctx, sess, lastHighlight(sess.manager)), nil
}

// Play applies one move for the side to move. Rule violations are returned
// unchanged from the core so callers can use errors.Is and ErrorCode.
func (s *Service) Play(ctx context.Context, sessionID string, from, to core.Coord) (*MoveSummary, error) {
	sess, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	st, err := sess.manager.MakeMove(from, to)
	if err != nil {
		return nil, fmt.Errorf("play %s-%s: %w", from, to, err)
	}
	sess.touch(s.now())

	last, _ := sess.manager.History().Peek()
	if st.Ended && !sess.ended {
		sess.ended = true
		s.logger.Info("session_game_end",
			zap.String("session", sess.id),
			zap.String("winner", st.Winner.String()),
		)
	}

	return &MoveSummary{
		State:    s.stateFromSession(ctx, sess, &MoveHighlight{From: from, To: to}),
		Move:     last,
		Check:    st.InCheck,
		Finished: st.Ended,
		Winner:   st.Winner,
	}, nil
}

func (s *Service) Undo(ctx context.Context, sessionID string) (*SessionState, error) {
	sess, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if _, err := sess.manager.UndoMove(); err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	sess.ended = false
	sess.touch(s.now())
	return s.stateFromSession(ctx, sess, lastHighlight(sess.manager)), nil
}

// LegalMoves lists targets of the piece at from for the side to move.
func (s *Service) LegalMoves(ctx context.Context, sessionID string, from core.Coord) ([]core.Coord, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("legal moves %s: %w", from, core.ErrOutOfBoard)
	}
	sess, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	return sess.manager.LegalDestinations(from), nil
}

func (s *Service) History(ctx context.Context, sessionID string) ([]core.Round, error) {
	sess, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	return sess.manager.Rounds(), nil
}

// Snapshot renders the current board even when images are disabled.
// Targets, if any, are drawn as legal-move markers.
func (s *Service) Snapshot(ctx context.Context, sessionID string, targets ...core.Coord) ([]byte, error) {
	sess, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	st := sess.manager.State()
	opts := s.renderOptions(st, sess.manager.History().Len(), lastHighlight(sess.manager))
	opts.Targets = append([]core.Coord(nil), targets...)
	return s.renderer.RenderPNG(ctx, &st.Board, opts)
}

func (s *Service) End(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.store.remove(sessionID) {
		return ErrSessionNotFound
	}
	s.logger.Info("session_end", zap.String("session", strings.TrimSpace(sessionID)))
	return nil
}

// Evict drops sessions idle for longer than the TTL and returns how many went.
func (s *Service) Evict(now time.Time) int {
	n := 0
	for _, sess := range s.store.idle(now.Add(-s.cfg.SessionTTL)) {
		if s.store.remove(sess.id) {
			n++
			s.logger.Info("session_evict", zap.String("session", sess.id))
		}
	}
	return n
}

func (s *Service) Sessions() []string { return s.store.ids() }

// Close ends every session. Further calls fail with ErrServiceClosed.
func (s *Service) Close() error {
	s.closed.Store(true)
	var result *multierror.Error
	for _, id := range s.store.ids() {
		if err := s.End(context.Background(), id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			result = multierror.Append(result, fmt.Errorf("end session %s: %w", id, err))
		}
	}
	return result.ErrorOrNil()
}

func (s *Service) ensureReady(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServiceClosed
	}
	return ctx.Err()
}

// lockSession returns the session with its mutex held.
func (s *Service) lockSession(ctx context.Context, sessionID string) (*session, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	sess, ok := s.store.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	return sess, nil
}

func lastHighlight(m *core.Manager) *MoveHighlight {
	last, ok := m.History().Peek()
	if !ok {
		return nil
	}
	return &MoveHighlight{From: last.Record.From, To: last.Record.To}
}

func (s *Service) stateFromSession(ctx context.Context, sess *session, highlight *MoveHighlight) *SessionState {
	st := sess.manager.State()
	hist := sess.manager.History()
	entries := hist.Entries()
	state := &SessionState{
		SessionUUID: sess.id,
		State:       st,
		History:     entries,
		Rounds:      hist.Rounds(),
		Captured:    capturedFrom(entries),
		MoveCount:   len(entries),
		CreatedAt:   sess.createdAt,
		UpdatedAt:   sess.updatedAt,
	}
	if s.cfg.RenderImages {
		s.attachBoardImage(ctx, state, highlight)
	}
	return state
}

func capturedFrom(entries []core.Entry) CapturedPieces {
	var c CapturedPieces
	for _, e := range entries {
		if !e.Record.HasCapture() {
			continue
		}
		switch e.Side {
		case core.Red:
			c.Red = append(c.Red, e.Record.Captured)
		case core.Black:
			c.Black = append(c.Black, e.Record.Captured)
		}
	}
	return c
}

func (s *Service) renderOptions(st core.GameState, moves int, highlight *MoveHighlight) RenderOptions {
	round := moves/2 + 1
	hudTurn := fmt.Sprintf("%s to move - round %d", titleCase(st.Turn.String()), round)
	switch {
	case st.Ended:
		hudTurn = fmt.Sprintf("%s wins", titleCase(st.Winner.String()))
	case st.InCheck:
		hudTurn += " (check)"
	}
	return RenderOptions{
		Highlight: highlight,
		HUDHeader: "Red vs Black",
		HUDTurn:   hudTurn,
	}
}

func (s *Service) attachBoardImage(ctx context.Context, state *SessionState, highlight *MoveHighlight) {
	if state == nil || s.renderer == nil {
		return
	}
	opts := s.renderOptions(state.State, state.MoveCount, highlight)
	data, err := s.renderer.RenderPNG(ctx, &state.State.Board, opts)
	if err != nil {
		s.logger.Warn("failed to render xiangqi board image", zap.String("session", state.SessionUUID), zap.Error(err))
		return
	}
	state.BoardImage = data
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
