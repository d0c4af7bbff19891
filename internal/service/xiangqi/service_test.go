package xiangqi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
)

type stubRenderer struct {
	mu    sync.Mutex
	calls int
	last  RenderOptions
	err   error
}

func (r *stubRenderer) RenderPNG(ctx context.Context, board *core.Board, opts RenderOptions) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = opts
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png"), nil
}

func newTestService(t *testing.T, cfg Config) (*Service, *stubRenderer) {
	t.Helper()
	r := &stubRenderer{}
	svc, err := NewService(r, cfg, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, r
}

func TestNewServiceRequiresRenderer(t *testing.T) {
	if _, err := NewService(nil, Config{}, nil); err == nil {
		t.Fatalf("expected error without renderer")
	}
	if _, err := NewService(&stubRenderer{}, Config{SessionTTL: -time.Second}, nil); err == nil {
		t.Fatalf("expected error for negative TTL")
	}
}

func TestPlayUndoAndStatus(t *testing.T) {
	svc, r := newTestService(t, Config{RenderImages: true})
	ctx := context.Background()

	st, err := svc.NewGame(ctx, "")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if st.SessionUUID == "" {
		t.Fatalf("expected generated session id")
	}
	if st.State.Turn != core.Red || st.MoveCount != 0 {
		t.Fatalf("unexpected initial state: turn=%v moves=%d", st.State.Turn, st.MoveCount)
	}
	if string(st.BoardImage) != "png" {
		t.Fatalf("expected board image")
	}

	sum, err := svc.Play(ctx, st.SessionUUID, core.C(0, 9), core.C(0, 8))
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if sum.State.State.Turn != core.Black || sum.Move.Side != core.Red || sum.Finished {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if r.last.Highlight == nil || r.last.Highlight.To != core.C(0, 8) {
		t.Fatalf("expected last-move highlight, got %+v", r.last.Highlight)
	}

	undone, err := svc.Undo(ctx, st.SessionUUID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undone.State.Turn != core.Red || undone.MoveCount != 0 {
		t.Fatalf("undo did not restore start: turn=%v moves=%d", undone.State.Turn, undone.MoveCount)
	}
	if !undone.State.Board.Equal(core.NewStandardBoard()) {
		t.Fatalf("board differs from start after undo")
	}

	if _, err := svc.Undo(ctx, st.SessionUUID); !errors.Is(err, core.ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}

func TestPlayRejectsIllegalMoveWithoutMutation(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	st, err := svc.NewGame(ctx, "room-1")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if st.SessionUUID != "room-1" {
		t.Fatalf("expected caller id, got %q", st.SessionUUID)
	}
	if st.BoardImage != nil {
		t.Fatalf("images disabled but board image attached")
	}

	_, err = svc.Play(ctx, "room-1", core.C(1, 9), core.C(1, 8))
	if !errors.Is(err, core.ErrInvalidMove) {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}
	if core.ErrorCode(err) != core.CodeInvalidMove {
		t.Fatalf("unexpected code %q", core.ErrorCode(err))
	}

	after, err := svc.Status(ctx, "room-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if after.MoveCount != 0 || after.State.Turn != core.Red {
		t.Fatalf("state mutated by rejected move")
	}
}

func TestCapturesAreTracked(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	if _, err := svc.NewGame(ctx, "cap"); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	// Red cannon takes the black horse over the black cannon screen.
	sum, err := svc.Play(ctx, "cap", core.C(1, 7), core.C(1, 0))
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !sum.Move.Record.HasCapture() {
		t.Fatalf("expected capture")
	}
	if got := sum.State.Captured.Red; len(got) != 1 || got[0].Kind != core.Horse {
		t.Fatalf("unexpected red captures: %+v", got)
	}
	if len(sum.State.Captured.Black) != 0 {
		t.Fatalf("black captured nothing")
	}
}

func TestLegalMovesAndHistory(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	if _, err := svc.NewGame(ctx, "g"); err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	targets, err := svc.LegalMoves(ctx, "g", core.C(1, 9))
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}
	if len(targets) != 2 || targets[0] != core.C(0, 7) || targets[1] != core.C(2, 7) {
		t.Fatalf("unexpected horse targets: %v", targets)
	}
	if _, err := svc.LegalMoves(ctx, "g", core.C(9, 9)); !errors.Is(err, core.ErrOutOfBoard) {
		t.Fatalf("expected ErrOutOfBoard, got %v", err)
	}

	moves := [][2]core.Coord{
		{core.C(0, 9), core.C(0, 8)},
		{core.C(0, 0), core.C(0, 1)},
		{core.C(8, 9), core.C(8, 8)},
	}
	for _, mv := range moves {
		if _, err := svc.Play(ctx, "g", mv[0], mv[1]); err != nil {
			t.Fatalf("Play %v: %v", mv, err)
		}
	}
	rounds, err := svc.History(ctx, "g")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(rounds) != 2 || rounds[1].Black != nil {
		t.Fatalf("unexpected rounds: %+v", rounds)
	}
}

func TestNewGameResetsExistingSession(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	if _, err := svc.NewGame(ctx, "g"); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if _, err := svc.Play(ctx, "g", core.C(0, 9), core.C(0, 8)); err != nil {
		t.Fatalf("Play: %v", err)
	}
	st, err := svc.NewGame(ctx, "g")
	if err != nil {
		t.Fatalf("NewGame reset: %v", err)
	}
	if st.MoveCount != 0 || st.State.Turn != core.Red {
		t.Fatalf("session was not reset")
	}
	if n := len(svc.Sessions()); n != 1 {
		t.Fatalf("expected one session, got %d", n)
	}
}

func TestSessionLimitAndEviction(t *testing.T) {
	svc, _ := newTestService(t, Config{MaxSessions: 2, SessionTTL: time.Minute})
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	for _, id := range []string{"a", "b"} {
		if _, err := svc.NewGame(ctx, id); err != nil {
			t.Fatalf("NewGame %s: %v", id, err)
		}
	}
	if _, err := svc.NewGame(ctx, "c"); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}

	clock = clock.Add(2 * time.Minute)
	if _, err := svc.Play(ctx, "b", core.C(0, 9), core.C(0, 8)); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if _, err := svc.NewGame(ctx, "c"); err != nil {
		t.Fatalf("NewGame after idle session: %v", err)
	}
	if _, err := svc.Status(ctx, "a"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session a evicted, got %v", err)
	}
	if _, err := svc.Status(ctx, "b"); err != nil {
		t.Fatalf("active session b evicted: %v", err)
	}
}

func TestEndAndClose(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	if _, err := svc.NewGame(ctx, "x"); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := svc.End(ctx, "x"); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := svc.End(ctx, "x"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	if _, err := svc.NewGame(ctx, "y"); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(svc.Sessions()) != 0 {
		t.Fatalf("sessions left after Close")
	}
	if _, err := svc.NewGame(ctx, "z"); !errors.Is(err, ErrServiceClosed) {
		t.Fatalf("expected ErrServiceClosed, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.NewGame(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderFailureDoesNotFailMove(t *testing.T) {
	svc, r := newTestService(t, Config{RenderImages: true})
	r.err = errors.New("boom")
	ctx := context.Background()
	st, err := svc.NewGame(ctx, "x")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if st.BoardImage != nil {
		t.Fatalf("expected no image on render failure")
	}
	if _, err := svc.Snapshot(ctx, "x"); err == nil {
		t.Fatalf("Snapshot should surface renderer error")
	}
}

func TestConcurrentPlaysAreSerialised(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	if _, err := svc.NewGame(ctx, "race"); err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Play(ctx, "race", core.C(0, 9), core.C(0, 8))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one successful move, got %d", ok)
	}
	st, err := svc.Status(ctx, "race")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.MoveCount != 1 {
		t.Fatalf("expected one recorded move, got %d", st.MoveCount)
	}
}
