package tui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/park285/Cheese-Xiangqi/internal/adapter/xiangqipresenter"
	"github.com/park285/Cheese-Xiangqi/internal/msgcat"
	svcxiangqi "github.com/park285/Cheese-Xiangqi/internal/service/xiangqi"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	catalog, err := msgcat.New("")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	svc, err := svcxiangqi.NewService(svcxiangqi.NewSVGBoardRenderer(svcxiangqi.MinCellSize), svcxiangqi.Config{}, nil)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return NewModel(context.Background(), Options{
		Service:     svc,
		Formatter:   xiangqipresenter.NewFormatter(catalog),
		SnapshotDir: t.TempDir(),
	})
}

func lastLines(m Model, n int) string {
	lines := m.log.lines
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func TestCommandsBeforeNewGame(t *testing.T) {
	m := newTestModel(t)
	m.execCommand("undo")
	if !strings.Contains(lastLines(m, 1), "No game in progress") {
		t.Fatalf("unexpected log: %q", lastLines(m, 3))
	}
}

func TestNewMoveUndo(t *testing.T) {
	m := newTestModel(t)
	m.execCommand("new")
	if m.state == nil || m.sessionID == "" {
		t.Fatalf("expected a session after new")
	}
	if m.state.State.Turn != "red" {
		t.Fatalf("turn = %s, want red", m.state.State.Turn)
	}

	m.execCommand("move 0,9 0,8")
	if m.state.State.Turn != "black" {
		t.Fatalf("turn after move = %s", m.state.State.Turn)
	}
	if m.state.State.Board[8][0] == nil || m.state.State.Board[8][0].Kind != "chariot" {
		t.Fatalf("chariot not at 0,8")
	}

	m.execCommand("0,0-0,1")
	if m.state.MoveCount != 2 {
		t.Fatalf("move count = %d, want 2", m.state.MoveCount)
	}

	m.execCommand("undo")
	if m.state.State.Turn != "black" || m.state.MoveCount != 1 {
		t.Fatalf("undo: turn=%s moves=%d", m.state.State.Turn, m.state.MoveCount)
	}
	if !strings.Contains(lastLines(m, 1), "Move taken back") {
		t.Fatalf("unexpected log: %q", lastLines(m, 3))
	}
}

func TestIllegalMoveKeepsState(t *testing.T) {
	m := newTestModel(t)
	m.execCommand("new")
	before := m.state

	m.execCommand("move 1,9 1,8")
	if m.state != before {
		t.Fatalf("state replaced by a rejected move")
	}
	if !strings.Contains(lastLines(m, 1), "Illegal move") {
		t.Fatalf("unexpected log: %q", lastLines(m, 3))
	}

	m.execCommand("move 0,9")
	if !strings.Contains(lastLines(m, 1), "Could not read that") {
		t.Fatalf("unexpected log: %q", lastLines(m, 3))
	}
}

func TestMovesHighlightsTargets(t *testing.T) {
	m := newTestModel(t)
	m.execCommand("new")
	m.execCommand("moves 1,9")
	if len(m.targets) != 2 {
		t.Fatalf("targets = %v, want 2", m.targets)
	}
	view := RenderBoard(m.state, m.targets)
	if strings.Count(view, "*") != 2 {
		t.Fatalf("expected two markers in:\n%s", view)
	}

	m.execCommand("0,9 0,8")
	if m.targets != nil {
		t.Fatalf("targets should clear after a move")
	}
}

func TestHistoryCommand(t *testing.T) {
	m := newTestModel(t)
	m.execCommand("new")
	m.execCommand("history")
	if !strings.Contains(lastLines(m, 1), "No moves yet") {
		t.Fatalf("unexpected log: %q", lastLines(m, 3))
	}
	m.execCommand("0,9 0,8")
	m.execCommand("0,0 0,1")
	m.execCommand("history")
	if !strings.Contains(lastLines(m, 2), "1. ") {
		t.Fatalf("unexpected log: %q", lastLines(m, 3))
	}
}

func TestExportWritesPNG(t *testing.T) {
	m := newTestModel(t)
	m.execCommand("new")

	path := filepath.Join(t.TempDir(), "out", "board.png")
	m.execCommand("export " + path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("not a png")
	}

	m.execCommand("export")
	entries, err := os.ReadDir(m.snapDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("snapshot dir: %v %v", entries, err)
	}
}

func TestQuitCommand(t *testing.T) {
	m := newTestModel(t)
	if !m.execCommand("quit") {
		t.Fatalf("quit should stop the program")
	}
	if m.execCommand("help") {
		t.Fatalf("help should not quit")
	}
}

func TestUpdateInputMode(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	m = next.(Model)
	if m.m != modeInput {
		t.Fatalf("expected input mode")
	}
	for _, r := range "new" {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.m != modeNormal {
		t.Fatalf("expected normal mode after enter")
	}
	if m.state == nil {
		t.Fatalf("new command was not executed")
	}
	if !strings.Contains(m.View(), "RED") {
		t.Fatalf("view missing turn:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q should quit")
	}
}

func TestLogIsCapped(t *testing.T) {
	buf := &logBuffer{}
	for i := 0; i < maxLog+50; i++ {
		buf.append("line")
	}
	if len(buf.lines) != maxLog {
		t.Fatalf("len = %d", len(buf.lines))
	}
}
