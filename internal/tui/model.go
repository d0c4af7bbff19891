package tui

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/park285/Cheese-Xiangqi/internal/adapter/xiangqipresenter"
	svcxiangqi "github.com/park285/Cheese-Xiangqi/internal/service/xiangqi"
	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
	"github.com/park285/Cheese-Xiangqi/pkg/xiangqidto"
)

type mode int

const (
	modeNormal mode = iota
	modeInput
)

const (
	logTarget = "log"
	maxLog    = 200
)

// logBuffer is shared by the model copies bubbletea passes around and by the
// presenter callbacks.
type logBuffer struct {
	lines []string
}

func (b *logBuffer) append(s string) {
	for _, ln := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		b.lines = append(b.lines, ln)
	}
	if len(b.lines) > maxLog {
		b.lines = b.lines[len(b.lines)-maxLog:]
	}
}

type Options struct {
	Service     *svcxiangqi.Service
	Formatter   *xiangqipresenter.Formatter
	SnapshotDir string
	Logger      *zap.Logger
}

type Model struct {
	ctx       context.Context
	svc       *svcxiangqi.Service
	formatter *xiangqipresenter.Formatter
	presenter *xiangqipresenter.Presenter
	logger    *zap.Logger
	snapDir   string

	sessionID string
	state     *xiangqidto.SessionState
	targets   []xiangqidto.Coord

	m     mode
	input textinput.Model
	log   *logBuffer

	width  int
	height int
}

func NewModel(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "move 0,9 0,8"
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 60

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	buf := &logBuffer{}
	m := Model{
		ctx:       ctx,
		svc:       opts.Service,
		formatter: opts.Formatter,
		logger:    logger,
		snapDir:   opts.SnapshotDir,
		m:         modeNormal,
		input:     ti,
		log:       buf,
	}
	m.presenter = xiangqipresenter.NewPresenter(
		func(_, message string) error {
			buf.append(message)
			return nil
		},
		writeImage,
	)
	m.appendLog("ready (press i to input command, h for help)")
	return m
}

// writeImage stores a base64 PNG at path.
func writeImage(path, imageBase64 string) error {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = min(80, max(30, m.width-4))
		return m, nil

	case tea.KeyMsg:
		switch m.m {
		case modeNormal:
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "i", ":":
				m.m = modeInput
				m.input.SetValue("")
				m.input.Focus()
				return m, nil
			case "h", "?":
				m.execCommand("help")
				return m, nil
			case "u":
				m.execCommand("undo")
				return m, nil
			default:
				return m, nil
			}

		case modeInput:
			switch msg.String() {
			case "esc":
				m.m = modeNormal
				m.input.Blur()
				return m, nil
			case "enter":
				cmdline := strings.TrimSpace(m.input.Value())
				m.input.SetValue("")
				m.m = modeNormal
				m.input.Blur()
				if cmdline == "" {
					return m, nil
				}
				if m.execCommand(cmdline) {
					return m, tea.Quit
				}
				return m, nil
			}

			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// execCommand runs one command line and reports whether the user asked to quit.
func (m *Model) execCommand(line string) bool {
	m.appendLog("> " + line)
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		return false
	}

	if from, to, ok := parseBareMove(parts); ok {
		m.play(from, to)
		return false
	}

	switch parts[0] {
	case "new", "start", "reset":
		m.newGame()
	case "move", "m":
		from, to, err := parseMoveArgs(parts[1:])
		if err != nil {
			m.say(m.formatter.InputError(err))
			return false
		}
		m.play(from, to)
	case "undo", "u":
		m.undo()
	case "moves", "legal":
		if len(parts) != 2 {
			m.say(m.formatter.InputError(fmt.Errorf("usage: moves f,r")))
			return false
		}
		from, err := core.ParseCoord(parts[1])
		if err != nil {
			m.say(m.formatter.Error(err))
			return false
		}
		m.legalMoves(from)
	case "history", "hist":
		m.history()
	case "status", "board":
		if !m.requireGame() {
			return false
		}
		st, err := m.svc.Status(m.ctx, m.sessionID)
		if err != nil {
			m.say(m.formatter.Error(err))
			return false
		}
		m.setState(xiangqipresenter.ToDTOState(st))
		m.say(m.formatter.Status(m.state))
		if c := m.formatter.Captured(m.state.Captured); c != "" {
			m.say(c)
		}
	case "export", "png":
		path := ""
		if len(parts) > 1 {
			path = strings.Fields(line)[1]
		}
		m.export(path)
	case "help":
		m.say(m.formatter.Help())
	case "quit", "exit":
		return true
	default:
		m.appendLog(fmt.Sprintf("unknown command: %s", parts[0]))
	}
	return false
}

func (m *Model) requireGame() bool {
	if m.sessionID != "" {
		return true
	}
	m.say(m.formatter.Error(svcxiangqi.ErrSessionNotFound))
	return false
}

func (m *Model) newGame() {
	st, err := m.svc.NewGame(m.ctx, m.sessionID)
	if err != nil {
		m.say(m.formatter.Error(err))
		return
	}
	m.sessionID = st.SessionUUID
	m.setState(xiangqipresenter.ToDTOState(st))
	m.say(m.formatter.NewGame(m.state))
	m.say(m.formatter.Status(m.state))
}

func (m *Model) play(from, to core.Coord) {
	if !m.requireGame() {
		return
	}
	sum, err := m.svc.Play(m.ctx, m.sessionID, from, to)
	if err != nil {
		m.logger.Debug("tui_move_rejected", zap.String("from", from.String()), zap.String("to", to.String()), zap.Error(err))
		m.say(m.formatter.Error(err))
		return
	}
	dto := xiangqipresenter.ToDTOMoveSummary(sum)
	m.setState(dto.State)
	m.say(m.formatter.Move(dto))
	if !dto.Finished {
		m.say(m.formatter.Status(m.state))
	}
}

func (m *Model) undo() {
	if !m.requireGame() {
		return
	}
	st, err := m.svc.Undo(m.ctx, m.sessionID)
	if err != nil {
		m.say(m.formatter.Error(err))
		return
	}
	m.setState(xiangqipresenter.ToDTOState(st))
	m.say(m.formatter.Undo(m.state))
}

func (m *Model) legalMoves(from core.Coord) {
	if !m.requireGame() {
		return
	}
	targets, err := m.svc.LegalMoves(m.ctx, m.sessionID, from)
	if err != nil {
		m.say(m.formatter.Error(err))
		return
	}
	dtoFrom := xiangqipresenter.ToDTOCoord(from)
	var piece *xiangqidto.Piece
	if m.state != nil {
		piece = m.state.State.Board[from.Rank][from.File]
	}
	m.targets = xiangqipresenter.ToDTOCoords(targets)
	m.say(m.formatter.LegalMoves(dtoFrom, piece, m.targets))
}

func (m *Model) history() {
	if !m.requireGame() {
		return
	}
	rounds, err := m.svc.History(m.ctx, m.sessionID)
	if err != nil {
		m.say(m.formatter.Error(err))
		return
	}
	m.say(m.formatter.History(xiangqipresenter.ToDTORounds(rounds)))
}

func (m *Model) export(path string) {
	if !m.requireGame() {
		return
	}
	if path == "" {
		name := fmt.Sprintf("xiangqi-%s-%s.png", shortID(m.sessionID), time.Now().Format("20060102-150405"))
		path = filepath.Join(m.snapDir, name)
	}
	targets := make([]core.Coord, 0, len(m.targets))
	for _, t := range m.targets {
		targets = append(targets, xiangqipresenter.FromDTOCoord(t))
	}
	png, err := m.svc.Snapshot(m.ctx, m.sessionID, targets...)
	if err != nil {
		m.say(m.formatter.Error(err))
		return
	}
	if err := m.presenter.Image(path, png); err != nil {
		m.logger.Warn("tui_export_failed", zap.String("path", path), zap.Error(err))
		m.say(m.formatter.Error(err))
		return
	}
	m.logger.Info("tui_export", zap.String("path", path), zap.Int("bytes", len(png)))
	m.say(m.formatter.Exported(path))
}

func (m *Model) setState(st *xiangqidto.SessionState) {
	m.state = st
	m.targets = nil
}

func (m *Model) say(text string) {
	if err := m.presenter.Message(logTarget, text); err != nil {
		m.appendLog(err.Error())
	}
}

func (m *Model) appendLog(s string) {
	m.log.append(s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func parseBareMove(parts []string) (core.Coord, core.Coord, bool) {
	if len(parts) == 0 || !strings.ContainsRune(parts[0], ',') {
		return core.Coord{}, core.Coord{}, false
	}
	from, to, err := parseMoveArgs(parts)
	return from, to, err == nil
}

// parseMoveArgs accepts "f,r f,r" or "f,r-f,r".
func parseMoveArgs(args []string) (core.Coord, core.Coord, error) {
	if len(args) == 1 && strings.Contains(args[0], "-") {
		args = strings.SplitN(args[0], "-", 2)
	}
	if len(args) != 2 {
		return core.Coord{}, core.Coord{}, fmt.Errorf("want two squares like 0,9 0,8")
	}
	from, err := core.ParseCoord(args[0])
	if err != nil {
		return core.Coord{}, core.Coord{}, err
	}
	to, err := core.ParseCoord(args[1])
	if err != nil {
		return core.Coord{}, core.Coord{}, err
	}
	return from, to, nil
}

func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	status := "NO GAME"
	if m.state != nil {
		switch st := m.state.State; {
		case st.Ended:
			status = "OVER " + st.Winner
		case st.InCheck:
			status = st.Turn + " CHECK"
		default:
			status = st.Turn
		}
	}
	modeStr := "NORMAL"
	if m.m == modeInput {
		modeStr = "INPUT"
	}
	header := titleStyle.Render(fmt.Sprintf("xiangqi  [%s]  mode:%s", strings.ToUpper(status), modeStr))

	boardBox := boxStyle.Render(RenderBoard(m.state, m.targets))
	boardWidth := lipgloss.Width(boardBox)

	logHeight := max(12, m.height-6)
	logStart := max(0, len(m.log.lines)-logHeight)
	logBody := strings.Join(m.log.lines[logStart:], "\n")
	logBox := boxStyle.Width(max(20, m.width-boardWidth-4)).Height(logHeight).Render(logBody)

	var inputLine string
	if m.m == modeInput {
		inputLine = m.input.View()
	} else {
		inputLine = "press i to enter command, q to quit"
	}
	inputBox := boxStyle.Width(max(20, m.width-2)).Render(inputLine)

	body := lipgloss.JoinHorizontal(lipgloss.Top, boardBox, logBox)
	return header + "\n" + body + "\n" + inputBox + "\n"
}
