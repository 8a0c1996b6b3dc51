package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/codalotl/locpick/internal/location"
	"github.com/codalotl/locpick/internal/selector"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

const (
	defaultMaxRows     = 10
	defaultColumnWidth = 24
	minColumnWidth     = 14
	maxColumnWidth     = 40
)

// Config controls runtime options for the TUI.
type Config struct {
	// Fetcher lists options for a level. Required.
	Fetcher selector.Fetcher

	// Logger receives diagnostics. It must not write to the terminal the TUI draws on. Nil discards.
	Logger *slog.Logger

	// DiscardStale drops fetch results superseded by a newer request for the same level.
	DiscardStale bool

	// MaxRows is the number of entries visible per column (placeholder included). Defaults to 10.
	MaxRows int

	Palette PaletteName

	// Input/Output default to os.Stdin/os.Stdout.
	Input  io.Reader
	Output io.Writer
}

// Run launches the selector and blocks until the user quits or ctx is canceled. It returns the selection at exit.
func Run(ctx context.Context, cfg Config) (location.Selection, error) {
	if cfg.Fetcher == nil {
		return location.Selection{}, errors.New("tui: Config.Fetcher is required")
	}
	in := cfg.Input
	if in == nil {
		in = os.Stdin
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	m := newModel(ctx, cfg)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return location.Selection{}, err
	}
	fm, ok := final.(*model)
	if !ok {
		return location.Selection{}, errors.New("tui: unexpected final model")
	}
	return fm.state.Selection(), nil
}

type model struct {
	ctx    context.Context
	state  *selector.Model
	ctrl   *selector.Controller
	logger *slog.Logger

	// focus is the level whose column receives cursor and select keys.
	focus location.Level

	// cursor is the highlighted entry per level; 0 is the placeholder, i is option i-1.
	cursor [location.NumLevels]int

	maxRows int
	width   int

	// notice is a one-shot status line, cleared by the next key press.
	notice string

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	styles   styles
	quitting bool
}

func newModel(ctx context.Context, cfg Config) *model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}
	return &model{
		ctx:     ctx,
		state:   selector.New(selector.WithDiscardStale(cfg.DiscardStale), selector.WithModelLogger(logger)),
		ctrl:    selector.NewController(cfg.Fetcher, logger),
		logger:  logger,
		maxRows: maxRows,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:  newStyles(cfg.Palette),
	}
}

// Init loads the country list.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.state.Start()))
}

// fetch wraps req as a command whose message is the selector.Result. A nil req yields a nil command.
func (m *model) fetch(req *selector.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	r := *req
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return ctrl.Fetch(ctx, r)
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case selector.Result:
		if m.state.Apply(msg) {
			m.syncCursor(msg.Request.Level)
			if next, ok := msg.Request.Level.Next(); ok {
				m.cursor[next] = 0
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		if parent, ok := m.focus.Parent(); ok {
			m.focus = parent
		}

	case key.Matches(msg, m.keys.Right):
		if next, ok := m.focus.Next(); ok {
			m.focus = next
		}

	case key.Matches(msg, m.keys.Up):
		if m.state.Enabled(m.focus) && m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}

	case key.Matches(msg, m.keys.Down):
		if m.state.Enabled(m.focus) && m.cursor[m.focus] < len(m.state.OptionsAt(m.focus)) {
			m.cursor[m.focus]++
		}

	case key.Matches(msg, m.keys.Select):
		if !m.state.Enabled(m.focus) {
			return m, nil
		}
		value := ""
		if i := m.cursor[m.focus]; i > 0 {
			value = m.state.OptionsAt(m.focus)[i-1]
		}
		return m, m.selectValue(value)

	case key.Matches(msg, m.keys.Copy):
		line, ok := m.state.Summary()
		if !ok {
			return m, nil
		}
		if err := writeClipboard(line); err != nil {
			m.logger.Warn("copy to clipboard", "err", err)
			m.notice = "Copy failed: " + err.Error()
			return m, nil
		}
		m.notice = "Copied to clipboard"

	case key.Matches(msg, m.keys.Clear):
		if !m.state.Selection().IsSet(m.focus) {
			return m, nil
		}
		return m, m.selectValue("")
	}
	return m, nil
}

// selectValue commits value at the focused level and returns the command fetching the next level, if any.
func (m *model) selectValue(value string) tea.Cmd {
	level := m.focus
	req := m.state.SelectAt(level, value)
	m.syncCursor(level)
	for _, d := range level.Deeper() {
		m.cursor[d] = 0
	}
	if value != "" {
		if next, ok := level.Next(); ok {
			m.focus = next
		}
	}
	m.logger.Debug("selected", "level", level.String(), "value", value)
	return m.fetch(req)
}

// syncCursor points level's cursor at its selected value, or at the placeholder if nothing there is selected.
func (m *model) syncCursor(level location.Level) {
	m.cursor[level] = slices.Index(m.state.OptionsAt(level), m.state.Selection().Get(level)) + 1
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Select Location"))
	b.WriteString("\n\n")

	cols := make([]string, 0, location.NumLevels)
	for _, l := range location.Levels {
		cols = append(cols, m.renderColumn(l))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	if msg := m.state.Err(); msg != "" {
		b.WriteString(m.styles.err.Render(msg))
		b.WriteString("\n")
	}
	if line, ok := m.state.Summary(); ok {
		b.WriteString(m.styles.summary.Render(line))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.disabled.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *model) columnWidth() int {
	if m.width <= 0 {
		return defaultColumnWidth
	}
	// Each column has a 2-cell border.
	w := m.width/location.NumLevels - 2
	return max(minColumnWidth, min(maxColumnWidth, w))
}

func (m *model) renderColumn(l location.Level) string {
	width := m.columnWidth()
	textWidth := width - 4 // padding plus the cursor prefix
	enabled := m.state.Enabled(l)
	focused := l == m.focus
	selected := m.state.Selection().Get(l)

	header := l.String()
	header = strings.ToUpper(header[:1]) + header[1:]
	if m.state.Loading(l) {
		header += " " + m.spinner.View()
	}

	lines := []string{m.styles.header.Render(header)}

	entries := []string{l.Placeholder()}
	if enabled {
		entries = append(entries, m.state.OptionsAt(l)...)
	}
	start, end := visibleRange(len(entries), m.cursor[l], m.maxRows)
	for i := start; i < end; i++ {
		text := runewidth.Truncate(entries[i], textWidth, "…")
		switch {
		case !enabled:
			lines = append(lines, m.styles.disabled.Render("  "+text))
		case focused && i == m.cursor[l]:
			lines = append(lines, m.styles.cursor.Render("> "+text))
		case i > 0 && entries[i] == selected:
			lines = append(lines, "  "+m.styles.selected.Render(text))
		default:
			lines = append(lines, "  "+text)
		}
	}

	style := m.styles.column
	if focused {
		style = m.styles.focusedColumn
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// visibleRange returns the [start, end) window of n entries, at most rows long, that keeps cursor in view.
func visibleRange(n, cursor, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := cursor - rows/2
	start = max(0, min(start, n-rows))
	return start, start + rows
}
