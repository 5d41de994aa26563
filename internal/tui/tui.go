// Package tui implements the Bubble Tea terminal user interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sprite-ai/redline/internal/controller"
	"github.com/sprite-ai/redline/internal/health"
	"github.com/sprite-ai/redline/internal/logging"
	"github.com/sprite-ai/redline/internal/model"
	"github.com/sprite-ai/redline/internal/samples"
)

type focus int

const (
	focusEditor focus = iota
	focusResults
)

// Messages delivered by commands.
type (
	healthMsg struct {
		status model.HealthStatus
	}
	sampleLoadedMsg struct {
		name string
		err  error
	}
	reviewDoneMsg struct {
		outcome model.Outcome
	}
)

// Options wires a Model to its collaborators.
type Options struct {
	Controller    *controller.Controller
	Monitor       *health.Monitor
	Loader        samples.Loader
	Jurisdictions []string
	Jurisdiction  string
}

// Model is the top-level Bubble Tea model for redline.
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	monitor *health.Monitor
	loader  samples.Loader
	log     zerolog.Logger

	jurisdictions []string
	jurIndex      int

	// UI state
	width  int
	height int
	focus  focus

	editor     textarea.Model
	filePrompt textinput.Model
	prompting  bool
	spinner    spinner.Model
	results    viewport.Model

	// Results pane
	cursor      int
	cardOffsets []int // first viewport line of each card
	expanded    map[int]bool
	showRaw     bool

	showHelp bool
}

// New creates a model for one review session.
func New(ctx context.Context, opts Options) Model {
	ed := textarea.New()
	ed.Placeholder = "Paste contract text, or press C-o to open a file…"
	ed.ShowLineNumbers = false
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.Focus()

	fp := textinput.New()
	fp.Prompt = "Open file: "
	fp.PromptStyle = promptStyle
	fp.Placeholder = "path/to/contract.txt"
	fp.CharLimit = 4096

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = spinnerStyle

	jurs := opts.Jurisdictions
	if len(jurs) == 0 {
		jurs = []string{opts.Jurisdiction}
	}
	idx := 0
	for i, j := range jurs {
		if j == opts.Jurisdiction {
			idx = i
			break
		}
	}

	m := Model{
		ctx:           ctx,
		ctrl:          opts.Controller,
		monitor:       opts.Monitor,
		loader:        opts.Loader,
		log:           logging.Component("tui"),
		jurisdictions: jurs,
		jurIndex:      idx,
		editor:        ed,
		filePrompt:    fp,
		spinner:       sp,
		results:       viewport.New(0, 0),
		expanded:      map[int]bool{},
	}
	m.editor.SetValue(m.ctrl.Buffer().Text())
	m.refreshResults()
	return m
}

// Jurisdiction returns the selected jurisdiction.
func (m Model) Jurisdiction() string {
	return m.jurisdictions[m.jurIndex]
}

// Init implements tea.Model. It starts the one health probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.probeHealth())
}

func (m Model) probeHealth() tea.Cmd {
	if m.monitor == nil {
		return nil
	}
	ctx, mon := m.ctx, m.monitor
	return func() tea.Msg {
		return healthMsg{status: mon.Probe(ctx)}
	}
}

func (m Model) loadSample(name string) tea.Cmd {
	ctx, ctrl, loader := m.ctx, m.ctrl, m.loader
	return func() tea.Msg {
		return sampleLoadedMsg{name: name, err: ctrl.LoadSample(ctx, loader, name)}
	}
}

func (m Model) runReview(p controller.Pending) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return reviewDoneMsg{outcome: ctrl.Run(ctx, p)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshResults()
		return m, nil

	case healthMsg:
		m.log.Debug().Str("status", msg.status.String()).Msg("health probed")
		return m, nil

	case sampleLoadedMsg:
		if msg.err == nil {
			m.editor.SetValue(m.ctrl.Buffer().Text())
		}
		return m, nil

	case reviewDoneMsg:
		m.cursor = 0
		m.expanded = map[int]bool{}
		m.refreshResults()
		m.results.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.State() != model.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, keys.Help, keys.Cancel, keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.prompting {
		return m.handlePrompt(msg)
	}

	enabled := m.ctrl.Controls()

	switch {
	case key.Matches(msg, keys.Review):
		if !enabled.Review {
			return m, nil
		}
		return m.startReview()

	case key.Matches(msg, keys.Clear):
		if !enabled.Clear {
			return m, nil
		}
		if err := m.ctrl.Clear(); err == nil {
			m.editor.Reset()
			m.cursor = 0
			m.expanded = map[int]bool{}
			m.refreshResults()
		}
		return m, nil

	case key.Matches(msg, keys.LoadRisky):
		if !enabled.LoadRisky {
			return m, nil
		}
		return m, m.loadSample(samples.NameRisky)

	case key.Matches(msg, keys.LoadGood):
		if !enabled.LoadGood {
			return m, nil
		}
		return m, m.loadSample(samples.NameGood)

	case key.Matches(msg, keys.OpenFile):
		m.prompting = true
		m.filePrompt.Reset()
		m.editor.Blur()
		return m, m.filePrompt.Focus()

	case key.Matches(msg, keys.Jurisdiction):
		m.jurIndex = (m.jurIndex + 1) % len(m.jurisdictions)
		return m, nil

	case key.Matches(msg, keys.Focus):
		return m, m.toggleFocus()
	}

	if m.focus == focusEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		m.ctrl.SetText(m.editor.Value())
		return m, cmd
	}

	return m.handleResultsKey(msg)
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := len(m.ctrl.View().Cards)

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < cards-1 {
			m.cursor++
			m.refreshResults()
			m.scrollToCursor()
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refreshResults()
			m.scrollToCursor()
		}
		return m, nil

	case key.Matches(msg, keys.ToggleFix):
		if m.cursor < cards && m.ctrl.View().Cards[m.cursor].HasFix() {
			m.expanded[m.cursor] = !m.expanded[m.cursor]
			m.refreshResults()
		}
		return m, nil

	case key.Matches(msg, keys.ToggleRaw):
		m.showRaw = !m.showRaw
		m.refreshResults()
		if m.showRaw {
			m.results.GotoTop()
		} else {
			m.scrollToCursor()
		}
		return m, nil
	}

	return m.forward(msg)
}

func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.closePrompt()
		return m, m.focusCmd()

	case key.Matches(msg, keys.Confirm):
		path := strings.TrimSpace(m.filePrompt.Value())
		changed, err := m.ctrl.LoadFile(path)
		if err == nil && changed {
			m.editor.SetValue(m.ctrl.Buffer().Text())
		}
		m.closePrompt()
		return m, m.focusCmd()
	}

	var cmd tea.Cmd
	m.filePrompt, cmd = m.filePrompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.filePrompt.Blur()
	m.filePrompt.Reset()
}

func (m Model) startReview() (tea.Model, tea.Cmd) {
	p, err := m.ctrl.Begin(m.Jurisdiction())
	switch {
	case errors.Is(err, controller.ErrEmptyInput):
		m.cursor = 0
		m.expanded = map[int]bool{}
		m.refreshResults()
		return m, nil
	case err != nil:
		return m, nil
	}
	return m, tea.Batch(m.spinner.Tick, m.runReview(p))
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusEditor {
		m.focus = focusResults
	} else {
		m.focus = focusEditor
	}
	m.refreshResults()
	return m.focusCmd()
}

func (m *Model) focusCmd() tea.Cmd {
	if m.focus == focusEditor {
		return m.editor.Focus()
	}
	m.editor.Blur()
	return nil
}

// forward hands anything unhandled to the focused component.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.prompting:
		m.filePrompt, cmd = m.filePrompt.Update(msg)
	case m.focus == focusEditor:
		m.editor, cmd = m.editor.Update(msg)
	default:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) layout() {
	inner := m.width - 4 // borders + padding
	if inner < 10 {
		inner = 10
	}
	// header, status bar, prompt line, two pane titles, four border rows
	avail := m.height - 9
	if avail < 6 {
		avail = 6
	}
	editorHeight := avail / 3
	if editorHeight < 3 {
		editorHeight = 3
	}

	m.editor.SetWidth(inner)
	m.editor.SetHeight(editorHeight)
	m.filePrompt.Width = inner - lipgloss.Width(m.filePrompt.Prompt) - 1
	m.results.Width = inner
	m.results.Height = avail - editorHeight
}

func (m *Model) scrollToCursor() {
	if m.cursor >= len(m.cardOffsets) {
		return
	}
	top := m.cardOffsets[m.cursor]
	if top < m.results.YOffset || top >= m.results.YOffset+m.results.Height {
		m.results.SetYOffset(top)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	editorStyle, resultsStyle := paneFocusedStyle, paneStyle
	if m.focus == focusResults {
		editorStyle, resultsStyle = paneStyle, paneFocusedStyle
	}

	editor := editorStyle.Width(m.width - 2).Render(
		paneTitleStyle.Render("Contract") + "\n" + m.editor.View(),
	)
	results := resultsStyle.Width(m.width - 2).Render(
		paneTitleStyle.Render("Review") + "\n" + m.results.View(),
	)

	prompt := hintStyle.Render(" C-s review  C-o open  C-r/C-g samples  C-n jurisdiction  tab results")
	if m.prompting {
		prompt = " " + m.filePrompt.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		editor,
		prompt,
		results,
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	left := titleStyle.Render("redline") + "  " +
		jurisdictionStyle.Render("Jurisdiction: "+m.Jurisdiction())

	badge := health.BadgeFor(model.HealthUnknown, "")
	if m.monitor != nil {
		badge = m.monitor.Badge()
	}
	right := badge.Render()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

func (m Model) renderStatusBar() string {
	var left string
	switch state := m.ctrl.State(); state {
	case model.StateLoading:
		left = statusLoadingStyle.Render(m.spinner.View() + " Reviewing…")
	default:
		left = state.String()
	}

	v := m.ctrl.View()
	if n := len(v.Cards); n > 0 {
		left += fmt.Sprintf("  Issue %d/%d", m.cursor+1, n)
	}

	raw := "raw off"
	if m.showRaw {
		raw = "raw on"
	}
	right := fmt.Sprintf("%s  ? help ", raw)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(helpHeaderStyle.Render("redline • Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []key.Binding{
		keys.Review, keys.Clear, keys.LoadRisky, keys.LoadGood, keys.OpenFile,
		keys.Jurisdiction, keys.Focus, keys.Up, keys.Down, keys.ToggleFix,
		keys.ToggleRaw, keys.Help, keys.Quit, keys.ForceQuit,
	}
	for _, kb := range bindings {
		h := kb.Help()
		fmt.Fprintf(&b, "  %s  %s\n", helpKeyStyle.Width(12).Render(h.Key), h.Desc)
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

// Run starts the TUI and blocks until the user quits. It returns the last
// state of the session.
func Run(ctx context.Context, opts Options) (*Result, error) {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	fm, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	return newResult(fm), nil
}
