// Package workspace is the interactive terminal front end. It renders the
// controller's read contracts and turns key presses into controller intents.
package workspace

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"nexus/cmd/nexus/ui"
	"nexus/internal/app"
	"nexus/internal/catalog"
	"nexus/internal/chat"
	"nexus/internal/navigation"
	"nexus/internal/palette"
	"nexus/internal/ux"
)

const noticeTTL = 4 * time.Second

// Options configure the workspace front end.
type Options struct {
	AltScreen       bool
	RenderMarkdown  bool
	DefaultCategory string
	RecentProjects  int
	Logger          *zap.Logger
}

type promptMode int

const (
	promptNone promptMode = iota
	promptProjectName
	promptAPIKey
)

type settingsRow int

const (
	rowTheme settingsRow = iota
	rowContext
	rowSidebar
	rowAPIKey
	settingsRowCount
)

// replySettledMsg carries a finished reply back into Update.
type replySettledMsg struct {
	msg    chat.Message
	err    error
	toolID string
}

type clearNoticeMsg struct{ id int }

// Model is the bubbletea model for the workspace.
type Model struct {
	ctx    context.Context
	ctrl   *app.Controller
	opts   Options
	logger *zap.Logger

	keys          keyMap
	help          help.Model
	styles        ui.Styles
	theme         ux.Theme
	renderer      *glamour.TermRenderer
	rendererWidth int

	input    textinput.Model
	palInput textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width, height int
	layout        ui.LayoutConfig

	state       navigation.State
	paletteOpen bool
	prompt      promptMode

	category   string
	toolCursor int
	choice     int
	toolOutput string

	// Favorites last for the session only.
	favorites     map[string]bool
	showFavorites bool

	projectCursor  int
	settingsCursor settingsRow

	waiting      int
	notice       *app.Notice
	lastNoticeID int

	quitting bool
}

// New creates the workspace model over ctrl.
func New(ctx context.Context, ctrl *app.Controller, opts Options) Model {
	if opts.RecentProjects <= 0 {
		opts.RecentProjects = 3
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if _, ok := ctrl.Catalog().Category(opts.DefaultCategory); !ok {
		if cats := ctrl.Catalog().Categories(); len(cats) > 0 {
			opts.DefaultCategory = cats[0].ID
		}
	}

	ti := textinput.New()
	ti.Prompt = "│ "
	ti.CharLimit = 4096

	pi := textinput.New()
	pi.Prompt = "› "
	pi.Placeholder = "Type a command or search..."

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		opts:      opts,
		logger:    opts.Logger,
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     ti,
		palInput:  pi,
		favorites: make(map[string]bool),
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		width:     80,
		height:    24,
		category:  opts.DefaultCategory,
		state:     ctrl.State(),
	}
	if last, ok := ctrl.LastNotice(); ok {
		m.lastNoticeID = last.ID
	}
	prefs := ctrl.Preferences()
	m.applyTheme(prefs.Theme)
	m.layout = ui.NewLayoutConfig(m.width, m.height, prefs.SidebarCollapsed)
	m.resize()
	m.enterView()
	return m
}

// Run starts the workspace program and blocks until it exits.
func Run(ctx context.Context, ctrl *app.Controller, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(New(ctx, ctrl, opts), progOpts...)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) applyTheme(t ux.Theme) {
	m.theme = t
	m.styles = ui.StylesFor(t)
	m.input.PromptStyle = m.styles.Prompt
	m.palInput.PromptStyle = m.styles.Prompt
	m.spinner.Style = m.styles.Spinner
	m.renderer = nil
}

func (m *Model) resize() {
	w := m.layout.ContentWidth()
	m.viewport.Width = w
	m.viewport.Height = m.layout.ViewportHeight()
	m.input.Width = w - 4
	m.palInput.Width = min(w, 60) - 4
	m.help.Width = m.width
}

// markdown renders s for the terminal. Rendering failures return s unchanged.
func (m *Model) markdown(s string) string {
	if !m.opts.RenderMarkdown {
		return s
	}
	width := m.layout.ContentWidth()
	if m.renderer == nil || m.rendererWidth != width {
		style := "light"
		if m.styles.Theme.IsDark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return s
		}
		m.renderer, m.rendererWidth = r, width
	}
	out, err := m.renderer.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(out)
}

// enterView resets per-view state after the controller changed view.
func (m *Model) enterView() tea.Cmd {
	m.toolCursor, m.choice = 0, 0
	m.toolOutput = ""
	m.input.Reset()
	if m.state.View == navigation.ViewChatbot {
		m.refreshTranscript()
	}
	return m.focusForView()
}

// focusForView points the shared input at the current view.
func (m *Model) focusForView() tea.Cmd {
	switch m.state.View {
	case navigation.ViewDashboard:
		m.input.Placeholder = "Ask Nexus AI anything..."
	case navigation.ViewChatbot:
		m.input.Placeholder = "Type your message..."
	case navigation.ViewTools:
		m.input.Placeholder = "Search tools..."
	case navigation.ViewToolInterface:
		tool, _ := m.ctrl.Catalog().Lookup(m.state.ToolID)
		m.input.Placeholder = tool.Placeholder
	default:
		m.input.Blur()
		return nil
	}
	return m.input.Focus()
}

// sync pulls controller state after an intent.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd

	prefs := m.ctrl.Preferences()
	if prefs.Theme != m.theme {
		m.applyTheme(prefs.Theme)
	}
	m.layout = ui.NewLayoutConfig(m.width, m.height, prefs.SidebarCollapsed)
	m.resize()

	if st := m.ctrl.State(); st != m.state {
		m.logger.Debug("View changed",
			zap.String("from", string(m.state.View)),
			zap.String("to", string(st.View)))
		m.state = st
		cmds = append(cmds, m.enterView())
	} else if m.state.View == navigation.ViewChatbot {
		m.refreshTranscript()
	}

	if fresh := m.ctrl.NoticesSince(m.lastNoticeID); len(fresh) > 0 {
		last := fresh[len(fresh)-1]
		m.lastNoticeID = last.ID
		m.notice = &last
		id := last.ID
		cmds = append(cmds, tea.Tick(noticeTTL, func(time.Time) tea.Msg {
			return clearNoticeMsg{id: id}
		}))
	}
	return tea.Batch(cmds...)
}

func waitForReply(ctx context.Context, r *app.Reply, toolID string) tea.Cmd {
	return func() tea.Msg {
		msg, err := r.Wait(ctx)
		return replySettledMsg{msg: msg, err: err, toolID: toolID}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		next := m.sync()
		return m, next

	case spinner.TickMsg:
		if m.waiting == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state.View == navigation.ViewChatbot {
			m.refreshTranscript()
		}
		return m, cmd

	case replySettledMsg:
		if m.waiting > 0 {
			m.waiting--
		}
		if msg.err != nil {
			m.logger.Debug("Reply failed", zap.String("tool", msg.toolID), zap.Error(msg.err))
		}
		if msg.err == nil && msg.toolID != "" && msg.toolID == m.state.ToolID {
			m.toolOutput = msg.msg.Content
		}
		next := m.sync()
		return m, next

	case clearNoticeMsg:
		if m.notice != nil && m.notice.ID == msg.id {
			m.notice = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Palette):
		if m.paletteOpen {
			next := m.closePalette()
			return m, next
		}
		next := m.openPalette()
		return m, next
	}

	if m.paletteOpen {
		return m.handlePaletteKey(msg)
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctrl.Back()
		next := m.sync()
		return m, next
	case key.Matches(msg, m.keys.Sidebar):
		_, _ = m.ctrl.ToggleSidebar()
		next := m.sync()
		return m, next
	case key.Matches(msg, m.keys.NewProject):
		next := m.startPrompt(promptProjectName)
		return m, next
	case key.Matches(msg, m.keys.NewDocument):
		_, _, _ = m.ctrl.CreateDocument()
		next := m.sync()
		return m, next
	case key.Matches(msg, m.keys.Chat):
		return m.navigate(navigation.ViewChatbot, navigation.Params{})
	case key.Matches(msg, m.keys.Tools):
		return m.navigate(navigation.ViewTools, navigation.Params{})
	case key.Matches(msg, m.keys.Settings):
		return m.navigate(navigation.ViewSettings, navigation.Params{})
	}

	switch m.state.View {
	case navigation.ViewDashboard:
		return m.updateDashboard(msg)
	case navigation.ViewChatbot:
		return m.updateChat(msg)
	case navigation.ViewTools:
		return m.updateTools(msg)
	case navigation.ViewToolInterface:
		return m.updateToolInterface(msg)
	case navigation.ViewSettings:
		return m.updateSettings(msg)
	}
	return m, nil
}

func (m Model) navigate(view navigation.View, params navigation.Params) (tea.Model, tea.Cmd) {
	_, _ = m.ctrl.Navigate(view, params)
	next := m.sync()
	return m, next
}

// Palette

func (m *Model) openPalette() tea.Cmd {
	m.paletteOpen = true
	m.ctrl.Palette().Reset()
	m.palInput.Reset()
	m.input.Blur()
	return m.palInput.Focus()
}

func (m *Model) closePalette() tea.Cmd {
	m.paletteOpen = false
	m.palInput.Reset()
	m.palInput.Blur()
	m.ctrl.Palette().Reset()
	return m.focusForView()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pal := m.ctrl.Palette()
	switch {
	case key.Matches(msg, m.keys.Back):
		next := m.closePalette()
		return m, next
	case key.Matches(msg, m.keys.Up):
		pal.Move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		pal.Move(1)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		selected, ok := pal.Selected()
		closeCmd := m.closePalette()
		if !ok {
			return m, closeCmd
		}
		if selected.Kind == palette.KindNewProject {
			next := tea.Batch(closeCmd, m.startPrompt(promptProjectName))
			return m, next
		}
		_ = m.ctrl.ExecuteCommand(selected.ID, "")
		next := tea.Batch(closeCmd, m.sync())
		return m, next
	}

	var cmd tea.Cmd
	m.palInput, cmd = m.palInput.Update(msg)
	if q := m.palInput.Value(); q != pal.Query() {
		pal.Filter(q)
	}
	return m, cmd
}

// Prompts

func (m *Model) startPrompt(p promptMode) tea.Cmd {
	m.prompt = p
	m.input.Reset()
	switch p {
	case promptProjectName:
		m.input.Placeholder = "Project name"
	case promptAPIKey:
		m.input.Placeholder = "Gemini API key"
		m.input.EchoMode = textinput.EchoPassword
	}
	return m.input.Focus()
}

func (m *Model) endPrompt() tea.Cmd {
	m.prompt = promptNone
	m.input.EchoMode = textinput.EchoNormal
	m.input.Reset()
	return m.focusForView()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		next := m.endPrompt()
		return m, next
	case key.Matches(msg, m.keys.Submit):
		mode, value := m.prompt, m.input.Value()
		cmd := m.endPrompt()
		switch mode {
		case promptProjectName:
			_, _ = m.ctrl.CreateProject(value)
		case promptAPIKey:
			_ = m.ctrl.SetCredential(value)
		}
		next := tea.Batch(cmd, m.sync())
		return m, next
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Dashboard

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	recent := m.ctrl.RecentProjects(m.opts.RecentProjects)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.projectCursor = clamp(m.projectCursor-1, len(recent))
	case key.Matches(msg, m.keys.Down):
		m.projectCursor = clamp(m.projectCursor+1, len(recent))
	case key.Matches(msg, m.keys.Submit):
		// Text in the quick chat box goes to the assistant.
		if strings.TrimSpace(m.input.Value()) != "" {
			return m.submitChat()
		}
		if len(recent) == 0 {
			next := m.startPrompt(promptProjectName)
			return m, next
		}
		p := recent[clamp(m.projectCursor, len(recent))]
		return m.navigate(navigation.ViewProject, navigation.Params{ProjectID: p.ID})
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Chat

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.submitChat()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitChat sends the input to the assistant. The input is kept when the
// controller rejects it.
func (m Model) submitChat() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	reply, err := m.ctrl.SubmitChat(m.ctx, text)
	if err != nil {
		next := m.sync()
		return m, next
	}
	m.input.Reset()
	m.waiting++
	next := tea.Batch(m.sync(), m.spinner.Tick, waitForReply(m.ctx, reply, ""))
	return m, next
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// Tools

func (m Model) visibleTools() []catalog.Tool {
	tools := m.ctrl.Catalog().Browse(m.category, m.input.Value())
	if !m.showFavorites {
		return tools
	}
	out := tools[:0]
	for _, t := range tools {
		if m.favorites[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) updateTools(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tools := m.visibleTools()
	switch {
	case key.Matches(msg, m.keys.Cycle):
		m.category = m.shiftCategory(1)
		m.toolCursor = 0
		return m, nil
	case key.Matches(msg, m.keys.CycleBack):
		m.category = m.shiftCategory(-1)
		m.toolCursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.toolCursor = clamp(m.toolCursor-1, len(tools))
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.toolCursor = clamp(m.toolCursor+1, len(tools))
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		if len(tools) == 0 {
			return m, nil
		}
		id := tools[clamp(m.toolCursor, len(tools))].ID
		if m.favorites[id] {
			delete(m.favorites, id)
		} else {
			m.favorites[id] = true
		}
		m.toolCursor = clamp(m.toolCursor, len(m.visibleTools()))
		return m, nil
	case key.Matches(msg, m.keys.ShowFavorites):
		m.showFavorites = !m.showFavorites
		m.toolCursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if len(tools) == 0 {
			return m, nil
		}
		t := tools[clamp(m.toolCursor, len(tools))]
		return m.navigate(navigation.ViewToolInterface, navigation.Params{ToolID: t.ID})
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.toolCursor = 0
	}
	return m, cmd
}

func (m Model) shiftCategory(delta int) string {
	cats := m.ctrl.Catalog().Categories()
	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	return cycle(ids, m.category, delta)
}

// Tool interface

type choiceKind int

const (
	choiceNone choiceKind = iota
	choiceOption
	choiceStyle
	choiceLanguage
)

// choices lists the selectable values for tool. Options start with "" for
// no option selected.
func choices(tool catalog.Tool) (choiceKind, []string) {
	switch {
	case tool.HasOptions:
		return choiceOption, append([]string{""}, tool.Options...)
	case tool.HasStyle:
		return choiceStyle, catalog.CitationStyles
	case tool.HasLang:
		return choiceLanguage, catalog.Languages
	}
	return choiceNone, nil
}

func (m Model) promptOptions(tool catalog.Tool) catalog.PromptOptions {
	kind, values := choices(tool)
	if len(values) == 0 {
		return catalog.PromptOptions{}
	}
	v := values[clamp(m.choice, len(values))]
	switch kind {
	case choiceOption:
		return catalog.PromptOptions{Option: v}
	case choiceStyle:
		return catalog.PromptOptions{Style: v}
	case choiceLanguage:
		return catalog.PromptOptions{Language: v}
	}
	return catalog.PromptOptions{}
}

func (m Model) updateToolInterface(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tool, ok := m.ctrl.Catalog().Lookup(m.state.ToolID)
	if !ok {
		return m, nil
	}
	_, values := choices(tool)

	switch {
	case key.Matches(msg, m.keys.Cycle):
		if len(values) > 0 {
			m.choice = (m.choice + 1) % len(values)
		}
		return m, nil
	case key.Matches(msg, m.keys.CycleBack):
		if len(values) > 0 {
			m.choice = (m.choice - 1 + len(values)) % len(values)
		}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if m.waiting > 0 {
			return m, nil
		}
		reply, err := m.ctrl.RunTool(m.ctx, tool.ID, m.input.Value(), m.promptOptions(tool))
		if err != nil {
			next := m.sync()
			return m, next
		}
		m.toolOutput = ""
		m.waiting++
		next := tea.Batch(m.sync(), m.spinner.Tick, waitForReply(m.ctx, reply, tool.ID))
		return m, next
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Settings

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	delta := 0
	switch {
	case key.Matches(msg, m.keys.Up):
		m.settingsCursor = settingsRow(clamp(int(m.settingsCursor)-1, int(settingsRowCount)))
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.settingsCursor = settingsRow(clamp(int(m.settingsCursor)+1, int(settingsRowCount)))
		return m, nil
	case key.Matches(msg, m.keys.Left):
		delta = -1
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Submit):
		delta = 1
	default:
		return m, nil
	}

	prefs := m.ctrl.Preferences()
	switch m.settingsCursor {
	case rowTheme:
		_ = m.ctrl.ChangeTheme(cycle(ux.Themes, prefs.Theme, delta))
	case rowContext:
		_ = m.ctrl.ChangeContext(cycle(ux.Contexts, prefs.Context, delta))
	case rowSidebar:
		_, _ = m.ctrl.ToggleSidebar()
	case rowAPIKey:
		if key.Matches(msg, m.keys.Submit) {
			next := m.startPrompt(promptAPIKey)
			return m, next
		}
		return m, nil
	}
	next := m.sync()
	return m, next
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// cycle returns the element delta steps from cur, wrapping. An unknown cur
// starts from the first element.
func cycle[T comparable](list []T, cur T, delta int) T {
	var zero T
	if len(list) == 0 {
		return zero
	}
	idx := 0
	for i, v := range list {
		if v == cur {
			idx = i
			break
		}
	}
	n := len(list)
	return list[((idx+delta)%n+n)%n]
}
