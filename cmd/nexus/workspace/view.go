package workspace

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nexus/cmd/nexus/ui"
	"nexus/internal/app"
	"nexus/internal/chat"
	"nexus/internal/navigation"
)

const welcomeMessage = "Hello! I'm **Nexus AI**, your intelligent assistant. How can I help you today?"

var viewTitles = map[navigation.View]string{
	navigation.ViewDashboard:     "Dashboard",
	navigation.ViewChatbot:       "Chat",
	navigation.ViewProject:       "Project",
	navigation.ViewTools:         "AI Tools",
	navigation.ViewToolInterface: "Tool",
	navigation.ViewSettings:      "Settings",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.renderBody()
	if m.prompt == promptProjectName {
		body = m.renderProjectPrompt()
	}
	if m.paletteOpen {
		body = m.renderPalette()
	}
	body = lipgloss.NewStyle().
		Width(m.layout.ContentWidth()).
		Height(m.layout.ContentHeight()).
		MaxHeight(m.layout.ContentHeight()).
		PaddingLeft(2).
		Render(body)
	if !m.layout.SidebarCollapsed {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	info := m.ctrl.Preferences().Context.Info()
	title := viewTitles[m.state.View]
	if m.state.View == navigation.ViewToolInterface {
		if tool, ok := m.ctrl.Catalog().Lookup(m.state.ToolID); ok {
			title = tool.Name
		}
	}
	return m.styles.Header.Width(m.width).Render(fmt.Sprintf("◆ Nexus AI · %s · %s", info.Label, title))
}

func (m Model) renderFooter() string {
	var line string
	if m.notice != nil {
		line = m.noticeStyle(m.notice.Level).Render(m.notice.Text)
	} else if m.waiting > 0 {
		line = m.spinner.View() + m.styles.Muted.Render(" Generating...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, m.styles.Footer.Render(m.help.View(m.keys)))
}

func (m Model) noticeStyle(level app.Level) lipgloss.Style {
	switch level {
	case app.LevelSuccess:
		return m.styles.Success
	case app.LevelWarning:
		return m.styles.Warning
	case app.LevelError:
		return m.styles.Error
	default:
		return m.styles.Info
	}
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(ui.Logo(m.styles))
	b.WriteString("\n\n")

	items := []struct {
		view  navigation.View
		label string
	}{
		{navigation.ViewDashboard, "Dashboard"},
		{navigation.ViewChatbot, "Chat"},
		{navigation.ViewTools, "AI Tools"},
		{navigation.ViewSettings, "Settings"},
	}
	for _, it := range items {
		active := m.state.View == it.view ||
			(it.view == navigation.ViewTools && m.state.View == navigation.ViewToolInterface)
		if active {
			b.WriteString(m.styles.Selected.Render("▸ " + it.label))
		} else {
			b.WriteString(m.styles.Body.Render("  " + it.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("PROJECTS"))
	b.WriteString("\n")
	recent := m.ctrl.RecentProjects(m.opts.RecentProjects)
	if len(recent) == 0 {
		b.WriteString(m.styles.Muted.Render("  none yet"))
		b.WriteString("\n")
	}
	for _, p := range recent {
		name := truncate(p.Name, ui.SidebarWidth-4)
		if m.state.View == navigation.ViewProject && m.state.ProjectID == p.ID {
			b.WriteString(m.styles.Selected.Render("▸ " + name))
		} else {
			b.WriteString(m.styles.Body.Render("  " + name))
		}
		b.WriteString("\n")
	}

	return m.styles.Sidebar.Height(m.layout.ContentHeight()).Render(b.String())
}

func (m Model) renderBody() string {
	switch m.state.View {
	case navigation.ViewChatbot:
		return m.renderChat()
	case navigation.ViewProject:
		return m.renderProject()
	case navigation.ViewTools:
		return m.renderTools()
	case navigation.ViewToolInterface:
		return m.renderToolInterface()
	case navigation.ViewSettings:
		return m.renderSettings()
	default:
		return m.renderDashboard()
	}
}

func (m Model) renderDashboard() string {
	var b strings.Builder
	prefs := m.ctrl.Preferences()
	info := prefs.Context.Info()

	b.WriteString(m.styles.Title.Render("Welcome back"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(info.Description))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(m.styles.Bold.Render("Recent projects"))
	b.WriteString("\n")
	recent := m.ctrl.RecentProjects(m.opts.RecentProjects)
	if len(recent) == 0 {
		b.WriteString(m.styles.Muted.Render("No projects yet. Press enter or ctrl+n to create one."))
		b.WriteString("\n")
	}
	for i, p := range recent {
		line := fmt.Sprintf("%s  %s", p.Name, m.styles.Muted.Render(fmt.Sprintf("%d docs · %s", len(p.Documents), p.UpdatedAt.Format("Jan 2"))))
		b.WriteString(m.cursorLine(i == clamp(m.projectCursor, len(recent)), line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Bold.Render("Suggested tools"))
	b.WriteString("\n")
	for _, id := range info.Tools {
		if tool, ok := m.ctrl.Catalog().Lookup(id); ok {
			b.WriteString("  • " + tool.Name + m.styles.Muted.Render(" · "+tool.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d projects · %d messages · %d tools",
		len(m.ctrl.Projects()), len(m.ctrl.Messages()), m.ctrl.Catalog().Len())))
	return b.String()
}

func (m *Model) renderTranscript() string {
	msgs := m.ctrl.Messages()
	var parts []string
	if len(msgs) == 0 {
		parts = append(parts, m.styles.UserMessage.Render("Nexus AI"), m.styles.AgentResponse.Render(m.markdown(welcomeMessage)))
	}
	for _, msg := range msgs {
		stamp := m.styles.Muted.Render(msg.Timestamp.Format("15:04"))
		if msg.Role == chat.RoleUser {
			parts = append(parts, m.styles.UserMessage.Render("You")+" "+stamp, m.styles.Body.Render(msg.Content), "")
			continue
		}
		parts = append(parts, m.styles.UserMessage.Render("Nexus AI")+" "+stamp, m.styles.AgentResponse.Render(m.markdown(msg.Content)), "")
	}
	if m.ctrl.AwaitingReply() {
		parts = append(parts, m.spinner.View()+m.styles.Muted.Render(" Nexus AI is typing..."))
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderChat() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), "", m.input.View())
}

func (m Model) renderProject() string {
	p, ok := m.ctrl.Project(m.state.ProjectID)
	if !ok {
		return m.styles.Warning.Render("Project not found")
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Created " + p.CreatedAt.Format("Jan 2, 2006 15:04")))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Bold.Render(fmt.Sprintf("Documents (%d)", len(p.Documents))))
	b.WriteString("\n")
	if len(p.Documents) == 0 {
		b.WriteString(m.styles.Muted.Render("No documents yet. Press ctrl+d to add one."))
		b.WriteString("\n")
	}
	for _, d := range p.Documents {
		b.WriteString("  • " + d + "\n")
	}
	return b.String()
}

func (m Model) renderTools() string {
	var b strings.Builder
	cat := m.ctrl.Catalog()

	var tabs []string
	for _, c := range cat.Categories() {
		style := m.styles.Muted
		if c.ID == m.category {
			style = lipgloss.NewStyle().Foreground(m.styles.CategoryColor(c.Color)).Bold(true).Underline(true)
		}
		tabs = append(tabs, style.Render(c.Name))
	}
	b.WriteString(lipgloss.NewStyle().Width(m.layout.ContentWidth()).Render(strings.Join(tabs, "  ")))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	favLabel := fmt.Sprintf("☆ Favorites (%d)", len(m.favorites))
	if m.showFavorites {
		favLabel = m.styles.Selected.Render(fmt.Sprintf("★ Favorites (%d)", len(m.favorites)))
	} else {
		favLabel = m.styles.Muted.Render(favLabel)
	}
	b.WriteString(favLabel)
	b.WriteString("\n\n")

	tools := m.visibleTools()
	if len(tools) == 0 {
		if m.showFavorites {
			b.WriteString(m.styles.Muted.Render("No favorite tools yet. Press ctrl+f on a tool to add it."))
			return b.String()
		}
		b.WriteString(m.styles.Muted.Render("No tools found"))
		return b.String()
	}
	if q := strings.TrimSpace(m.input.Value()); q != "" {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d results for %q", len(tools), q)))
		b.WriteString("\n")
	}

	cursor := clamp(m.toolCursor, len(tools))
	start, end := window(len(tools), cursor, m.layout.ContentHeight()-8)
	for i := start; i < end; i++ {
		t := tools[i]
		line := t.Name
		if m.favorites[t.ID] {
			line = "★ " + line
		}
		if t.Premium {
			line += " " + m.styles.Badge.Render("PRO")
		}
		line += m.styles.Muted.Render(" · " + t.Description)
		b.WriteString(m.cursorLine(i == cursor, line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderToolInterface() string {
	tool, ok := m.ctrl.Catalog().Lookup(m.state.ToolID)
	if !ok {
		return m.styles.Error.Render("Tool not found")
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(tool.Name))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(tool.Description))
	b.WriteString("\n\n")

	kind, values := choices(tool)
	if len(values) > 0 {
		label := map[choiceKind]string{
			choiceOption:   "Style/type",
			choiceStyle:    "Citation style",
			choiceLanguage: "Target language",
		}[kind]
		v := values[clamp(m.choice, len(values))]
		if v == "" {
			v = "any"
		}
		b.WriteString(m.styles.Bold.Render(label+": ") + m.styles.Selected.Render("‹ "+v+" ›") + m.styles.Muted.Render("  (tab)"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.Bold.Render(tool.InputLabel))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.waiting > 0:
		b.WriteString(m.spinner.View() + m.styles.Muted.Render(" Generating..."))
	case m.toolOutput != "":
		b.WriteString(m.styles.Bold.Render("Result"))
		b.WriteString("\n")
		b.WriteString(m.styles.AgentResponse.Render(m.markdown(m.toolOutput)))
	}
	return b.String()
}

func (m Model) renderSettings() string {
	prefs := m.ctrl.Preferences()
	key := "not set"
	if prefs.APIKey != "" {
		key = maskKey(prefs.APIKey)
	}
	sidebar := "visible"
	if prefs.SidebarCollapsed {
		sidebar = "collapsed"
	}

	rows := []struct {
		label, value string
	}{
		{"Theme", string(prefs.Theme)},
		{"Workspace mode", prefs.Context.Info().Label},
		{"Sidebar", sidebar},
		{"Gemini API key", key},
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Settings"))
	b.WriteString("\n")
	for i, r := range rows {
		line := fmt.Sprintf("%-16s %s", r.label, r.value)
		b.WriteString(m.cursorLine(settingsRow(i) == m.settingsCursor, line))
		b.WriteString("\n")
	}
	if m.prompt == promptAPIKey {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("enter to save · esc to cancel"))
	}
	return b.String()
}

func (m Model) renderProjectPrompt() string {
	return m.styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("New project"),
		m.input.View(),
		m.styles.Muted.Render("enter to create · esc to cancel"),
	))
}

func (m Model) renderPalette() string {
	pal := m.ctrl.Palette()
	var b strings.Builder
	b.WriteString(m.palInput.View())
	b.WriteString("\n")

	groups := pal.Groups()
	if len(groups) == 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("No results found."))
	}
	selected, _ := pal.Selected()
	for _, g := range groups {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(strings.ToUpper(g.Name)))
		b.WriteString("\n")
		for _, c := range g.Commands {
			b.WriteString(m.cursorLine(c.ID == selected.ID, c.Label))
			b.WriteString("\n")
		}
	}
	return m.styles.Palette.Render(b.String())
}

func (m Model) cursorLine(selected bool, line string) string {
	if selected {
		return m.styles.Selected.Render("▸ ") + line
	}
	return "  " + line
}

// window returns the [start, end) range of n rows of which size are shown,
// keeping cursor visible.
func window(n, cursor, size int) (int, int) {
	if size < 1 {
		size = 1
	}
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func maskKey(k string) string {
	r := []rune(k)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return string(r[:4]) + strings.Repeat("•", 8)
}
