// Package palette implements the command palette: a fixed command set
// filtered by fuzzy matching on labels.
package palette

import (
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
)

const (
	GroupNavigation = "Navigation"
	GroupCreate     = "Create"
	GroupAI         = "AI"
	GroupAppearance = "Appearance"
)

// Command is one palette entry. Target is the view, tool id or theme the
// command acts on, depending on Kind.
type Command struct {
	ID     string
	Label  string
	Group  string
	Kind   Kind
	Target string
}

// Kind is what executing a command does.
type Kind int

const (
	KindNavigate Kind = iota
	KindNewProject
	KindNewDocument
	KindOpenTool
	KindTheme
	KindToggleSidebar
)

// DefaultCommands returns the built-in command set in display order.
func DefaultCommands() []Command {
	return []Command{
		{ID: "dashboard", Label: "Go to Dashboard", Group: GroupNavigation, Kind: KindNavigate, Target: "dashboard"},
		{ID: "chatbot", Label: "Open Chatbot", Group: GroupNavigation, Kind: KindNavigate, Target: "chatbot"},
		{ID: "tools", Label: "Browse AI Tools", Group: GroupNavigation, Kind: KindNavigate, Target: "tools"},
		{ID: "settings", Label: "Settings", Group: GroupNavigation, Kind: KindNavigate, Target: "settings"},

		{ID: "new-project", Label: "Create New Project", Group: GroupCreate, Kind: KindNewProject},
		{ID: "new-document", Label: "New Document", Group: GroupCreate, Kind: KindNewDocument},

		{ID: "ai-summarizer", Label: "Summarize Text", Group: GroupAI, Kind: KindOpenTool, Target: "summarizer"},
		{ID: "ai-humanizer", Label: "Humanize Text", Group: GroupAI, Kind: KindOpenTool, Target: "humanizer"},
		{ID: "ai-proofreader", Label: "Proofread Text", Group: GroupAI, Kind: KindOpenTool, Target: "proofreader"},
		{ID: "ai-code", Label: "Explain Code", Group: GroupAI, Kind: KindOpenTool, Target: "code_explainer"},
		{ID: "ai-brainstorm", Label: "Brainstorm", Group: GroupAI, Kind: KindOpenTool, Target: "brainstorm"},

		{ID: "theme-light", Label: "Light Theme", Group: GroupAppearance, Kind: KindTheme, Target: "light"},
		{ID: "theme-dark", Label: "Dark Theme", Group: GroupAppearance, Kind: KindTheme, Target: "dark"},
		{ID: "theme-cyberpunk", Label: "Cyberpunk Theme", Group: GroupAppearance, Kind: KindTheme, Target: "cyberpunk"},
		{ID: "toggle-sidebar", Label: "Toggle Sidebar", Group: GroupAppearance, Kind: KindToggleSidebar},
	}
}

type labels []Command

func (l labels) String(i int) string { return l[i].Label }
func (l labels) Len() int            { return len(l) }

// Group is a run of matches sharing a group name.
type Group struct {
	Name     string
	Commands []Command
}

// Palette holds the query, its matches and the selection cursor.
type Palette struct {
	mu       sync.RWMutex
	commands []Command
	query    string
	matches  []Command
	cursor   int
}

// New creates a palette over commands with an empty query.
func New(commands []Command) *Palette {
	p := &Palette{commands: append([]Command(nil), commands...)}
	p.matches = p.filter("")
	return p
}

// Lookup returns the command with id.
func (p *Palette) Lookup(id string) (Command, bool) {
	for _, c := range p.commands {
		if c.ID == id {
			return c, true
		}
	}
	return Command{}, false
}

func (p *Palette) filter(query string) []Command {
	if strings.TrimSpace(query) == "" {
		return append([]Command(nil), p.commands...)
	}
	found := fuzzy.FindFrom(strings.TrimSpace(query), labels(p.commands))
	out := make([]Command, 0, len(found))
	for _, m := range found {
		out = append(out, p.commands[m.Index])
	}
	return out
}

// Filter sets the query and returns the matches, best first. A blank query
// matches every command in declaration order. The cursor resets to the top.
func (p *Palette) Filter(query string) []Command {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.query = query
	p.matches = p.filter(query)
	p.cursor = 0
	return append([]Command(nil), p.matches...)
}

// Query returns the current query.
func (p *Palette) Query() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.query
}

// Matches returns the current matches.
func (p *Palette) Matches() []Command {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Command(nil), p.matches...)
}

// Groups returns the current matches grouped by group name, groups in the
// order they first appear.
func (p *Palette) Groups() []Group {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var groups []Group
	index := map[string]int{}
	for _, c := range p.matches {
		i, ok := index[c.Group]
		if !ok {
			i = len(groups)
			index[c.Group] = i
			groups = append(groups, Group{Name: c.Group})
		}
		groups[i].Commands = append(groups[i].Commands, c)
	}
	return groups
}

// Move shifts the cursor by delta, clamped to the matches.
func (p *Palette) Move(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cursor += delta
	if p.cursor >= len(p.matches) {
		p.cursor = len(p.matches) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Cursor returns the selected index within Matches.
func (p *Palette) Cursor() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cursor
}

// Selected returns the command under the cursor.
func (p *Palette) Selected() (Command, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.matches) == 0 {
		return Command{}, false
	}
	return p.matches[p.cursor], true
}

// Reset clears the query.
func (p *Palette) Reset() {
	p.Filter("")
}
