package ui

// Layout constants for the workspace frame
const (
	SidebarWidth          = 24
	CollapsedSidebarWidth = 0
	HeaderHeight          = 1
	FooterHeight          = 2
	InputHeight           = 3

	ViewportHorizontalPadding = 4

	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 16
	CompactModeWidth      = 100
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth    int
	TerminalHeight   int
	SidebarCollapsed bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size.
// Narrow terminals always hide the sidebar.
func NewLayoutConfig(width, height int, collapsed bool) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:    width,
		TerminalHeight:   height,
		SidebarCollapsed: collapsed || width < CompactModeWidth,
	}
}

// SidebarWidth returns the rendered sidebar width including its border.
func (l LayoutConfig) SidebarWidth() int {
	if l.SidebarCollapsed {
		return CollapsedSidebarWidth
	}
	return SidebarWidth + 1
}

// ContentWidth returns the usable width right of the sidebar.
func (l LayoutConfig) ContentWidth() int {
	w := l.TerminalWidth - l.SidebarWidth() - ViewportHorizontalPadding
	if w < 10 {
		return 10
	}
	return w
}

// ContentHeight returns the usable height between header and footer.
func (l LayoutConfig) ContentHeight() int {
	h := l.TerminalHeight - HeaderHeight - FooterHeight
	if h < 3 {
		return 3
	}
	return h
}

// ViewportHeight returns the transcript height when an input line is shown.
func (l LayoutConfig) ViewportHeight() int {
	h := l.ContentHeight() - InputHeight
	if h < 1 {
		return 1
	}
	return h
}
