// Package ui provides the visual styling for the nexus terminal workspace.
// Each persisted theme preference maps to one lipgloss palette.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nexus/internal/ux"
)

var (
	// Light
	LightBackground = lipgloss.Color("#f8fafc")
	LightForeground = lipgloss.Color("#0f172a")
	LightPrimary    = lipgloss.Color("#4f46e5") // Indigo
	LightAccent     = lipgloss.Color("#0ea5e9") // Sky
	LightMuted      = lipgloss.Color("#64748b")
	LightBorder     = lipgloss.Color("#cbd5e1")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark
	DarkBackground = lipgloss.Color("#0f172a")
	DarkForeground = lipgloss.Color("#e2e8f0")
	DarkPrimary    = lipgloss.Color("#818cf8")
	DarkAccent     = lipgloss.Color("#38bdf8")
	DarkMuted      = lipgloss.Color("#94a3b8")
	DarkBorder     = lipgloss.Color("#334155")
	DarkCard       = lipgloss.Color("#1e293b")

	// Cyberpunk
	CyberBackground = lipgloss.Color("#0d0221")
	CyberForeground = lipgloss.Color("#f0f0f0")
	CyberPrimary    = lipgloss.Color("#ff2a6d") // Neon pink
	CyberAccent     = lipgloss.Color("#05d9e8") // Neon cyan
	CyberMuted      = lipgloss.Color("#7b6d9b")
	CyberBorder     = lipgloss.Color("#d300c5")
	CyberCard       = lipgloss.Color("#1a0b3d")

	// Semantic colors are shared by every theme.
	Destructive = lipgloss.Color("#ef4444")
	Success     = lipgloss.Color("#22c55e")
	Warning     = lipgloss.Color("#f59e0b")
	Info        = lipgloss.Color("#3b82f6")
)

// Theme holds one color scheme.
type Theme struct {
	Name       ux.Theme
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Name:       ux.ThemeLight,
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Name:       ux.ThemeDark,
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// CyberpunkTheme returns the neon theme
func CyberpunkTheme() Theme {
	return Theme{
		Name:       ux.ThemeCyberpunk,
		Background: CyberBackground,
		Foreground: CyberForeground,
		Primary:    CyberPrimary,
		Accent:     CyberAccent,
		Muted:      CyberMuted,
		Border:     CyberBorder,
		Card:       CyberCard,
		IsDark:     true,
	}
}

// ThemeFor maps a theme preference to its palette. Unknown values get light.
func ThemeFor(t ux.Theme) Theme {
	switch t {
	case ux.ThemeDark:
		return DarkTheme()
	case ux.ThemeCyberpunk:
		return CyberpunkTheme()
	default:
		return LightTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style
	Sidebar lipgloss.Style
	Card    lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Interactive
	Prompt        lipgloss.Style
	Selected      lipgloss.Style
	UserMessage   lipgloss.Style
	AgentResponse lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
	Palette lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Sidebar: lipgloss.NewStyle().
			Width(SidebarWidth).
			Padding(1, 1).
			BorderRight(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Border),

		Card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserMessage: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		AgentResponse: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		Palette: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary),
	}
}

// StylesFor returns the styles for a theme preference.
func StylesFor(t ux.Theme) Styles {
	return NewStyles(ThemeFor(t))
}

// CategoryColor returns the display color for a catalog category color name.
func (s Styles) CategoryColor(name string) lipgloss.Color {
	switch name {
	case "blue":
		return lipgloss.Color("#3b82f6")
	case "purple":
		return lipgloss.Color("#a855f7")
	case "green":
		return lipgloss.Color("#22c55e")
	case "orange":
		return lipgloss.Color("#f97316")
	case "yellow":
		return lipgloss.Color("#eab308")
	case "pink":
		return lipgloss.Color("#ec4899")
	case "red":
		return lipgloss.Color("#ef4444")
	case "indigo":
		return lipgloss.Color("#6366f1")
	case "teal":
		return lipgloss.Color("#14b8a6")
	case "cyan":
		return lipgloss.Color("#06b6d4")
	default:
		return s.Theme.Accent
	}
}

// Logo returns the nexus wordmark
func Logo(s Styles) string {
	return s.Title.Render("◆ Nexus AI")
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
