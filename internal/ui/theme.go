package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/statewalk/evlog/internal/event"
)

// Theme is a named palette for the browse viewer.
type Theme struct {
	Name string

	Background string
	Surface    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Warning string
	Danger  string
	Info    string

	// CategoryColors colours the category column, keyed by eventCategory.
	CategoryColors map[string]string
}

// Styles holds the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Selected lipgloss.Style

	categoryColors map[string]string
	muted          string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	surface := lipgloss.Color(t.Surface)
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:   fg(t.Text).Background(surface).Padding(0, 1),
		Footer:   fg(t.Muted).Background(surface).Padding(0, 1),
		Title:    fg(t.Warning).Bold(true),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),

		categoryColors: t.CategoryColors,
		muted:          t.Muted,
	}
}

// CategoryColor returns the colour for category, or the muted colour for
// categories the theme does not name.
func (s Styles) CategoryColor(category string) string {
	if color := s.categoryColors[category]; color != "" {
		return color
	}
	return s.muted
}

// CategoryStyle returns the foreground style used for a category label.
func (s Styles) CategoryStyle(category string) lipgloss.Style {
	return fg(s.CategoryColor(category))
}

// WithBackground returns a copy of s with every text style painted on bgColor.
// Selected keeps its own background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Footer, &out.Title,
	} {
		*st = st.Background(bg)
	}
	return out
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	"Nightfox": {
		Name:       "Nightfox",
		Background: "#131a24",
		Surface:    "#192330",

		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderFocus:   "#719cd6",

		Text:    "#cdcecf",
		Muted:   "#738091",
		Faint:   "#71839b",
		Accent:  "#719cd6",
		Warning: "#dbc074",
		Danger:  "#c94f6d",
		Info:    "#63cdcf",

		CategoryColors: categoryPalette("#719cd6", "#63cdcf", "#9d79d6", "#81b29a", "#f4a261", "#71839b", "#dbc074", "#738091", "#c94f6d"),
	},
	"Kanagawa": {
		Name:       "Kanagawa",
		Background: "#16161D",
		Surface:    "#1F1F28",

		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",
		Border:        "#54546D",
		BorderFocus:   "#7E9CD8",

		Text:    "#DCD7BA",
		Muted:   "#C8C093",
		Faint:   "#727169",
		Accent:  "#7E9CD8",
		Warning: "#E6C384",
		Danger:  "#E46876",
		Info:    "#7FB4CA",

		CategoryColors: categoryPalette("#7E9CD8", "#7FB4CA", "#957FB8", "#98BB6C", "#FFA066", "#727169", "#E6C384", "#C8C093", "#E46876"),
	},
	"Slate": {
		Name:       "Slate",
		Background: "#020617",
		Surface:    "#0f172a",

		SelectionBg:   "#0284c7",
		SelectionText: "#f8fafc",
		Border:        "#334155",
		BorderFocus:   "#38bdf8",

		Text:    "#f1f5f9",
		Muted:   "#94a3b8",
		Faint:   "#64748b",
		Accent:  "#38bdf8",
		Warning: "#f59e0b",
		Danger:  "#ef4444",
		Info:    "#06b6d4",

		CategoryColors: categoryPalette("#38bdf8", "#06b6d4", "#22d3ee", "#22c55e", "#f59e0b", "#64748b", "#fbbf24", "#94a3b8", "#dc2626"),
	},
}

// categoryPalette maps colours onto categories in the order: state change,
// websocket in, websocket out, registry create, registry remove, rehydrate,
// timeout, event fired, error.
func categoryPalette(colors ...string) map[string]string {
	categories := []string{
		event.CategoryStateChange,
		event.CategoryWebsocketIn,
		event.CategoryWebsocketOut,
		event.CategoryRegistryCreate,
		event.CategoryRegistryRemove,
		event.CategoryRegistryRehydrate,
		event.CategoryTimeout,
		event.CategoryEventFired,
		event.CategoryError,
	}
	out := make(map[string]string, len(categories))
	for i, category := range categories {
		if i < len(colors) {
			out[category] = colors[i]
		}
	}
	return out
}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["Nightfox"]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}
