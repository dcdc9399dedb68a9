package ui

import (
	"fmt"
	"strings"

	"github.com/statewalk/evlog/internal/render"
	"github.com/statewalk/evlog/internal/state"
)

// renderHeader renders the title line: date, counts and recovery notes.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	day := m.snapshot.Day

	segments := []string{
		bg.Render("evlog", styles.Title),
		bg.Render(day.Date, styles.Text),
	}

	total := len(day.Records)
	count := fmt.Sprintf("%d events", total)
	if len(m.records) != total {
		count = fmt.Sprintf("%d of %d events", len(m.records), total)
	}
	segments = append(segments, bg.Render(count, styles.AccentText))

	if m.query.Value != "" {
		segments = append(segments, bg.Render("filter '"+render.Truncate(m.query.Value, 24)+"'", styles.InfoText))
	}
	if m.query.Where != "" {
		segments = append(segments, bg.Render("where "+render.Truncate(m.query.Where, 32), styles.InfoText))
	}
	if day.Dropped > 0 {
		segments = append(segments, bg.Render(fmt.Sprintf("%d dropped", day.Dropped), styles.WarningText))
	}
	if day.Partial {
		segments = append(segments, bg.Render("partial tail", styles.WarningText))
	}
	if m.snapshot.IsOffline() {
		segments = append(segments, bg.Render("OFFLINE", styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Sep(" │ ")))
}

// renderCommandBar renders the key hints line.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	paneLabel := "Summary"
	if m.prefs.Condensed {
		paneLabel = "Detail"
	}
	commands := []struct{ key, desc string }{
		{"j/k", "Navigate"},
		{"/", "Filter"},
		{"w", "Where"},
		{"r", "Reload"},
		{"[/]", "Day"},
		{"c", paneLabel},
		{"?", "More"},
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("t", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// errorLabel condenses a load error into a short status word.
func errorLabel(snap state.Snapshot) string {
	if snap.LastError == nil {
		return ""
	}
	msg := snap.LastError.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}
