package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/statewalk/evlog/internal/render"
)

// renderMain renders the header, the list, the optional detail pane and the
// status line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	if h := m.detailBoxHeight(); h > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderBox("Detail", m.detail.View(), m.width, h, false))
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderList() string {
	styles := m.theme.Styles()
	rows := m.listHeight()
	inner := m.width - 4
	if inner < 0 {
		inner = 0
	}

	var lines []string
	switch {
	case m.notFound:
		lines = append(lines, styles.WarningText.Render("No events file found for "+m.snapshot.Day.Date))
	case len(m.records) == 0 && m.snapshot.HasDay:
		lines = append(lines, styles.MutedText.Render("No events match"))
	}

	end := m.offset + rows
	if end > len(m.records) {
		end = len(m.records)
	}
	for i := m.offset; i < end && len(lines) < rows; i++ {
		lines = append(lines, m.renderRow(i, inner, styles))
	}

	title := fmt.Sprintf("Events %s", m.snapshot.Day.Date)
	if len(m.records) > 0 {
		title = fmt.Sprintf("%s  %d/%d", title, m.selected+1, len(m.records))
	}
	return m.renderBox(title, strings.Join(lines, "\n"), m.width, m.listBoxHeight(), true)
}

func (m Model) renderRow(i, width int, styles Styles) string {
	rec := m.records[i]
	line := render.Truncate(render.Condensed(rec), width-2)
	if i == m.selected {
		return styles.Selected.Width(width).Render("▌ " + line)
	}
	marker := styles.CategoryStyle(rec.Category).Render("● ")
	return marker + styles.Text.Render(line)
}

// renderBox draws a titled, rounded box of the given outer size.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	if height < boxChromeRows {
		return ""
	}
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	styles := m.theme.Styles()
	head := styles.Title.Render(" " + title)

	inner := width - 2
	if inner < 0 {
		inner = 0
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(inner).
		Height(height - boxChromeRows).
		MaxHeight(height - 1).
		Render(content)
	return head + "\n" + box
}

func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	if m.inputMode != inputNone {
		label := "filter: "
		if m.inputMode == inputWhere {
			label = "where: "
		}
		line := bg.Render(label, styles.AccentText) + m.input.View()
		if m.inputErr != "" {
			line += bg.Spaces(2) + bg.Render(render.Truncate(m.inputErr, m.width/2), styles.DangerText)
		}
		return bg.FillLine(line, m.width)
	}

	var parts []string
	if m.loading {
		parts = append(parts, bg.Render("loading...", styles.MutedText))
	}
	if m.snapshot.LastError != nil {
		parts = append(parts, bg.Render(errorLabel(m.snapshot)+": "+render.Truncate(m.snapshot.LastError.Error(), m.width/2), styles.DangerText))
	}
	if m.inputErr != "" {
		parts = append(parts, bg.Render(render.Truncate(m.inputErr, m.width/2), styles.DangerText))
	}
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render("loaded "+m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}
	return bg.FillLine(strings.Join(parts, bg.Spaces(2)), m.width)
}
