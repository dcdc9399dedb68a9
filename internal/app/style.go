package app

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/statewalk/evlog/internal/render"
)

// styles colours CLI output when stdout is a terminal and is a no-op otherwise.
type styles struct {
	on      bool
	header  lipgloss.Style
	muted   lipgloss.Style
	failure lipgloss.Style
	success lipgloss.Style
}

func newStyles(w io.Writer, force *bool) styles {
	on := false
	if force != nil {
		on = *force
	} else if f, ok := w.(*os.File); ok && os.Getenv("NO_COLOR") == "" {
		on = isatty.IsTerminal(f.Fd())
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		on:      on,
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7dcfff")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#738091")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#f7768e")),
		success: r.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
	}
}

func (s styles) Header(v string) string {
	if !s.on {
		return v
	}
	return s.header.Render(v)
}

func (s styles) Muted(v string) string {
	if !s.on {
		return v
	}
	return s.muted.Render(v)
}

// Block colours one render.Detailed block line by line.
func (s styles) Block(block string) string {
	if !s.on {
		return block
	}
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		switch {
		case line == render.Separator():
			lines[i] = s.muted.Render(line)
		case strings.HasPrefix(line, "Error: "):
			lines[i] = s.failure.Render(line)
		case line == "Success":
			lines[i] = s.success.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
