package ui

// Layout constants for the browse viewer.
const (
	// chromeRows covers the header, the command bar and the status line.
	chromeRows = 3

	// boxChromeRows covers a box's title line and its top and bottom borders.
	boxChromeRows = 3

	// minListRows keeps the event list usable on short terminals.
	minListRows = 3

	// listShare is the fraction (in tenths) of the content area given to
	// the list when the detail pane is visible.
	listShare = 4
)

func (m Model) contentHeight() int {
	h := m.height - chromeRows
	if h < 0 {
		return 0
	}
	return h
}

// listBoxHeight returns the outer height of the list box.
func (m Model) listBoxHeight() int {
	content := m.contentHeight()
	if m.prefs.Condensed {
		return content
	}
	h := content * listShare / 10
	if h < minListRows+boxChromeRows {
		h = minListRows + boxChromeRows
	}
	if h > content {
		h = content
	}
	return h
}

// detailBoxHeight returns the outer height of the detail box, zero when hidden.
func (m Model) detailBoxHeight() int {
	if m.prefs.Condensed {
		return 0
	}
	h := m.contentHeight() - m.listBoxHeight()
	if h < 0 {
		return 0
	}
	return h
}

// listHeight returns how many event rows fit in the list box.
func (m Model) listHeight() int {
	h := m.listBoxHeight() - boxChromeRows
	if h < 0 {
		return 0
	}
	return h
}

func (m *Model) resize() {
	width := m.width - 4
	if width < 0 {
		width = 0
	}
	height := m.detailBoxHeight() - boxChromeRows
	if height < 0 {
		height = 0
	}
	m.detail.Width = width
	m.detail.Height = height
	m.clampSelection()
}
