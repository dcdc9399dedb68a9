// Package ui implements `evlog browse`, a Bubble Tea viewer for one day of
// events.
//
// # Layout
//
//   - Header: date, event counts, active filters and recovery notes
//     (dropped fragments, partial tail)
//   - Command bar: key hints and the current theme
//   - Event list: one condensed line per record, colored by category
//   - Detail pane: the full record of the selected line (toggle with c)
//   - Status line: load errors, the filter input when editing
//
// # Data Flow
//
// The viewer never polls. A load runs as a tea.Cmd on start, on r (reload),
// and on [ and ] (previous and next day). The result is written to a
// state.Store and the model keeps the returned Snapshot. A missing file is
// shown as an empty day rather than an error; other failures keep the previous
// day on screen.
//
// # Filtering
//
// / edits the plain any-field filter and w edits a CEL expression (see
// package filter). Both are applied in memory on every load, so reloading
// keeps the current filters. Esc clears them.
//
// # Preferences
//
// Theme changes (t), the detail pane toggle and the last plain filter are
// saved to prefs.toml immediately.
package ui
