package tui

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/stepwise/internal/wizard"
)

// Step markers
const (
	markSelected  = "●"
	markEditing   = "✎"
	markCompleted = "✓"
	markPending   = "○"
)

// navLabel is the unstyled text of one navigation bar entry.
func navLabel(index int, step *wizard.Step, flags wizard.StepFlags) string {
	mark := markPending
	switch {
	case flags.Editing:
		mark = markEditing
	case flags.Selected:
		mark = markSelected
	case flags.Completed:
		mark = markCompleted
	}

	symbol := step.Symbol()
	if symbol == "" {
		symbol = strconv.Itoa(index + 1)
	}

	label := mark + " " + symbol + " " + flags.Title
	if flags.Optional {
		label += " (optional)"
	}
	return label
}

// navStyle picks the style of an entry. Entries the user cannot jump to are
// dimmed, as is the whole bar when it is disabled.
func navStyle(flags wizard.StepFlags, navigable, disabled bool) lipgloss.Style {
	switch {
	case flags.Editing:
		return styleNavEditing
	case flags.Selected:
		return styleNavSelected
	case disabled || !navigable:
		return styleNavDisabled
	case flags.Completed:
		return styleNavCompleted
	default:
		return styleNavPending
	}
}

// renderNavBar renders one entry per step, truncated to width.
func renderNavBar(st *wizard.State, width int) string {
	disabled := st.NavigationBarDisabled()
	steps := st.Steps()
	entries := make([]string, len(steps))
	for i, step := range steps {
		flags := step.Flags()
		entries[i] = navStyle(flags, st.IsNavigable(i), disabled).Render(navLabel(i, step, flags))
	}

	bar := strings.Join(entries, styleNavSeparator.Render(" › "))
	if width > 0 {
		bar = ansi.Truncate(bar, width, "…")
	}
	return bar
}
