package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// DrawText renders plain text at a position
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// DrawStyled renders lipgloss-styled content at a position
func DrawStyled(scr uv.Screen, area uv.Rectangle, style lipgloss.Style, text string) {
	content := style.Width(area.Dx()).Height(area.Dy()).Render(text)
	uv.NewStyledString(content).Draw(scr, area)
}

// DrawPanel renders a panel with a title header and returns the inner content area.
// The header shows "Title ────────" with a trailing rule line.
func DrawPanel(scr uv.Screen, area uv.Rectangle, title string) uv.Rectangle {
	headerHeight := 0

	if title != "" {
		headerHeight = 1
		styledTitle := stylePanelTitle.Render(title)
		ruleWidth := area.Dx() - lipgloss.Width(styledTitle) - 1 // -1 for space
		if ruleWidth < 0 {
			ruleWidth = 0
		}

		headerText := styledTitle + " " + stylePanelRule.Render(strings.Repeat("─", ruleWidth))
		uv.NewStyledString(headerText).Draw(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1))
	}

	innerHeight := area.Dy() - headerHeight
	if innerHeight < 0 {
		innerHeight = 0
	}
	return uv.Rect(area.Min.X, area.Min.Y+headerHeight, area.Dx(), innerHeight)
}

// DrawScrollIndicator renders a scroll position indicator
func DrawScrollIndicator(scr uv.Screen, area uv.Rectangle, percent float64) {
	indicator := fmt.Sprintf(" %d%% ", int(percent*100))
	indicatorArea := uv.Rectangle{
		Min: uv.Position{X: area.Max.X - len(indicator), Y: area.Max.Y - 1},
		Max: uv.Position{X: area.Max.X, Y: area.Max.Y},
	}
	DrawStyled(scr, indicatorArea, styleScrollIndicator, indicator)
}
