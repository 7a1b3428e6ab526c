package tui

import (
	"charm.land/lipgloss/v2"
)

// ============================================================================
// COLOR PALETTE - Catppuccin Mocha Inspired
// ============================================================================
//
// TEXT (dimmest to brightest):
//
//	colorSubtext0 - Very muted text (hints, disabled nav entries)
//	colorText     - Primary text content
//	colorTextBright - Emphasized text, titles
//
// SEMANTIC:
//
//	colorSuccess - Completed steps, accepted transitions
//	colorWarning - Editing a completed step, refused transitions
//	colorError   - Navigation errors
//
// ============================================================================
var (
	colorMantle   = lipgloss.Color("#181825")
	colorSurface0 = lipgloss.Color("#313244")
	colorSurface2 = lipgloss.Color("#585b70")
	colorOverlay0 = lipgloss.Color("#6c7086")

	colorSubtext0   = lipgloss.Color("#a6adc8")
	colorSubtext1   = lipgloss.Color("#bac2de")
	colorText       = lipgloss.Color("#cdd6f4")
	colorTextBright = lipgloss.Color("#f5e0dc")

	colorPrimary   = lipgloss.Color("#cba6f7")
	colorSecondary = lipgloss.Color("#89b4fa")

	colorSuccess = lipgloss.Color("#a6e3a1")
	colorWarning = lipgloss.Color("#f9e2af")
	colorError   = lipgloss.Color("#f38ba8")
)

// Header styles
var (
	styleHeader = lipgloss.NewStyle().
			Foreground(colorTextBright).
			Background(colorMantle).
			Bold(true).
			Padding(0, 1)

	styleHeaderTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleHeaderInfo = lipgloss.NewStyle().
			Foreground(colorSubtext1)
)

// Navigation bar styles, one per step state
var (
	styleNavSelected = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Underline(true)

	styleNavEditing = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true).
			Underline(true)

	styleNavCompleted = lipgloss.NewStyle().
				Foreground(colorSuccess)

	styleNavPending = lipgloss.NewStyle().
			Foreground(colorText)

	styleNavDisabled = lipgloss.NewStyle().
				Foreground(colorOverlay0)

	styleNavSeparator = lipgloss.NewStyle().
				Foreground(colorSurface2)
)

// Panel styles
var (
	stylePanelTitle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	stylePanelRule = lipgloss.NewStyle().
			Foreground(colorSurface2)

	styleScrollIndicator = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Background(colorSurface0)
)

// Status line styles
var (
	styleStatus = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 1)

	styleStatusInfo = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleStatusWarn = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleStatusError = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true)

	styleSpinner = lipgloss.NewStyle().
			Foreground(colorPrimary)
)

// Hint bar styles
var (
	styleHintKey = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Bold(true)

	styleHintDesc = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleHintSeparator = lipgloss.NewStyle().
				Foreground(colorSurface2)
)

// Code block style used when syntax highlighting fails.
var styleCode = lipgloss.NewStyle().
	Foreground(colorText).
	Background(colorSurface0)
