package tui

// Standard key representations for consistent hints across the runner.
const (
	KeyNext     = "→/enter"
	KeyPrevious = "←/bksp"
	KeyJump     = "1-9"
	KeyReset    = "r"
	KeyScroll   = "↑/↓"
	KeyQuit     = "q"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "next") -> "enter next"
func RenderHint(key, desc string) string {
	return styleHintKey.Render(key) + " " + styleHintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Pairs are separated by " • ".
// Example: RenderHintBar("→", "next", "q", "quit") -> "→ next • q quit"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + styleHintSeparator.Render("•") + " "
		}
		result += RenderHint(pairs[i], pairs[i+1])
	}
	return result
}

// HintRunner returns the hints shown below the step body. Jump hints are
// omitted when the navigation bar is disabled.
func HintRunner(navBar bool) string {
	pairs := []string{KeyNext, "next", KeyPrevious, "back"}
	if navBar {
		pairs = append(pairs, KeyJump, "jump")
	}
	pairs = append(pairs, KeyScroll, "scroll", KeyReset, "reset", KeyQuit, "quit")
	return RenderHintBar(pairs...)
}
