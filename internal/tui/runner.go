// Package tui is the terminal runner for wizard definitions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/stepwise/internal/hooks"
	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/mark3labs/stepwise/internal/wizard"
)

// Recorder persists navigation outcomes. *journal.Store satisfies it.
type Recorder interface {
	RecordTransition(ctx context.Context, wizardName, runID string, t wizard.Transition, snap wizard.Snapshot) error
	RecordReset(ctx context.Context, wizardName, runID string, snap wizard.Snapshot) error
}

// Options configures a runner.
type Options struct {
	WizardName  string
	RunID       string
	Recorder    Recorder      // optional
	Hooks       *hooks.Runner // required when HooksConfig is set
	HooksConfig *hooks.Config // optional wizard-wide hooks
}

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
)

// navigatedMsg reports the outcome of one navigation command.
type navigatedMsg struct {
	transition wizard.Transition
	settled    bool
	hookOutput string
	err        error
}

// resetMsg reports the outcome of a reset command.
type resetMsg struct {
	hookOutput string
	err        error
}

// Model is the bubbletea model driving a wizard.State.
type Model struct {
	ctx   context.Context
	state *wizard.State
	opts  Options

	viewport viewport.Model
	spinner  Spinner

	pending     bool
	status      string
	statusLevel statusLevel

	bodyStep  *wizard.Step
	bodyWidth int

	width    int
	height   int
	quitting bool
}

// New creates a runner over a reset wizard.
func New(ctx context.Context, st *wizard.State, opts Options) *Model {
	m := &Model{
		ctx:     ctx,
		state:   st,
		opts:    opts,
		spinner: NewDefaultSpinner(),
		width:   80,
		height:  24,
	}
	m.viewport = viewport.New(
		viewport.WithWidth(m.width),
		viewport.WithHeight(m.bodyHeight()),
	)
	m.syncBody()
	return m
}

// Run starts a full-screen program and blocks until the user quits.
func Run(ctx context.Context, st *wizard.State, opts Options) error {
	p := tea.NewProgram(New(ctx, st, opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("runner failed: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(m.width)
		m.viewport.SetHeight(m.bodyHeight())
		m.syncBody()
		return m, nil

	case navigatedMsg:
		m.pending = false
		m.handleNavigated(msg)
		m.syncBody()
		return m, nil

	case resetMsg:
		m.pending = false
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Reset failed: %v", msg.err))
		} else {
			m.setStatus(statusInfo, withHookOutput("Wizard reset", msg.hookOutput))
		}
		m.syncBody()
		return m, nil
	}

	if m.pending {
		return m, m.spinner.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return tea.Quit
	case "up", "down", "pgup", "pgdown", "k", "j":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	// Navigation is serialized here; the wizard rejects overlapping calls anyway.
	if m.pending {
		return nil
	}

	switch key {
	case "right", "enter":
		if !m.state.HasNextStep() {
			return nil
		}
		return m.startNavigation(func(ctx context.Context, opts ...wizard.GoOption) error {
			return m.state.GoToNextStep(ctx, opts...)
		})
	case "left", "backspace":
		if !m.state.HasPreviousStep() {
			return nil
		}
		return m.startNavigation(func(ctx context.Context, opts ...wizard.GoOption) error {
			return m.state.GoToPreviousStep(ctx, opts...)
		})
	case "r":
		m.pending = true
		return tea.Batch(m.resetCmd(), m.spinner.Tick())
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		index := int(key[0] - '1')
		if m.state.NavigationBarDisabled() || !m.state.IsNavigable(index) {
			return nil
		}
		return m.startNavigation(func(ctx context.Context, opts ...wizard.GoOption) error {
			return m.state.GoToStep(ctx, index, opts...)
		})
	}
	return nil
}

func (m *Model) startNavigation(move func(ctx context.Context, opts ...wizard.GoOption) error) tea.Cmd {
	m.pending = true
	m.status = ""
	return tea.Batch(m.navigateCmd(move), m.spinner.Tick())
}

// navigateCmd runs a navigation off the update loop. The transition is
// journaled from the post-finalize hook, then wizard-wide hooks run.
func (m *Model) navigateCmd(move func(ctx context.Context, opts ...wizard.GoOption) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		var msg navigatedMsg
		msg.err = move(ctx, wizard.PostFinalize(func(t wizard.Transition) {
			msg.transition = t
			msg.settled = true
			m.recordTransition(ctx, t)
		}))
		if msg.err != nil || !msg.settled || msg.transition.Refused || msg.transition.Direction == wizard.Stay {
			return msg
		}
		msg.hookOutput = m.runTransitionHooks(ctx, msg.transition)
		return msg
	}
}

func (m *Model) resetCmd() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := m.state.Reset(); err != nil {
			return resetMsg{err: err}
		}
		if m.opts.Recorder != nil {
			if err := m.opts.Recorder.RecordReset(ctx, m.opts.WizardName, m.opts.RunID, m.state.Snapshot()); err != nil {
				logger.Warn("Failed to record reset of %s: %v", m.opts.WizardName, err)
			}
		}
		var out string
		if cfg := m.opts.HooksConfig; cfg != nil && cfg.Hooks.OnReset != nil {
			out = m.runHook(ctx, cfg.Hooks.OnReset, m.state.CurrentStepIndex(), wizard.Stay)
		}
		return resetMsg{hookOutput: out}
	}
}

func (m *Model) recordTransition(ctx context.Context, t wizard.Transition) {
	if m.opts.Recorder == nil {
		return
	}
	if err := m.opts.Recorder.RecordTransition(ctx, m.opts.WizardName, m.opts.RunID, t, m.state.Snapshot()); err != nil {
		logger.Warn("Failed to record transition of %s: %v", m.opts.WizardName, err)
	}
}

func (m *Model) runTransitionHooks(ctx context.Context, t wizard.Transition) string {
	cfg := m.opts.HooksConfig
	if cfg == nil {
		return ""
	}
	var outputs []string
	if cfg.Hooks.OnTransition != nil {
		outputs = append(outputs, m.runHook(ctx, cfg.Hooks.OnTransition, t.To, t.Direction))
	}
	if cfg.Hooks.OnComplete != nil && m.state.Completed() {
		outputs = append(outputs, m.runHook(ctx, cfg.Hooks.OnComplete, t.To, t.Direction))
	}
	return strings.Join(outputs, "\n")
}

func (m *Model) runHook(ctx context.Context, hook *hooks.HookConfig, index int, direction wizard.MovingDirection) string {
	runner := m.opts.Hooks
	if runner == nil {
		runner = hooks.NewRunner(".", hooks.DefaultTimeout)
	}
	vars := hooks.Variables{
		Wizard:    m.opts.WizardName,
		Index:     index,
		Direction: direction.String(),
	}
	if step, err := m.state.StepAtIndex(index); err == nil {
		vars.Step = step.ID()
	}

	out, err := runner.Execute(ctx, hook, vars)
	if err != nil {
		logger.Warn("Hook %q cancelled: %v", hook.Command, err)
		return ""
	}
	out = strings.TrimSpace(out)
	if out != "" {
		logger.Info("Hook %q: %s", hook.Command, out)
	}
	return out
}

func (m *Model) handleNavigated(msg navigatedMsg) {
	t := msg.transition
	switch {
	case msg.err != nil:
		m.setStatus(statusError, fmt.Sprintf("Navigation failed: %v", msg.err))
	case !msg.settled:
	case t.Refused:
		m.setStatus(statusWarn, fmt.Sprintf("Cannot move %s to %s", t.Direction, m.stepTitle(t.To)))
	case t.Direction == wizard.Stay:
		m.setStatus(statusInfo, fmt.Sprintf("Stayed on %s", m.stepTitle(t.From)))
	default:
		text := fmt.Sprintf("Moved %s to %s", t.Direction, m.stepTitle(t.To))
		if m.state.Completed() {
			text += " · wizard completed"
		}
		m.setStatus(statusInfo, withHookOutput(text, msg.hookOutput))
	}
}

func withHookOutput(text, output string) string {
	if output == "" {
		return text
	}
	first, _, _ := strings.Cut(output, "\n")
	return text + " · " + first
}

func (m *Model) setStatus(level statusLevel, text string) {
	m.statusLevel = level
	m.status = text
}

func (m *Model) stepTitle(index int) string {
	step, err := m.state.StepAtIndex(index)
	if err != nil {
		return fmt.Sprintf("step %d", index+1)
	}
	return step.Title()
}

// bodyHeight leaves room for the header, nav bar, panel title, status line
// and hints.
func (m *Model) bodyHeight() int {
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

// syncBody re-renders the step body when the step or width changed.
func (m *Model) syncBody() {
	step := m.state.CurrentStep()
	if step == m.bodyStep && m.width == m.bodyWidth {
		return
	}
	m.bodyStep = step
	m.bodyWidth = m.width

	if step == nil {
		m.viewport.SetContent("")
		return
	}
	body := step.Body()
	if strings.TrimSpace(body) == "" {
		body = "_Nothing to do here._"
	}
	m.viewport.SetContent(renderMarkdown(body, m.width))
	m.viewport.GotoTop()
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.quitting {
		view.AltScreen = false
		view.Content = lipgloss.NewLayer("")
		return view
	}

	view.Content = lipgloss.NewLayer(m.render())
	return view
}

// render draws the whole screen into a string.
func (m *Model) render() string {
	canvas := uv.NewScreenBuffer(m.width, m.height)
	m.Draw(canvas, canvas.Bounds())
	return canvas.Render()
}

// Draw renders all components to the screen buffer.
func (m *Model) Draw(scr uv.Screen, area uv.Rectangle) {
	x, y, w := area.Min.X, area.Min.Y, area.Dx()

	DrawStyled(scr, uv.Rect(x, y, w, 1), styleHeader, m.headerText())
	DrawText(scr, uv.Rect(x, y+1, w, 1), renderNavBar(m.state, w))

	title := ""
	if step := m.state.CurrentStep(); step != nil {
		title = step.Title()
	}
	bodyArea := uv.Rect(x, y+2, w, m.bodyHeight()+1)
	inner := DrawPanel(scr, bodyArea, title)
	DrawText(scr, inner, m.viewport.View())
	if m.viewport.TotalLineCount() > m.viewport.Height() {
		DrawScrollIndicator(scr, inner, m.viewport.ScrollPercent())
	}

	DrawStyled(scr, uv.Rect(x, area.Max.Y-2, w, 1), styleStatus, m.statusText())
	DrawText(scr, uv.Rect(x, area.Max.Y-1, w, 1), " "+HintRunner(!m.state.NavigationBarDisabled()))
}

func (m *Model) headerText() string {
	name := m.opts.WizardName
	if name == "" {
		name = "wizard"
	}
	info := fmt.Sprintf("%s · step %d of %d", m.state.NavigationMode().Name(),
		m.state.CurrentStepIndex()+1, m.state.Len())
	if m.state.Completed() {
		info += " · completed"
	}
	return styleHeaderTitle.Render(name) + "  " + styleHeaderInfo.Render(info)
}

func (m *Model) statusText() string {
	if m.pending {
		return m.spinner.View() + " checking guards…"
	}
	switch m.statusLevel {
	case statusWarn:
		return styleStatusWarn.Render(m.status)
	case statusError:
		return styleStatusError.Render(m.status)
	default:
		return styleStatusInfo.Render(m.status)
	}
}
