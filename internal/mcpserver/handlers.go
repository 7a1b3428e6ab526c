package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/mark3labs/stepwise/internal/wizard"
)

// stepView is one step as reported by wizard-state.
type stepView struct {
	Index     int         `json:"index"`
	ID        string      `json:"id,omitempty"`
	Title     string      `json:"title"`
	Kind      wizard.Kind `json:"kind"`
	Selected  bool        `json:"selected"`
	Completed bool        `json:"completed"`
	Editing   bool        `json:"editing"`
	Optional  bool        `json:"optional"`
	Navigable bool        `json:"navigable"`
}

type stateView struct {
	Wizard       string     `json:"wizard"`
	Mode         string     `json:"mode"`
	CurrentIndex int        `json:"current_index"`
	Completed    bool       `json:"completed"`
	Steps        []stepView `json:"steps"`
}

// handleState returns the wizard's state as JSON.
func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.state.Snapshot()
	view := stateView{
		Wizard:       s.wizardName,
		Mode:         snap.Mode,
		CurrentIndex: snap.CurrentIndex,
		Completed:    snap.Completed,
		Steps:        make([]stepView, len(snap.Steps)),
	}
	for i, f := range snap.Steps {
		view.Steps[i] = stepView{
			Index:     i,
			ID:        f.ID,
			Title:     f.Title,
			Kind:      f.Kind,
			Selected:  f.Selected,
			Completed: f.Completed,
			Editing:   f.Editing,
			Optional:  f.Optional,
			Navigable: s.state.IsNavigable(i),
		}
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal state: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleCanGoTo evaluates whether a move is possible without performing it.
func (s *Server) handleCanGoTo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}
	index, ok, err := intArg(args, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("missing 'index' parameter"), nil
	}

	allowed, err := s.state.CanGoToStep(ctx, index)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot evaluate step %d: %v", index, err)), nil
	}
	if allowed {
		return mcp.NewToolResultText(fmt.Sprintf("step %d can be reached", index)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("step %d cannot be reached", index)), nil
}

// handleGoTo moves to a step given by id or index.
func (s *Server) handleGoTo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	index, err := s.destination(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.navigate(ctx, func(opts ...wizard.GoOption) error {
		return s.state.GoToStep(ctx, index, opts...)
	}), nil
}

// handleNext moves to the next step.
func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.state.HasNextStep() {
		return mcp.NewToolResultText("already at the last step"), nil
	}
	return s.navigate(ctx, func(opts ...wizard.GoOption) error {
		return s.state.GoToNextStep(ctx, opts...)
	}), nil
}

// handlePrevious moves to the previous step.
func (s *Server) handlePrevious(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.state.HasPreviousStep() {
		return mcp.NewToolResultText("already at the first step"), nil
	}
	return s.navigate(ctx, func(opts ...wizard.GoOption) error {
		return s.state.GoToPreviousStep(ctx, opts...)
	}), nil
}

// handleReset resets the wizard to its default step.
func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.state.Reset(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
	}

	snap := s.state.Snapshot()
	if s.recorder != nil {
		if err := s.recorder.RecordReset(ctx, s.wizardName, s.runID, snap); err != nil {
			logger.Warn("Failed to record reset of %s: %v", s.wizardName, err)
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("reset to step %d (%s)", snap.CurrentIndex, s.title(snap.CurrentIndex))), nil
}

// navigate runs one navigation, records its outcome and describes it.
func (s *Server) navigate(ctx context.Context, move func(opts ...wizard.GoOption) error) *mcp.CallToolResult {
	var (
		t       wizard.Transition
		settled bool
	)
	err := move(wizard.PostFinalize(func(tr wizard.Transition) {
		t = tr
		settled = true
	}))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("navigation failed: %v", err))
	}
	if !settled {
		return mcp.NewToolResultText("nothing to do")
	}

	if s.recorder != nil {
		if err := s.recorder.RecordTransition(ctx, s.wizardName, s.runID, t, s.state.Snapshot()); err != nil {
			logger.Warn("Failed to record transition of %s: %v", s.wizardName, err)
		}
	}

	switch {
	case t.Refused:
		return mcp.NewToolResultText(fmt.Sprintf("refused: cannot move %s from step %d (%s) to step %d",
			t.Direction, t.From, s.title(t.From), t.To))
	case t.Direction == wizard.Stay:
		return mcp.NewToolResultText(fmt.Sprintf("stayed on step %d (%s)", t.From, s.title(t.From)))
	default:
		return mcp.NewToolResultText(fmt.Sprintf("moved %s from step %d (%s) to step %d (%s)",
			t.Direction, t.From, s.title(t.From), t.To, s.title(t.To)))
	}
}

// destination resolves the id or index argument of wizard-go-to.
func (s *Server) destination(args map[string]any) (int, error) {
	if id, ok := args["id"].(string); ok && id != "" {
		return s.state.IndexOfStepWithID(id)
	}
	index, ok, err := intArg(args, "index")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("either 'id' or 'index' is required")
	}
	return index, nil
}

func (s *Server) title(index int) string {
	step, err := s.state.StepAtIndex(index)
	if err != nil {
		return "?"
	}
	return step.Title()
}

// intArg extracts an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]any, name string) (int, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, true, fmt.Errorf("'%s' must be an integer", name)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	default:
		return 0, true, fmt.Errorf("'%s' must be a number", name)
	}
}
