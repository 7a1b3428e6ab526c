package definition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gosimple/slug"
	"github.com/mark3labs/stepwise/internal/hooks"
	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/mark3labs/stepwise/internal/wizard"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Loaded wizard definition %q from %s (%d steps)", def.Name, path, len(def.Steps))
	return def, nil
}

// Parse decodes a definition and derives missing step IDs from titles.
// Unknown keys are rejected.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("parsing definition: %w", err)
	}
	def.normalize()
	return &def, nil
}

// Marshal renders the definition as YAML.
func Marshal(def *Definition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return nil, fmt.Errorf("marshaling definition: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling definition: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Definition) normalize() {
	for i := range d.Steps {
		if d.Steps[i].ID == "" {
			d.Steps[i].ID = slug.Make(d.Steps[i].Title)
		}
		if d.Steps[i].ID == "" {
			d.Steps[i].ID = "step-" + strconv.Itoa(i+1)
		}
	}
}

// InheritNavigation fills empty navigation fields from n, typically the
// values from config.
func (d *Definition) InheritNavigation(n Navigation) {
	if d.Navigation.Mode == "" {
		d.Navigation.Mode = n.Mode
	}
	if d.Navigation.NavigateBackward == "" {
		d.Navigation.NavigateBackward = n.NavigateBackward
	}
	if d.Navigation.NavigateForward == "" {
		d.Navigation.NavigateForward = n.NavigateForward
	}
}

// NavigationMode builds the navigation mode the definition selects.
func (d *Definition) NavigationMode() (wizard.NavigationMode, error) {
	return wizard.ParseNavigationMode(d.Navigation.Mode, wizard.ModeOptions{
		NavigateBackward: d.Navigation.NavigateBackward,
		NavigateForward:  d.Navigation.NavigateForward,
	})
}

// Validate reports every structural problem in the definition. Malformed
// guards are not reported here; they surface when evaluated.
func (d *Definition) Validate() error {
	var errs []error

	if len(d.Steps) == 0 {
		errs = append(errs, errors.New("definition has no steps"))
	}

	seen := make(map[string]int, len(d.Steps))
	defaults := 0
	for i, s := range d.Steps {
		if s.Title == "" {
			errs = append(errs, fmt.Errorf("step %d: title is required", i))
		}
		if prev, ok := seen[s.ID]; ok {
			errs = append(errs, fmt.Errorf("step %d: duplicate id %q (also used by step %d)", i, s.ID, prev))
		} else {
			seen[s.ID] = i
		}
		if s.Default {
			defaults++
		}
	}
	if defaults > 1 {
		errs = append(errs, fmt.Errorf("%d steps are marked default, at most one is allowed", defaults))
	}
	if defaults == 0 && len(d.Steps) > 0 && (d.DefaultStep < 0 || d.DefaultStep >= len(d.Steps)) {
		errs = append(errs, &wizard.InvalidDefaultStepError{Index: d.DefaultStep, Count: len(d.Steps)})
	}

	if _, err := d.NavigationMode(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Build validates the definition and returns a wizard State over its steps.
// Command guards and on_enter/on_exit commands run through runner; a nil
// runner uses the working directory and the default timeout. Lifecycle
// commands run under ctx, so cancelling it stops a running on_enter or
// on_exit command. The returned State has not been reset.
func Build(ctx context.Context, def *Definition, runner *hooks.Runner) (*wizard.State, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	mode, err := def.NavigationMode()
	if err != nil {
		return nil, err
	}
	if runner == nil {
		runner = hooks.NewRunner(".", hooks.DefaultTimeout)
	}

	// Hook variables need the step index, which is only known once the State exists.
	var st *wizard.State
	vars := func(step *wizard.Step, d wizard.MovingDirection) hooks.Variables {
		index := -1
		if st != nil {
			index = st.IndexOf(step)
		}
		return hooks.Variables{
			Wizard:    def.Name,
			Step:      step.ID(),
			Index:     index,
			Direction: d.String(),
		}
	}

	steps := make([]*wizard.Step, len(def.Steps))
	for i, sd := range def.Steps {
		steps[i] = buildStep(ctx, sd, runner, vars)
	}

	opts := []wizard.StateOption{
		wizard.WithNavigationMode(mode),
		wizard.WithDefaultStepIndex(def.DefaultStep),
	}
	if def.DisableNavigationBar {
		opts = append(opts, wizard.WithNavigationBarDisabled())
	}
	st = wizard.NewState(steps, opts...)
	return st, nil
}

func buildStep(ctx context.Context, sd StepDef, runner *hooks.Runner, vars func(*wizard.Step, wizard.MovingDirection) hooks.Variables) *wizard.Step {
	var step *wizard.Step
	check := func(ctx context.Context, hook *hooks.HookConfig, d wizard.MovingDirection) (bool, error) {
		return runner.Check(ctx, hook, vars(step, d))
	}

	opts := []wizard.StepOption{
		wizard.WithID(sd.ID),
		wizard.WithSymbol(sd.Symbol),
		wizard.WithBody(sd.Body),
	}
	if sd.Optional {
		opts = append(opts, wizard.Optional())
	}
	if sd.Completed {
		opts = append(opts, wizard.InitiallyCompleted())
	}
	if sd.Default {
		opts = append(opts, wizard.DefaultSelected())
	}
	if sd.CanEnter != nil {
		opts = append(opts, wizard.CanEnter(sd.CanEnter.value(check)))
	}
	if sd.CanExit != nil {
		opts = append(opts, wizard.CanExit(sd.CanExit.value(check)))
	}
	if sd.OnEnter != nil {
		opts = append(opts, wizard.OnEnter(commandCallback(ctx, runner, sd.OnEnter, vars)))
	}
	if sd.OnExit != nil {
		opts = append(opts, wizard.OnExit(commandCallback(ctx, runner, sd.OnExit, vars)))
	}

	if sd.Completion {
		step = wizard.NewCompletionStep(sd.Title, opts...)
	} else {
		step = wizard.NewStep(sd.Title, opts...)
	}
	return step
}

// commandCallback runs hook as a lifecycle callback. Output is only logged.
func commandCallback(ctx context.Context, runner *hooks.Runner, hook *hooks.HookConfig, vars func(*wizard.Step, wizard.MovingDirection) hooks.Variables) wizard.StepFunc {
	return func(step *wizard.Step, d wizard.MovingDirection) {
		output, err := runner.Execute(ctx, hook, vars(step, d))
		if err != nil {
			logger.Warn("Step %s hook failed: %v", step.ID(), err)
			return
		}
		logger.Debug("Step %s hook output: %s", step.ID(), output)
	}
}
