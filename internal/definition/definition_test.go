package definition

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/stepwise/internal/hooks"
	"github.com/mark3labs/stepwise/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const onboarding = `name: Team Onboarding
navigation:
  mode: configurable
  navigate_forward: visited
steps:
  - title: Create account
    symbol: "1"
    body: |
      # Welcome
    can_exit: forwards-only
  - id: profile
    title: Profile
    optional: true
    can_enter: true
  - title: Review
    can_exit:
      command: "test -f approved"
      timeout: 2
  - title: Done
    completion: true
`

func TestParse(t *testing.T) {
	def, err := Parse([]byte(onboarding))
	require.NoError(t, err)

	assert.Equal(t, "Team Onboarding", def.Name)
	assert.Equal(t, "visited", def.Navigation.NavigateForward)
	require.Len(t, def.Steps, 4)

	assert.Equal(t, "create-account", def.Steps[0].ID, "ids are derived from titles")
	assert.Equal(t, "profile", def.Steps[1].ID)
	assert.Equal(t, "# Welcome\n", def.Steps[0].Body)

	require.NotNil(t, def.Steps[0].CanExit)
	assert.Equal(t, GuardForwardsOnly, def.Steps[0].CanExit.Builtin)

	require.NotNil(t, def.Steps[1].CanEnter.Bool)
	assert.True(t, *def.Steps[1].CanEnter.Bool)

	require.NotNil(t, def.Steps[2].CanExit.Command)
	assert.Equal(t, "test -f approved", def.Steps[2].CanExit.Command.Command)
	assert.Equal(t, 2, def.Steps[2].CanExit.Command.Timeout)

	assert.True(t, def.Steps[3].Completion)
	assert.Nil(t, def.Steps[3].CanExit)
	require.NoError(t, def.Validate())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("name: x\nstepz: []\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Parse([]byte("steps: [\n"))
	assert.Error(t, err)
}

func TestParse_UntitledStepID(t *testing.T) {
	def, err := Parse([]byte("steps:\n  - title: \"!!!\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "step-1", def.Steps[0].ID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "no steps", yaml: "name: empty\nsteps: []\n", wantErr: "no steps"},
		{
			name:    "duplicate ids",
			yaml:    "steps:\n  - title: A\n    id: same\n  - title: B\n    id: same\n",
			wantErr: `duplicate id "same"`,
		},
		{
			name:    "two defaults",
			yaml:    "steps:\n  - title: A\n    default: true\n  - title: B\n    default: true\n",
			wantErr: "2 steps are marked default",
		},
		{
			name:    "unknown mode",
			yaml:    "navigation:\n  mode: lenient\nsteps:\n  - title: A\n",
			wantErr: "unknown navigation mode",
		},
		{
			name:    "bad axis",
			yaml:    "navigation:\n  navigate_backward: sometimes\nsteps:\n  - title: A\n",
			wantErr: "navigate_backward",
		},
		{
			name:    "default step out of range",
			yaml:    "default_step: 3\nsteps:\n  - title: A\n",
			wantErr: "default step index 3",
		},
		{
			name:    "missing title",
			yaml:    "steps:\n  - id: a\n",
			wantErr: "title is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			err = def.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onboarding.yml")
	require.NoError(t, os.WriteFile(path, []byte(onboarding), 0644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, def.Steps, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestInheritNavigation(t *testing.T) {
	def := &Definition{Navigation: Navigation{NavigateForward: "allow"}}
	def.InheritNavigation(Navigation{Mode: "strict", NavigateBackward: "deny", NavigateForward: "deny"})

	assert.Equal(t, Navigation{Mode: "strict", NavigateBackward: "deny", NavigateForward: "allow"}, def.Navigation)
}

func TestBuild(t *testing.T) {
	def, err := Parse([]byte(onboarding))
	require.NoError(t, err)

	workDir := t.TempDir()
	st, err := Build(context.Background(), def, hooks.NewRunner(workDir, 5))
	require.NoError(t, err)

	assert.Equal(t, "configurable", st.NavigationMode().Name())
	assert.Equal(t, 4, st.Len())
	require.NoError(t, st.Reset())

	steps := st.Steps()
	assert.Equal(t, "1", steps[0].Symbol())
	assert.True(t, steps[1].IsOptional())
	assert.True(t, steps[3].IsCompletionStep())

	ctx := context.Background()
	require.NoError(t, st.GoToStep(ctx, 2))
	assert.Equal(t, 2, st.CurrentStepIndex(), "optional profile step can be skipped")

	require.NoError(t, st.GoToNextStep(ctx))
	assert.Equal(t, 2, st.CurrentStepIndex(), "review cannot be left until approved")

	require.NoError(t, os.WriteFile(filepath.Join(workDir, "approved"), nil, 0644))
	require.NoError(t, st.GoToNextStep(ctx))
	assert.Equal(t, 3, st.CurrentStepIndex())
	assert.True(t, st.Completed())
}

func TestBuild_BuiltinGuards(t *testing.T) {
	def, err := Parse([]byte(`navigation:
  mode: free
steps:
  - title: A
    optional: true
    can_exit: forwards-only
  - title: B
    optional: true
    can_enter: backwards-only
  - title: C
    can_enter: never
`))
	require.NoError(t, err)

	st, err := Build(context.Background(), def, nil)
	require.NoError(t, err)
	require.NoError(t, st.Reset())

	ok, err := st.CanGoToStep(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok, "B can only be entered backwards")

	require.NoError(t, st.SetCurrentStepIndex(2))
	ok, err = st.CanGoToStep(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.CanGoToStep(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok, "never refuses even staying")
}

func TestBuild_MalformedGuard(t *testing.T) {
	def, err := Parse([]byte(`steps:
  - title: A
    can_exit: not-a-fn-or-bool
  - title: B
`))
	require.NoError(t, err)
	require.NoError(t, def.Validate(), "malformed guards only fail when evaluated")

	st, err := Build(context.Background(), def, nil)
	require.NoError(t, err)
	require.NoError(t, st.Reset())

	err = st.GoToNextStep(context.Background())
	var malformed *wizard.MalformedGuardError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "not-a-fn-or-bool", malformed.Value)
	assert.Equal(t, 0, st.CurrentStepIndex())
}

func TestBuild_LifecycleCommands(t *testing.T) {
	workDir := t.TempDir()
	def, err := Parse([]byte(`name: Setup
navigation:
  mode: free
steps:
  - title: Start
    on_exit:
      command: "echo {{wizard}} {{step}} {{index}} {{direction}} >> events.log"
  - title: Finish
    on_enter:
      command: "echo {{step}} {{index}} {{direction}} >> events.log"
`))
	require.NoError(t, err)

	st, err := Build(context.Background(), def, hooks.NewRunner(workDir, 5))
	require.NoError(t, err)
	require.NoError(t, st.Reset())
	require.NoError(t, st.GoToNextStep(context.Background()))

	data, err := os.ReadFile(filepath.Join(workDir, "events.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{
		"Setup start 0 forwards",
		"finish 1 forwards",
	}, lines)
}

func TestBuild_LifecycleCommandsFollowContext(t *testing.T) {
	workDir := t.TempDir()
	def, err := Parse([]byte(`name: Slow
navigation:
  mode: free
steps:
  - title: Start
    on_exit:
      command: "sleep 10 && echo late >> events.log"
  - title: Finish
`))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	st, err := Build(ctx, def, hooks.NewRunner(workDir, 30))
	require.NoError(t, err)
	require.NoError(t, st.Reset())

	cancel()
	start := time.Now()
	require.NoError(t, st.GoToNextStep(context.Background()))

	assert.Less(t, time.Since(start), 5*time.Second, "a cancelled command must not hold the navigation")
	assert.Equal(t, 1, st.CurrentStepIndex())
	assert.NoFileExists(t, filepath.Join(workDir, "events.log"))
}

func TestBuild_DefaultAndNavigationBar(t *testing.T) {
	def, err := Parse([]byte(`disable_navigation_bar: true
default_step: 1
steps:
  - title: A
    optional: true
  - title: B
  - title: C
    completed: true
`))
	require.NoError(t, err)

	st, err := Build(context.Background(), def, nil)
	require.NoError(t, err)
	assert.True(t, st.NavigationBarDisabled())
	require.NoError(t, st.Reset())
	assert.Equal(t, 1, st.CurrentStepIndex())
	assert.True(t, st.Steps()[2].Completed())
}

func TestBuild_InvalidDefinition(t *testing.T) {
	_, err := Build(context.Background(), &Definition{}, nil)
	assert.Error(t, err)
}

func TestMarshal(t *testing.T) {
	def, err := Parse([]byte(onboarding))
	require.NoError(t, err)

	data, err := Marshal(def)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "id: create-account")
	assert.Contains(t, out, "can_exit: forwards-only")
	assert.Contains(t, out, "command: test -f approved")
	assert.Contains(t, out, "can_enter: true")

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, def.Steps[2].CanExit.Command, again.Steps[2].CanExit.Command)
}
