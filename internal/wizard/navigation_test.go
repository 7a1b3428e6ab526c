package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allPolicies() []Policy {
	return []Policy{
		FreeNavigationMode{},
		StrictNavigationMode{},
		SemiStrictNavigationMode{},
		ConfigurableNavigationMode{},
		ConfigurableNavigationMode{NavigateBackward: BackwardDeny, NavigateForward: ForwardAllow},
		ConfigurableNavigationMode{NavigateForward: ForwardVisited},
	}
}

func TestNavigation_SingleSelectionInvariant(t *testing.T) {
	sequence := []int{1, 2, 3, 0, 3, 2, 7, -1, 1, 1, 3, 0}

	for _, policy := range allPolicies() {
		t.Run(policy.Name(), func(t *testing.T) {
			steps := standardSteps(3)
			steps = append(steps, NewCompletionStep("Done", CanExit(true)))
			st := newTestState(t, policy, steps...)
			assertInvariants(t, st)

			for _, dest := range sequence {
				goTo(t, st, dest)
				assertInvariants(t, st)
			}

			require.NoError(t, st.Reset())
			assertInvariants(t, st)
		})
	}
}

func TestNavigation_StayIsIdempotent(t *testing.T) {
	for _, policy := range allPolicies() {
		t.Run(policy.Name(), func(t *testing.T) {
			var rec lifecycleRecorder
			steps := standardSteps(3, rec.options()...)
			st := newTestState(t, policy, steps...)
			goTo(t, st, 1)
			rec.reset()

			before := st.Snapshot()
			goTo(t, st, 1)

			assert.Equal(t, before, st.Snapshot())
			assert.Equal(t, []string{"exit:B:stay", "enter:B:stay"}, rec.events)
		})
	}
}

func TestNavigation_LifecycleOrder(t *testing.T) {
	var rec lifecycleRecorder
	st := newTestState(t, FreeNavigationMode{}, standardSteps(3, rec.options()...)...)
	assert.Equal(t, []string{"enter:A:forwards"}, rec.events, "reset enters the default step forwards")

	rec.reset()
	require.NoError(t, st.GoToNextStep(context.Background()))
	assert.Equal(t, []string{"exit:A:forwards", "enter:B:forwards"}, rec.events)

	rec.reset()
	require.NoError(t, st.GoToPreviousStep(context.Background()))
	assert.Equal(t, []string{"exit:B:backwards", "enter:A:backwards"}, rec.events)
}

func TestNavigation_RefusedTransitionSettles(t *testing.T) {
	var rec lifecycleRecorder
	steps := standardSteps(3, rec.options()...)
	st := newTestState(t, StrictNavigationMode{}, steps...)
	rec.reset()

	var transitions []Transition
	hook := func(tr Transition) { transitions = append(transitions, tr) }

	err := st.GoToStep(context.Background(), 2, PreFinalize(hook), PostFinalize(hook))
	require.NoError(t, err)

	assert.Equal(t, 0, st.CurrentStepIndex())
	assert.Equal(t, []string{"exit:A:stay", "enter:A:stay"}, rec.events)
	want := Transition{From: 0, To: 2, Direction: Forwards, Refused: true}
	assert.Equal(t, []Transition{want, want}, transitions)
	assert.False(t, steps[0].Completed(), "a refused transition completes nothing")
}

func TestNavigation_OutOfRangeIsRefused(t *testing.T) {
	st := newTestState(t, FreeNavigationMode{}, standardSteps(2)...)

	ok, err := st.CanGoToStep(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, ok)

	var refused bool
	goTo(t, st, 5)
	require.NoError(t, st.GoToStep(context.Background(), -1, PostFinalize(func(tr Transition) { refused = tr.Refused })))
	assert.True(t, refused)
	assert.Equal(t, 0, st.CurrentStepIndex())
	assert.False(t, st.IsNavigable(5))
}

func TestNavigation_FinalizeHooksBracketMutation(t *testing.T) {
	steps := standardSteps(3)
	st := newTestState(t, FreeNavigationMode{}, steps...)

	var preIndex, postIndex int
	var preCompleted, postCompleted bool
	err := st.GoToStep(context.Background(), 1,
		PreFinalize(func(tr Transition) {
			assert.Equal(t, Transition{From: 0, To: 1, Direction: Forwards}, tr)
			preIndex = st.CurrentStepIndex()
			preCompleted = steps[0].Completed()
		}),
		PostFinalize(func(Transition) {
			postIndex = st.CurrentStepIndex()
			postCompleted = steps[0].Completed()
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, 0, preIndex)
	assert.False(t, preCompleted)
	assert.Equal(t, 1, postIndex)
	assert.True(t, postCompleted)
}

func TestNavigation_MalformedGuard(t *testing.T) {
	steps := []*Step{
		NewStep("A", CanExit("not-a-fn-or-bool")),
		NewStep("B"),
	}
	st := newTestState(t, FreeNavigationMode{}, steps...)

	hookCalled := false
	err := st.GoToNextStep(context.Background(), PreFinalize(func(Transition) { hookCalled = true }))

	var malformed *MalformedGuardError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "not-a-fn-or-bool", malformed.Value)
	assert.Equal(t, 0, st.CurrentStepIndex())
	assert.False(t, steps[0].Completed())
	assert.False(t, hookCalled, "guard errors skip finalize hooks")

	_, err = st.CanGoToStep(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMalformedGuard)
}

func TestNavigation_GuardErrorLeavesStateUntouched(t *testing.T) {
	errBackend := errors.New("validation backend unavailable")
	steps := []*Step{
		NewStep("A"),
		NewStep("B", CanEnter(func(MovingDirection) (bool, error) { return false, errBackend })),
	}
	st := newTestState(t, StrictNavigationMode{}, steps...)
	before := st.Snapshot()

	err := st.GoToStep(context.Background(), 1)
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, before, st.Snapshot())
	assert.False(t, st.Navigating())
}

func TestNavigation_GuardsReceiveDirection(t *testing.T) {
	var exitDirs, enterDirs []MovingDirection
	steps := []*Step{
		NewStep("A", CanEnter(func(d MovingDirection) bool { enterDirs = append(enterDirs, d); return true })),
		NewStep("B", CanExit(func(d MovingDirection) bool { exitDirs = append(exitDirs, d); return d != Forwards })),
		NewStep("C"),
	}
	st := newTestState(t, FreeNavigationMode{}, steps...)
	goTo(t, st, 1)

	goTo(t, st, 2)
	assert.Equal(t, 1, st.CurrentStepIndex(), "exit guard refuses forwards")

	goTo(t, st, 0)
	assert.Equal(t, 0, st.CurrentStepIndex())
	assert.Equal(t, []MovingDirection{Forwards, Backwards}, exitDirs)
	assert.Equal(t, []MovingDirection{Backwards}, enterDirs)
}

func TestNavigation_PreviousAndNextAtBoundaries(t *testing.T) {
	var rec lifecycleRecorder
	st := newTestState(t, FreeNavigationMode{}, standardSteps(2, rec.options()...)...)
	rec.reset()

	require.NoError(t, st.GoToPreviousStep(context.Background()))
	assert.Equal(t, 0, st.CurrentStepIndex())
	assert.Empty(t, rec.events, "no previous step means no transition at all")

	require.NoError(t, st.GoToNextStep(context.Background()))
	rec.reset()
	require.NoError(t, st.GoToNextStep(context.Background()))
	assert.Equal(t, 1, st.CurrentStepIndex())
	assert.Empty(t, rec.events)
}

func TestNavigation_NoCurrentStep(t *testing.T) {
	st := NewState(standardSteps(2), WithNavigationMode(NewNavigationMode(FreeNavigationMode{})))

	err := st.GoToStep(context.Background(), 1)
	require.ErrorIs(t, err, ErrUnknownStep)
	assert.Nil(t, st.CurrentStep())
}

// blockingGuard returns a guard that signals started and waits for release.
func blockingGuard(started chan<- struct{}, release <-chan struct{}) GuardFunc {
	return func(ctx context.Context, _ MovingDirection) (bool, error) {
		close(started)
		select {
		case <-release:
			return true, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

func TestNavigation_OverlappingCallsRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	steps := []*Step{
		NewStep("A"),
		NewStep("B", CanEnter(blockingGuard(started, release))),
		NewStep("C"),
	}
	st := newTestState(t, FreeNavigationMode{}, steps...)

	done := make(chan error, 1)
	go func() { done <- st.GoToStep(context.Background(), 1) }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("guard was never evaluated")
	}

	assert.True(t, st.Navigating())
	assert.ErrorIs(t, st.GoToStep(context.Background(), 0), ErrNavigationInProgress)
	assert.ErrorIs(t, st.GoToNextStep(context.Background()), ErrNavigationInProgress)
	assert.ErrorIs(t, st.Reset(), ErrNavigationInProgress)
	assert.Equal(t, 0, st.CurrentStepIndex(), "nothing moves while guards are pending")

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("navigation did not finish")
	}

	assert.Equal(t, 1, st.CurrentStepIndex())
	assert.False(t, st.Navigating())
	assertInvariants(t, st)
}

func TestNavigation_ContextCancelledDuringGuard(t *testing.T) {
	started := make(chan struct{})
	steps := []*Step{
		NewStep("A"),
		NewStep("B", CanEnter(blockingGuard(started, nil))),
	}
	st := newTestState(t, FreeNavigationMode{}, steps...)
	before := st.Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- st.GoToStep(ctx, 1) }()

	<-started
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("navigation ignored cancellation")
	}
	assert.Equal(t, before, st.Snapshot())
	assert.False(t, st.Navigating())
}

func TestNavigation_StepsReplacedWhileGuardPending(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	steps := []*Step{
		NewStep("A"),
		NewStep("B", CanEnter(blockingGuard(started, release))),
		NewStep("C"),
	}
	st := newTestState(t, FreeNavigationMode{}, steps...)

	done := make(chan error, 1)
	go func() { done <- st.GoToStep(context.Background(), 1) }()
	<-started

	st.UpdateSteps([]*Step{steps[0], steps[2]})
	close(release)

	err := <-done
	require.ErrorIs(t, err, ErrUnknownStep)
	assert.Same(t, steps[0], st.CurrentStep())
	assert.False(t, steps[1].Selected())
}

func TestNavigation_StepsInsertedWhileGuardPending(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	steps := []*Step{
		NewStep("A", CanEnter(func(ctx context.Context, d MovingDirection) (bool, error) {
			if d != Backwards {
				return true, nil
			}
			return blockingGuard(started, release)(ctx, d)
		})),
		NewStep("B"),
		NewStep("C"),
	}
	st := newTestState(t, StrictNavigationMode{}, steps...)
	goTo(t, st, 1)
	goTo(t, st, 2)

	var seen Transition
	done := make(chan error, 1)
	go func() {
		done <- st.GoToStep(context.Background(), 0, PostFinalize(func(tr Transition) { seen = tr }))
	}()
	<-started

	st.UpdateSteps(append([]*Step{NewStep("X"), NewStep("Y"), NewStep("Z")}, steps...))
	close(release)
	require.NoError(t, <-done)

	assert.Same(t, steps[0], st.CurrentStep())
	assert.Equal(t, 3, st.CurrentStepIndex())
	assert.Equal(t, []bool{false, false, false, true, false, false}, completedFlags(st),
		"moving back from C to A clears B and C")
	assert.Equal(t, Transition{From: 5, To: 3, Direction: Backwards}, seen)
}

func TestCompletionStep_Lifecycle(t *testing.T) {
	steps := []*Step{
		NewStep("A"),
		NewCompletionStep("Done", CanExit(true)),
	}
	st := newTestState(t, FreeNavigationMode{}, steps...)
	assert.False(t, st.Completed())

	goTo(t, st, 1)
	assert.True(t, steps[1].Completed(), "entering a completion step completes it")
	assert.True(t, st.Completed())

	goTo(t, st, 0)
	assert.False(t, steps[1].Completed(), "leaving restores the initial completion")
	assert.True(t, steps[0].Completed())
}

func TestCompletionStep_CannotBeLeftByDefault(t *testing.T) {
	steps := []*Step{NewStep("A"), NewCompletionStep("Done")}
	st := newTestState(t, FreeNavigationMode{}, steps...)
	goTo(t, st, 1)

	ok, err := st.CanGoToStep(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	goTo(t, st, 0)
	assert.Equal(t, 1, st.CurrentStepIndex())
	assert.True(t, steps[1].Completed(), "settling on a completion step keeps it completed")
}

func TestReset_RestoresInitialFlags(t *testing.T) {
	var rec lifecycleRecorder
	steps := []*Step{
		NewStep("A", append(rec.options(), InitiallyCompleted())...),
		NewStep("B", rec.options()...),
		NewStep("C", rec.options()...),
	}
	st := newTestState(t, FreeNavigationMode{}, steps...)
	goTo(t, st, 1)
	goTo(t, st, 2)
	require.True(t, steps[1].Completed())

	rec.reset()
	require.NoError(t, st.Reset())

	assert.Equal(t, []bool{true, false, false}, completedFlags(st))
	assert.Equal(t, 0, st.CurrentStepIndex())
	assert.Equal(t, []string{"enter:A:forwards"}, rec.events)
	assert.True(t, steps[0].Editing(), "an initially completed default step is being edited")
	assertInvariants(t, st)
}

func TestReset_SwitchingNavigationMode(t *testing.T) {
	st := newTestState(t, FreeNavigationMode{}, standardSteps(3)...)
	goTo(t, st, 1)

	mode, err := ParseNavigationMode("strict", ModeOptions{})
	require.NoError(t, err)
	st.SetNavigationMode(mode)
	require.NoError(t, st.Reset())

	assert.Equal(t, "strict", st.Snapshot().Mode)
	assert.Equal(t, 0, st.CurrentStepIndex())
	assert.False(t, st.IsNavigable(1))
}
