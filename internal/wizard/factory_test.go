package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNavigationMode(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"free", "free"},
		{"Strict", "strict"},
		{"semi-strict", "semi-strict"},
		{"semistrict", "semi-strict"},
		{"semi_strict", "semi-strict"},
		{"configurable", "configurable"},
		{"", "configurable"},
		{"  free ", "free"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := ParseNavigationMode(tt.name, ModeOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode.Name())
		})
	}
}

func TestParseNavigationMode_ConfigurableAxes(t *testing.T) {
	mode, err := ParseNavigationMode("configurable", ModeOptions{
		NavigateBackward: "deny",
		NavigateForward:  "visited",
	})
	require.NoError(t, err)

	nav, ok := mode.(*Navigator)
	require.True(t, ok)
	assert.Equal(t, ConfigurableNavigationMode{
		NavigateBackward: BackwardDeny,
		NavigateForward:  ForwardVisited,
	}, nav.Policy())

	_, err = ParseNavigationMode("configurable", ModeOptions{NavigateForward: "always"})
	assert.Error(t, err)
}

func TestParseNavigationMode_Unknown(t *testing.T) {
	_, err := ParseNavigationMode("wizardly", ModeOptions{})
	require.ErrorIs(t, err, ErrUnknownNavigationMode)

	var unknown *UnknownNavigationModeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "wizardly", unknown.Value)
}

func TestResolveNavigationMode(t *testing.T) {
	strict := NewNavigationMode(StrictNavigationMode{})

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "configurable"},
		{"name", "free", "free"},
		{"mode", strict, "strict"},
		{"policy", SemiStrictNavigationMode{}, "semi-strict"},
		{"mode constructor", func() NavigationMode { return strict }, "strict"},
		{"policy constructor", func() Policy { return FreeNavigationMode{} }, "free"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := ResolveNavigationMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode.Name())
		})
	}
}

func TestResolveNavigationMode_Rejects(t *testing.T) {
	var nilCtor func() NavigationMode

	for _, input := range []any{
		42,
		"sideways",
		nilCtor,
		func() Policy { return nil },
		struct{}{},
	} {
		_, err := ResolveNavigationMode(input)
		assert.ErrorIs(t, err, ErrUnknownNavigationMode, "input %#v", input)
	}
}
