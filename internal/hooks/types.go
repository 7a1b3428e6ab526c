package hooks

// Config is the top-level configuration for hooks loaded from .stepwise.hooks.yml.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig contains the wizard-wide hooks. Per-step guards and callbacks
// live in the wizard definition.
type HooksConfig struct {
	OnTransition *HookConfig `yaml:"on_transition"`
	OnComplete   *HookConfig `yaml:"on_complete"`
	OnReset      *HookConfig `yaml:"on_reset"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout"` // seconds, default from the runner
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
