package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/mark3labs/stepwise/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".stepwise.hooks.yml"

// LoadConfig loads the hooks configuration from the working directory.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d)", configPath, cfg.Version)
	return &cfg, nil
}

// Variables holds template variables that can be expanded in hook commands.
type Variables struct {
	Wizard    string
	Step      string
	Index     int
	Direction string
}

// Runner executes hooks in a working directory with a default timeout.
type Runner struct {
	WorkDir string
	Timeout int // seconds
}

// NewRunner creates a runner. A non-positive timeout selects DefaultTimeout.
func NewRunner(workDir string, timeout int) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{WorkDir: workDir, Timeout: timeout}
}

// Execute runs hook with the runner's defaults.
func (r *Runner) Execute(ctx context.Context, hook *HookConfig, vars Variables) (string, error) {
	return Execute(ctx, r.withTimeout(hook), r.WorkDir, vars)
}

// Check runs a guard command with the runner's defaults.
func (r *Runner) Check(ctx context.Context, hook *HookConfig, vars Variables) (bool, error) {
	return Check(ctx, r.withTimeout(hook), r.WorkDir, vars)
}

func (r *Runner) withTimeout(hook *HookConfig) *HookConfig {
	if hook == nil || hook.Timeout > 0 || r.Timeout <= 0 {
		return hook
	}
	h := *hook
	h.Timeout = r.Timeout
	return &h
}

// Execute runs a hook command and returns its output.
// Template variables in the command ({{wizard}}, {{step}}, {{index}}, {{direction}})
// are expanded as shell-quoted words before execution.
// On error, returns an error message as output and nil error (graceful degradation).
// Only returns error for context cancellation.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	res := run(ctx, hook, workDir, vars)

	// Check for context cancellation (propagate this)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if res.timedOut {
		logger.Warn("Hook command timed out after %ds: %s", res.timeout, res.command)
		return fmt.Sprintf("[Hook timed out after %ds]\nPartial output:\n%s", res.timeout, res.stdout), nil
	}

	// Handle command failure (graceful degradation - include error in output)
	if res.err != nil {
		logger.Warn("Hook command failed: %v", res.err)
		output := res.stdout
		if res.stderr != "" {
			output += "\n[stderr]\n" + res.stderr
		}
		return fmt.Sprintf("[Hook command failed: %v]\n%s", res.err, output), nil
	}

	output := res.stdout
	if res.stderr != "" {
		logger.Debug("Hook stderr: %s", res.stderr)
		output += "\n[stderr]\n" + res.stderr
	}

	logger.Debug("Hook executed successfully, output length: %d bytes", len(output))
	return output, nil
}

// Check runs a guard command. A zero exit status allows the transition; a
// non-zero status or a timeout refuses it. Only context cancellation is an error.
// A nil hook or empty command allows.
func Check(ctx context.Context, hook *HookConfig, workDir string, vars Variables) (bool, error) {
	if hook == nil || hook.Command == "" {
		return true, nil
	}

	res := run(ctx, hook, workDir, vars)

	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if res.timedOut {
		logger.Warn("Guard command timed out after %ds: %s", res.timeout, res.command)
		return false, nil
	}

	if res.err != nil {
		var exitErr *exec.ExitError
		if errors.As(res.err, &exitErr) {
			logger.Debug("Guard command refused with exit code %d: %s", exitErr.ExitCode(), res.command)
		} else {
			logger.Warn("Guard command could not run: %v", res.err)
		}
		return false, nil
	}

	logger.Debug("Guard command allowed: %s", res.command)
	return true, nil
}

type result struct {
	command  string
	timeout  int
	stdout   string
	stderr   string
	err      error
	timedOut bool
}

func run(ctx context.Context, hook *HookConfig, workDir string, vars Variables) result {
	// Expand template variables in command
	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	// Execute command via shell
	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return result{
		command:  command,
		timeout:  timeout,
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		err:      err,
		timedOut: errors.Is(execCtx.Err(), context.DeadlineExceeded),
	}
}

// expandVariables replaces {{variable}} placeholders in the command string.
// Each value is substituted as a single shell-quoted word, so placeholders
// must not be wrapped in quotes by the command author.
func expandVariables(command string, vars Variables) string {
	replacements := map[string]string{
		"{{wizard}}":    vars.Wizard,
		"{{step}}":      vars.Step,
		"{{index}}":     strconv.Itoa(vars.Index),
		"{{direction}}": vars.Direction,
	}

	result := command
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, shellquote.Join(value))
	}
	return result
}
