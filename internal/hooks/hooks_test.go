package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	ctx := context.Background()
	workDir := t.TempDir()
	vars := Variables{Wizard: "onboarding", Step: "account", Index: 2, Direction: "forwards"}

	tests := []struct {
		name     string
		hook     *HookConfig
		contains string
	}{
		{name: "nil hook", hook: nil, contains: ""},
		{name: "empty command", hook: &HookConfig{}, contains: ""},
		{name: "plain output", hook: &HookConfig{Command: "echo hello", Timeout: 5}, contains: "hello\n"},
		{
			name:     "variables expanded",
			hook:     &HookConfig{Command: "echo {{wizard}}/{{step}}/{{index}}/{{direction}}", Timeout: 5},
			contains: "onboarding/account/2/forwards",
		},
		{
			name:     "failure degrades gracefully",
			hook:     &HookConfig{Command: "echo partial; echo oops >&2; exit 3", Timeout: 5},
			contains: "[Hook command failed",
		},
		{
			name:     "stderr kept on success",
			hook:     &HookConfig{Command: "echo warn >&2", Timeout: 5},
			contains: "[stderr]\nwarn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := Execute(ctx, tt.hook, workDir, vars)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if tt.contains == "" && output != "" {
				t.Errorf("Execute() output = %q, expected empty", output)
			}
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Execute() output = %q, expected to contain %q", output, tt.contains)
			}
		})
	}
}

func TestExecute_QuotesVariables(t *testing.T) {
	vars := Variables{Wizard: "Tom's setup", Step: "a;b $(echo injected)", Direction: "forwards"}
	hook := &HookConfig{Command: "printf '%s|' {{wizard}} {{step}} {{direction}}", Timeout: 5}

	output, err := Execute(context.Background(), hook, t.TempDir(), vars)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := "Tom's setup|a;b $(echo injected)|forwards|"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestExecute_WorkDir(t *testing.T) {
	workDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workDir, "marker.txt"), []byte("here"), 0644); err != nil {
		t.Fatalf("failed to write marker: %v", err)
	}

	output, err := Execute(context.Background(), &HookConfig{Command: "cat marker.txt", Timeout: 5}, workDir, Variables{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if output != "here" {
		t.Errorf("Execute() output = %q, want %q", output, "here")
	}
}

func TestExecute_Timeout(t *testing.T) {
	output, err := Execute(context.Background(), &HookConfig{Command: "sleep 5", Timeout: 1}, t.TempDir(), Variables{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(output, "[Hook timed out after 1s]") {
		t.Errorf("Execute() output = %q, expected timeout marker", output)
	}
}

func TestExecute_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := Execute(ctx, &HookConfig{Command: "echo 'test'", Timeout: 5}, t.TempDir(), Variables{})
	if err == nil {
		t.Error("Execute() expected error for cancelled context, got nil")
	}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	workDir := t.TempDir()

	tests := []struct {
		name string
		hook *HookConfig
		want bool
	}{
		{name: "nil hook allows", hook: nil, want: true},
		{name: "exit zero allows", hook: &HookConfig{Command: "true", Timeout: 5}, want: true},
		{name: "non-zero exit refuses", hook: &HookConfig{Command: "exit 1", Timeout: 5}, want: false},
		{name: "direction test", hook: &HookConfig{Command: `test {{direction}} = backwards`, Timeout: 5}, want: false},
		{name: "timeout refuses", hook: &HookConfig{Command: "sleep 5", Timeout: 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Check(ctx, tt.hook, workDir, Variables{Direction: "forwards"})
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := Check(ctx, &HookConfig{Command: "true", Timeout: 5}, t.TempDir(), Variables{})
	if err == nil {
		t.Fatal("Check() expected error for cancelled context, got nil")
	}
	if ok {
		t.Error("Check() should not allow when cancelled")
	}
}

func TestRunner_DefaultTimeout(t *testing.T) {
	r := NewRunner(t.TempDir(), 0)
	if r.Timeout != DefaultTimeout {
		t.Errorf("NewRunner() timeout = %d, want %d", r.Timeout, DefaultTimeout)
	}

	r = NewRunner(t.TempDir(), 1)
	ok, err := r.Check(context.Background(), &HookConfig{Command: "sleep 5"}, Variables{})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if ok {
		t.Error("runner timeout should apply to hooks without their own timeout")
	}

	output, err := r.Execute(context.Background(), &HookConfig{Command: "echo {{step}}"}, Variables{Step: "done"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if output != "done\n" {
		t.Errorf("Execute() output = %q, want %q", output, "done\n")
	}
}

func TestLoadConfig(t *testing.T) {
	workDir := t.TempDir()

	cfg, err := LoadConfig(workDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg != nil {
		t.Fatalf("LoadConfig() = %+v, want nil when no file exists", cfg)
	}

	content := `version: 1
hooks:
  on_transition:
    command: "echo moved to {{step}}"
  on_complete:
    command: "echo done"
    timeout: 10
`
	if err := os.WriteFile(filepath.Join(workDir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write hooks config: %v", err)
	}

	cfg, err = LoadConfig(workDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Hooks.OnTransition == nil || cfg.Hooks.OnTransition.Command != "echo moved to {{step}}" {
		t.Errorf("OnTransition = %+v", cfg.Hooks.OnTransition)
	}
	if cfg.Hooks.OnComplete == nil || cfg.Hooks.OnComplete.Timeout != 10 {
		t.Errorf("OnComplete = %+v", cfg.Hooks.OnComplete)
	}
	if cfg.Hooks.OnReset != nil {
		t.Errorf("OnReset = %+v, want nil", cfg.Hooks.OnReset)
	}

	if err := os.WriteFile(filepath.Join(workDir, ConfigFileName), []byte("hooks: ["), 0644); err != nil {
		t.Fatalf("failed to write hooks config: %v", err)
	}
	if _, err := LoadConfig(workDir); err == nil {
		t.Error("LoadConfig() expected parse error")
	}
}
