package main

import (
	"context"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/mark3labs/stepwise/internal/config"
	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/spf13/cobra"
)

// Version set via ldflags during build
var version = "dev"

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "stepwise",
	Short:             "Run step-by-step wizards with pluggable navigation policies",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	if err := logger.Configure(loaded.LogLevel, loaded.LogFile); err != nil {
		return err
	}
	cfg = loaded
	logger.Debug("Loaded config: mode=%s data_dir=%s journal=%t", cfg.NavigationMode, cfg.DataDir, cfg.Journal)
	return nil
}

func init() {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7")).Bold(true).Render("stepwise")
	rootCmd.Long = title + ` drives multi-step wizards defined in YAML.

Each wizard picks a navigation policy (free, strict, semi-strict or
configurable) deciding which steps the user may move to. Step guards can be
shell commands, navigation is journaled in an embedded NATS JetStream store
so runs can be resumed, and a live wizard can be exposed over MCP.`

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(setupCmd)
}
