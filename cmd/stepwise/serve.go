package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/stepwise/internal/journal"
	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/mark3labs/stepwise/internal/mcpserver"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	port int
	mode string
}

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Expose a wizard over MCP",
	Long: `Start a streamable HTTP MCP server on 127.0.0.1 exposing the wizard's
navigation as tools (wizard-state, wizard-can-go-to, wizard-go-to,
wizard-next, wizard-previous, wizard-reset). Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveFlags.port, "port", 0, "Port to listen on (default: random)")
	serveCmd.Flags().StringVarP(&serveFlags.mode, "mode", "m", "", "Override the navigation mode")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := loadWizard(ctx, args[0], cfg, serveFlags.mode)
	if err != nil {
		return err
	}

	j, err := openJournal(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	opts := []mcpserver.Option{mcpserver.WithPort(serveFlags.port)}
	if j != nil {
		runID := journal.NewRunID()
		if err := j.RecordStart(ctx, w.def.Name, runID, w.state.Snapshot()); err != nil {
			logger.Warn("Failed to record start of %s: %v", w.def.Name, err)
		}
		opts = append(opts, mcpserver.WithRecorder(j, runID))
	}

	srv := mcpserver.New(w.state, w.def.Name, opts...)
	if _, err := srv.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = srv.Stop() }()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at %s (ctrl+c to stop)\n", w.def.Name, srv.URL())
	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
	return nil
}
