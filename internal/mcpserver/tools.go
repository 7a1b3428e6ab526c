package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the wizard navigation tools with the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("wizard-state",
			mcp.WithDescription("Show the wizard's steps, their flags, the current step and which steps are navigable"),
		),
		s.handleState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-can-go-to",
			mcp.WithDescription("Check whether the wizard may move to a step, evaluating the policy and guards without moving"),
			mcp.WithNumber("index", mcp.Required(),
				mcp.Description("Zero-based index of the destination step"),
			),
		),
		s.handleCanGoTo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-go-to",
			mcp.WithDescription("Move the wizard to a step given by index or id"),
			mcp.WithNumber("index",
				mcp.Description("Zero-based index of the destination step"),
			),
			mcp.WithString("id",
				mcp.Description("Step id of the destination step (takes precedence over index)"),
			),
		),
		s.handleGoTo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-next",
			mcp.WithDescription("Move the wizard to the next step"),
		),
		s.handleNext,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-previous",
			mcp.WithDescription("Move the wizard to the previous step"),
		),
		s.handlePrevious,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-reset",
			mcp.WithDescription("Reset the wizard to its default step and initial completion flags"),
		),
		s.handleReset,
	)
}
