package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/77QAlab/LogMiner-QA/internal/logging"
	mcpserver "github.com/77QAlab/LogMiner-QA/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over stdio for agent integration",
	Long: `Start an MCP server over stdin/stdout exposing the flakiness engine as
agent tools (analyze_test_results, analyze_results_dir).

The server monitors for parent process death. When the client disconnects
or restarts, the server self-terminates to prevent zombie processes.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	srv := mcpserver.NewServer(version)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	logging.New("mcp").Info("starting logminer MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
