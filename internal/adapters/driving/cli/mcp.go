package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants. Tools run
as the signed-in account, so sign in with 'fatawa auth login' first.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP
  - Prometheus metrics at /metrics

Examples:
  # Stdio mode (default, for Claude Desktop)
  fatawa mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  fatawa mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "fatawa": {
        "command": "/path/to/fatawa",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Annotations: map[string]string{annotationWatchSession: "true"},
	RunE:        runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// buildMCPPorts collects the services the MCP server needs.
func buildMCPPorts() *mcp.Ports {
	return &mcp.Ports{
		Documents: documentService,
		Session:   sessionGuard,
		Metrics:   metricsHandler,
	}
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(buildMCPPorts())
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
