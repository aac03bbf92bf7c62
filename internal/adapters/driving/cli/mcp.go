package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/mcp"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can analyze
résumés through the analyze_resume and retrieve_chunks tools.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead, for example with MCP Inspector.

Examples:
  # Stdio mode (default, for desktop assistants)
  resume-ats mcp serve

  # HTTP mode
  resume-ats mcp serve --port 8090

Assistant configuration:
  {
    "mcpServers": {
      "resume-ats": {
        "command": "/path/to/resume-ats",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	// Stdio belongs to the protocol, so never prompt for a key here.
	svc, err := analyzer(cmd, false)
	if err != nil {
		return err
	}

	ports := &mcp.Ports{Analyzer: svc}
	if s, err := settings(); err == nil {
		ports.Settings = s
	} else {
		logger.Debug("mcp: settings resource disabled: %v", err)
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
