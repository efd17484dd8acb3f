// Package main provides the MCP command for the pwrun CLI.
package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/mcp"
)

// mcpCmd is the parent command for MCP operations.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long: `MCP (Model Context Protocol) server commands.

The MCP server lets AI agents run Playwright tests and codegen through
pwrun, using the same settings and command lines as the CLI.

Commands:
  serve  - Start the MCP server over stdio`,
}

// mcpServeCmd starts the MCP server.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server over stdio",
	Long: `Start the pwrun MCP server over stdio.

Commands run in pseudo-terminals owned by the server; their output can be
read back with the session_output tool. Sessions end with the server.

The server exposes the following tools:
  - run_test: Run Playwright on files or folders
  - run_codegen: Launch the Playwright recorder
  - complete_config_file: Suggest config files for a settings line
  - list_config_files: List playwright*.config.ts files
  - session_output: Read recent output from a session

Example configuration:
  {
    "mcpServers": {
      "pwrun": {
        "command": "pwrun",
        "args": ["mcp", "serve", "--workspace", "/path/to/project"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}

// runMCPServe starts the MCP server.
func runMCPServe(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	server := mcp.NewServer(version, mcp.Options{Root: ws.Root, Store: ws.Store})
	defer func() {
		if err := server.Close(); err != nil {
			log.Debug("Failed to close MCP sessions", "error", err)
		}
	}()

	// Run the server (blocks until client disconnects)
	return server.Run(cmd.Context())
}
