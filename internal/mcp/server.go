// Package mcp provides the MCP (Model Context Protocol) server implementation.
//
// This package implements an MCP server that exposes the pwrun actions as
// tools that can be called by AI agents via the MCP protocol. Commands run in
// pseudo-terminals owned by the server so their output can be read back.
package mcp

import (
	"context"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/revyl/pwrun/internal/completion"
	"github.com/revyl/pwrun/internal/runner"
	"github.com/revyl/pwrun/internal/settings"
	"github.com/revyl/pwrun/internal/terminal"
)

// defaultOutputBytes is returned by session_output when max_bytes is unset.
const defaultOutputBytes = 16 * 1024

// Options configures a Server.
type Options struct {
	// Root is the workspace root.
	Root string

	// Store reads and writes settings.
	Store *settings.Store

	// Host runs sessions. Defaults to a PTYHost rooted at Root.
	Host terminal.Host

	// Finder searches for config files. Defaults to completion.WalkFinder.
	Finder completion.Finder
}

// Server wraps the MCP server with pwrun functionality.
type Server struct {
	mcpServer *mcp.Server
	runner    runner.Runner
	host      terminal.Host
	finder    completion.Finder
	root      string
	version   string
}

// NewServer creates a new pwrun MCP server.
//
// Parameters:
//   - version: The CLI version string
//   - opts: Workspace, settings and host
//
// Returns:
//   - *Server: A new server instance
func NewServer(version string, opts Options) *Server {
	host := opts.Host
	if host == nil {
		host = terminal.NewPTYHost(terminal.PTYOptions{WorkDir: opts.Root})
	}
	finder := opts.Finder
	if finder == nil {
		finder = completion.WalkFinder{}
	}

	s := &Server{
		runner: runner.Runner{
			Root:     opts.Root,
			Store:    opts.Store,
			Sessions: terminal.NewManager(host),
			Lookup:   os.LookupEnv,
		},
		host:    host,
		finder:  finder,
		root:    opts.Root,
		version: version,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    "pwrun",
			Version: version,
		},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server over stdio.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Any error that occurred during execution
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Close terminates sessions started by the server.
func (s *Server) Close() error {
	if c, ok := s.host.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// registerTools registers all pwrun tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "run_test",
		Description: "Run Playwright on one file or folder, or on several spec/test files, in the reusable \"Playwright Tests\" terminal. Returns the exact command sent.",
	}, s.handleRunTest)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "run_codegen",
		Description: "Launch Playwright codegen at the configured codegenURL in the \"Playwright Codegen\" terminal.",
	}, s.handleRunCodegen)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_config_file",
		Description: "Suggest Playwright config files for a settings.json line when the cursor is inside the configFile value.",
	}, s.handleCompleteConfigFile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_config_files",
		Description: "List playwright*.config.ts files in the workspace, excluding node_modules.",
	}, s.handleListConfigFiles)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "session_output",
		Description: "Read recent terminal output from a session started by this server.",
	}, s.handleSessionOutput)
}

// resolve makes a tool path absolute against the workspace root.
func (s *Server) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || s.root == "" {
		return p
	}
	return filepath.Join(s.root, p)
}
