// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to use Atlas via stdio
package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/atlascareer/atlas/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Atlas as an MCP (Model Context Protocol) server over stdio,
exposing chat, ingestion, and search tools to agent hosts.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent host)
  atlas mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "atlas": {
  #       "command": "atlas",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer(
		"Atlas Career Advisor",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, a.orchestrator, a.sessions, a.documents, a.processor, a.retriever, a.cfg.TopK, a.cfg.ScoreThreshold)

	log.Println("Atlas MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
