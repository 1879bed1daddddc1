package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/mcp"
)

var mcpListenAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the archive over the Model Context Protocol",
	Long: `Serve the archive to MCP-compatible AI assistants.

The server speaks JSON-RPC over stdio, which is what Claude Desktop
and most assistant hosts expect. Pass --http to serve streamable HTTP
instead, for the MCP Inspector or remote clients.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "pensieve": {
        "command": "/path/to/pensieve",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpListenAddr, "http", "", "serve HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	server, err := mcp.New(searchService,
		mcp.WithEntries(entryService),
		mcp.WithIngest(ingestOrchestrator),
	)
	if err != nil {
		return err
	}

	if mcpListenAddr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on %s\n", mcpListenAddr)
		return server.ListenAndServe(cmd.Context(), mcpListenAddr)
	}

	return server.Serve(cmd.Context())
}
