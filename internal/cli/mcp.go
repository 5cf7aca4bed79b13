package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/defscan/defscan/internal/config"
	"github.com/defscan/defscan/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for definition scanning",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants scan your C/C++ codebase for type definitions.

The MCP server:
- Provides whole-tree scans via the defscan_scan tool
- Provides single-file scans via the defscan_file tool
- Communicates via stdio (standard MCP transport)

Example:
  defscan mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir, err := resolveRoot()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Defscan MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project Root: %s\n\n", rootDir)

	server, err := mcp.NewServer(rootDir, cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
