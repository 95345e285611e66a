package cmd

import (
	"github.com/huangsam/qualityscore/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the QualityScore MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents score raw tool reports,
resolve weights and read saved analyses via standard tools.`,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, store)
	},
}
