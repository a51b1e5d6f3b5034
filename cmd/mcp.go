package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/blameshare/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the blameshare MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents compute author shares
through the get_author_shares tool. The repository defaults to the current directory
and can be overridden per call.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		repoPath := "."
		if len(args) == 1 {
			repoPath = args[0]
		}
		// Reports are returned over the protocol, never written to a file
		if err := sharedSetup(rootCtx, repoPath, "-"); err != nil {
			return err
		}
		cfg.Quiet = true
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, gitClient, cacheManager)
	},
}
