package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/computer-mcp/internal/output"
	"github.com/mj1618/computer-mcp/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "computer-mcp",
	Short: "Drive the mouse and keyboard and observe the screen over MCP",
	Long: `An MCP server that lets AI agents control the local mouse and keyboard.
Every tool result carries the observations enabled with set_config: a
screenshot by default, plus optional mouse, keyboard, focused app and
accessibility tree state.`,
	SilenceUsage: true,
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}
