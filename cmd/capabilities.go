package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/computer-mcp/internal/output"
	"github.com/mj1618/computer-mcp/internal/platform"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Report which platform features are usable",
	Long: `Probe the platform backend and report which collaborators work in this
session, with the reason for each one that does not (missing binaries,
no display, denied permissions).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A nil provider is reported as an unsupported backend.
		provider, _ := platform.NewProvider()
		return output.Print(platform.Probe(cmd.Context(), provider))
	},
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
}
