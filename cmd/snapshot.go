package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/computer-mcp/internal/observe"
	"github.com/mj1618/computer-mcp/internal/output"
	"github.com/mj1618/computer-mcp/internal/platform"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the enabled observations once",
	Long: `Collect the enabled observation kinds once and print them.

A screenshot is taken by default; pass --screen=false to skip it and
--output to save the PNG. Mouse and keyboard listeners only see input that
arrives during --settle.

Examples:
  computer-mcp snapshot --output screen.png
  computer-mcp snapshot --screen=false --focused-app --tree --format json`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	addObservationFlags(snapshotCmd.Flags())
	snapshotCmd.Flags().StringP("output", "o", "", "Write the screenshot PNG to this file")
	snapshotCmd.Flags().Duration("settle", 100*time.Millisecond, "Time to let mouse and keyboard listeners sample before collecting")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := observationConfig(cmd.Flags())
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("output")
	settle, _ := cmd.Flags().GetDuration("settle")
	if outPath != "" && !cfg.ObserveScreen {
		return fmt.Errorf("--output needs the screenshot observation enabled")
	}

	s := newSession(cfg, observe.DefaultAssemblerOptions(), cliLogger())
	defer s.Close()

	if settle > 0 && (cfg.Tracks(platform.DeviceMouse) || cfg.Tracks(platform.DeviceKeyboard)) {
		select {
		case <-time.After(settle):
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	}

	snap := s.assembler.Assemble(cmd.Context(), cfg)
	if outPath != "" {
		if snap.PNG == nil {
			return fmt.Errorf("no screenshot to write: %s", snap.Observations.CollectionErrors[observe.KindScreenshot])
		}
		if err := os.WriteFile(outPath, snap.PNG, 0o644); err != nil {
			return fmt.Errorf("writing screenshot: %w", err)
		}
	}
	return output.Print(snap.Observations)
}
