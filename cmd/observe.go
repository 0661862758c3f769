package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/computer-mcp/internal/observe"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Stream observation changes as JSONL",
	Long: `Collect the enabled observation kinds every --interval and emit a JSON line
whenever they differ from the previous collection. No output is emitted
while the state is stable.

Output is always JSONL regardless of the --format flag. Screenshots are not
taken unless --screen is given.

Use Ctrl+C or --duration to stop observing.

Example:
  computer-mcp observe --mouse-position --mouse-buttons --keyboard --interval 200ms`,
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)
	addObservationFlags(observeCmd.Flags())
	observeCmd.Flags().Duration("interval", time.Second, "Collection interval")
	observeCmd.Flags().Duration("duration", 0, "Stop after this long (0 = until Ctrl+C)")
}

func runObserve(cmd *cobra.Command, args []string) error {
	cfg, err := observationConfig(cmd.Flags())
	if err != nil {
		return err
	}
	// Streaming full screenshots is opt-in.
	if !cmd.Flags().Changed("screen") {
		cfg.ObserveScreen = false
	}
	interval, _ := cmd.Flags().GetDuration("interval")
	duration, _ := cmd.Flags().GetDuration("duration")
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	s := newSession(cfg, observe.DefaultAssemblerOptions(), cliLogger())
	defer s.Close()

	ctx := cmd.Context()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	return streamObservations(ctx, cmd.OutOrStdout(), interval, func(ctx context.Context) observe.Snapshot {
		return s.assembler.Assemble(ctx, cfg)
	})
}

// streamObservations writes a JSON line whenever the collected observations
// change, then a final "done" line once ctx is done. A failed write ends the
// stream.
func streamObservations(ctx context.Context, w io.Writer, interval time.Duration, collect func(context.Context) observe.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	start := time.Now()
	events := 0
	var prev []byte

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		snap := collect(ctx)
		if ctx.Err() != nil {
			break
		}
		cur, err := json.Marshal(snap.Observations)
		if err != nil {
			return err
		}
		if !bytes.Equal(cur, prev) {
			prev = cur
			events++
			if err := enc.Encode(map[string]any{
				"type":         "observations",
				"ts":           time.Now().Unix(),
				"observations": snap.Observations,
			}); err != nil {
				return fmt.Errorf("writing observations: %w", err)
			}
		}
		if !waitTick(ctx, ticker) {
			break
		}
	}

	return enc.Encode(map[string]any{
		"type":    "done",
		"ts":      time.Now().Unix(),
		"elapsed": fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
		"events":  events,
	})
}

// waitTick reports false once ctx is done.
func waitTick(ctx context.Context, ticker *time.Ticker) bool {
	select {
	case <-ctx.Done():
		return false
	case <-ticker.C:
		return true
	}
}
