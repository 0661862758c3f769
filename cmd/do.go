package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/computer-mcp/internal/dispatch"
	"github.com/mj1618/computer-mcp/internal/observe"
	"github.com/mj1618/computer-mcp/internal/output"
)

// DoResult is the output of a batch do command.
type DoResult struct {
	OK        bool             `yaml:"ok"              json:"ok"`
	Steps     int              `yaml:"steps"           json:"steps"`
	Completed int              `yaml:"completed"       json:"completed"`
	Error     string           `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []map[string]any `yaml:"results"         json:"results"`
}

// Step is one tool call of a batch.
type Step struct {
	Tool string
	Args map[string]any
}

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Run a batch of tool calls",
	Long: `Run a sequence of tool calls from a YAML list on stdin, exactly as an MCP
client would call them.

Each step is a tool name with its arguments as a map. Steps execute
sequentially, and by default execution stops on the first failure.

Example:
  computer-mcp do --screenshot-dir shots <<'EOF'
  - set_config: { observe_mouse_position: true }
  - mouse_move: { x: 400, y: 300 }
  - click: {}
  - type: { text: "hello" }
  - key_press: { key: enter }
  EOF`,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	addObservationFlags(doCmd.Flags())
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first failed step")
	doCmd.Flags().String("screenshot-dir", "", "Save each step's screenshot as step-N.png in this directory")
}

func runDo(cmd *cobra.Command, args []string) error {
	cfg, err := observationConfig(cmd.Flags())
	if err != nil {
		return err
	}
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")
	shotDir, _ := cmd.Flags().GetString("screenshot-dir")

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	steps, err := parseSteps(data)
	if err != nil {
		return err
	}

	s := newSession(cfg, observe.DefaultAssemblerOptions(), cliLogger())
	defer s.Close()

	result := runSteps(cmd.Context(), s.dispatcher, steps, stopOnError, shotDir)
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s", result.Error)
	}
	return nil
}

// parseSteps reads a YAML list of single-key maps: tool name to arguments.
func parseSteps(data []byte) ([]Step, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no steps provided on stdin: pipe a YAML list of tool calls")
	}
	var raw []map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no steps provided: expected a YAML list of tool calls")
	}
	steps := make([]Step, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one tool name, got %d", i+1, len(entry))
		}
		for tool, args := range entry {
			steps = append(steps, Step{Tool: tool, Args: args})
		}
	}
	return steps, nil
}

// stepDispatcher is the part of dispatch.Dispatcher used by runSteps.
type stepDispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) *dispatch.Result
}

func runSteps(ctx context.Context, d stepDispatcher, steps []Step, stopOnError bool, shotDir string) *DoResult {
	out := &DoResult{Steps: len(steps), Results: make([]map[string]any, 0, len(steps))}
	for i, step := range steps {
		if ctx.Err() != nil {
			out.Error = fmt.Sprintf("step %d: %v", i+1, ctx.Err())
			break
		}
		res := d.Dispatch(ctx, step.Tool, step.Args)
		m := res.Map()
		m["step"] = i + 1
		if shotDir != "" && res.Image != nil {
			path := filepath.Join(shotDir, fmt.Sprintf("step-%d.png", i+1))
			if err := os.WriteFile(path, res.Image, 0o644); err != nil {
				m["screenshot_error"] = err.Error()
			} else {
				m["screenshot_file"] = path
			}
		}
		out.Results = append(out.Results, m)

		if res.Success {
			out.Completed++
			continue
		}
		if out.Error == "" {
			out.Error = fmt.Sprintf("step %d (%s): %s", i+1, step.Tool, res.Error)
		}
		if stopOnError {
			break
		}
	}
	out.OK = out.Error == ""
	return out
}
