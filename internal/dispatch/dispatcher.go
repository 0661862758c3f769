package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mj1618/computer-mcp/internal/metrics"
	"github.com/mj1618/computer-mcp/internal/observe"
	"github.com/mj1618/computer-mcp/internal/platform"
)

// DefaultDragPause is the delay between drag steps.
const DefaultDragPause = 10 * time.Millisecond

// levelTrace matches config.LevelTrace.
const levelTrace = slog.Level(-8)

// Dispatcher validates tool calls, runs their actions and attaches the
// observations enabled at the time of the call.
type Dispatcher struct {
	state     *observe.State
	assembler *observe.Assembler
	provider  *platform.Provider
	metrics   *metrics.Metrics
	logger    *slog.Logger
	dragPause time.Duration
}

// New creates a Dispatcher.
func New(state *observe.State, assembler *observe.Assembler, provider *platform.Provider, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		state:     state,
		assembler: assembler,
		provider:  provider,
		metrics:   m,
		logger:    logger,
		dragPause: DefaultDragPause,
	}
}

// Dispatch runs the named tool. Invalid arguments are rejected before any
// action runs and without observations. Otherwise the snapshot is always
// attached, whether or not the action succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) *Result {
	start := time.Now()
	logger := d.logger.With("tool", name, "call_id", uuid.NewString())
	logger.Debug("tool call started")
	logger.Log(ctx, levelTrace, "tool call arguments", "args", args)

	res := d.dispatch(ctx, name, args)

	elapsed := time.Since(start)
	label := name
	if _, ok := ParseTool(name); !ok {
		label = "unknown"
	}
	d.metrics.ToolCall(label, res.outcome(), elapsed)

	attrs := []any{"outcome", res.outcome(), "duration", elapsed}
	if res.Image != nil {
		attrs = append(attrs, "image_bytes", len(res.Image))
	}
	switch {
	case res.Success:
		logger.Info("tool call", attrs...)
	case res.ErrorKind == ErrorKindInvalidArgument:
		logger.Info("tool call rejected", append(attrs, "error", res.Error)...)
	default:
		logger.Warn("tool call failed", append(attrs, "error", res.Error)...)
	}
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, args map[string]any) *Result {
	res := &Result{Action: name}
	if args == nil {
		args = map[string]any{}
	}

	tool, ok := ParseTool(name)
	if !ok {
		return rejected(res, invalidArg("unknown tool %q", name))
	}
	entry := toolTable[tool]
	run, err := entry.parse(d, args)
	if err != nil {
		return rejected(res, err)
	}

	out, actionErr := run(ctx)
	res.Fields = out.fields
	res.Image = out.image
	if entry.input {
		d.assembler.Invalidate()
	}
	if actionErr != nil {
		res.Error = actionErr.Error()
		res.ErrorKind = ErrorKindActionFailure
	} else {
		res.Success = true
	}

	cfg := d.state.Config()
	if tool == ToolScreenshot {
		cfg.ObserveScreen = false
	}
	snap := d.assembler.Assemble(ctx, cfg)
	if !snap.Observations.IsEmpty() {
		obs := snap.Observations
		res.Observations = &obs
	}
	if snap.PNG != nil {
		res.Image = snap.PNG
	}
	return res
}

func rejected(res *Result, err error) *Result {
	if !errors.Is(err, ErrInvalidArgument) {
		err = invalidArg("%v", err)
	}
	res.Error = err.Error()
	res.ErrorKind = ErrorKindInvalidArgument
	return res
}
