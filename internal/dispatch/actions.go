package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/computer-mcp/internal/observe"
	"github.com/mj1618/computer-mcp/internal/platform"
)

// output is what an action produces besides success.
type output struct {
	fields map[string]any
	image  []byte
}

// action runs a validated tool call.
type action func(ctx context.Context) (output, error)

// toolEntry binds a tool to its argument parser. parse validates args and
// returns the action without running it.
type toolEntry struct {
	parse func(d *Dispatcher, args map[string]any) (action, error)
	// input marks tools that change what is on screen.
	input bool
}

var toolTable = map[Tool]toolEntry{
	ToolClick:       {parse: clickAction(ToolClick, 1), input: true},
	ToolDoubleClick: {parse: clickAction(ToolDoubleClick, 2), input: true},
	ToolTripleClick: {parse: clickAction(ToolTripleClick, 3), input: true},
	ToolButtonDown:  {parse: buttonAction(true), input: true},
	ToolButtonUp:    {parse: buttonAction(false), input: true},
	ToolDrag:        {parse: dragAction, input: true},
	ToolMouseMove:   {parse: moveAction, input: true},
	ToolType:        {parse: typeAction, input: true},
	ToolKeyDown:     {parse: keyAction(ToolKeyDown), input: true},
	ToolKeyUp:       {parse: keyAction(ToolKeyUp), input: true},
	ToolKeyPress:    {parse: keyAction(ToolKeyPress), input: true},
	ToolScreenshot:  {parse: screenshotAction},
	ToolSetConfig:   {parse: setConfigAction},
}

func (d *Dispatcher) inputter() (platform.Inputter, error) {
	if d.provider == nil || d.provider.Inputter == nil {
		return nil, fmt.Errorf("input injection: %w", platform.ErrUnavailable)
	}
	return d.provider.Inputter, nil
}

func clickAction(tool Tool, count int) func(*Dispatcher, map[string]any) (action, error) {
	return func(d *Dispatcher, args map[string]any) (action, error) {
		button, err := buttonArg(args)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (output, error) {
			out := output{fields: map[string]any{"button": button.String()}}
			in, err := d.inputter()
			if err != nil {
				return out, err
			}
			if err := in.Click(ctx, button, count); err != nil {
				return out, fmt.Errorf("%s %s: %w", tool, button, err)
			}
			return out, nil
		}, nil
	}
}

func buttonAction(down bool) func(*Dispatcher, map[string]any) (action, error) {
	return func(d *Dispatcher, args map[string]any) (action, error) {
		button, err := buttonArg(args)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (output, error) {
			out := output{fields: map[string]any{"button": button.String()}}
			in, err := d.inputter()
			if err != nil {
				return out, err
			}
			if down {
				err = in.Press(ctx, button)
			} else {
				err = in.Release(ctx, button)
			}
			if err != nil {
				return out, fmt.Errorf("%s button: %w", button, err)
			}
			return out, nil
		}, nil
	}
}

func dragAction(d *Dispatcher, args map[string]any) (action, error) {
	start, err := pointArg(args, "start")
	if err != nil {
		return nil, err
	}
	end, err := pointArg(args, "end")
	if err != nil {
		return nil, err
	}
	button, err := buttonArg(args)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (output, error) {
		out := output{fields: map[string]any{"start": start, "end": end, "button": button.String()}}
		in, err := d.inputter()
		if err != nil {
			return out, err
		}
		if err := in.Move(ctx, start.X, start.Y); err != nil {
			return out, fmt.Errorf("moving to drag start: %w", err)
		}
		if err := in.Press(ctx, button); err != nil {
			return out, fmt.Errorf("pressing %s button: %w", button, err)
		}
		// Always release what was pressed, even if the move fails or the
		// call is cancelled.
		d.pause(ctx)
		moveErr := in.Move(ctx, end.X, end.Y)
		d.pause(ctx)
		if err := in.Release(context.WithoutCancel(ctx), button); err != nil {
			return out, fmt.Errorf("releasing %s button: %w", button, err)
		}
		if moveErr != nil {
			return out, fmt.Errorf("moving to drag end: %w", moveErr)
		}
		return out, nil
	}, nil
}

func moveAction(d *Dispatcher, args map[string]any) (action, error) {
	x, err := coordArg(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := coordArg(args, "y")
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (output, error) {
		out := output{fields: map[string]any{"x": x, "y": y}}
		in, err := d.inputter()
		if err != nil {
			return out, err
		}
		if err := in.Move(ctx, x, y); err != nil {
			return out, fmt.Errorf("moving mouse: %w", err)
		}
		return out, nil
	}, nil
}

func typeAction(d *Dispatcher, args map[string]any) (action, error) {
	text, err := requiredString(args, "text")
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (output, error) {
		out := output{fields: map[string]any{"text": text}}
		in, err := d.inputter()
		if err != nil {
			return out, err
		}
		if err := in.TypeText(ctx, text); err != nil {
			return out, fmt.Errorf("typing text: %w", err)
		}
		return out, nil
	}, nil
}

func keyAction(tool Tool) func(*Dispatcher, map[string]any) (action, error) {
	return func(d *Dispatcher, args map[string]any) (action, error) {
		key, raw, err := keyArg(args)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (output, error) {
			out := output{fields: map[string]any{"key": raw}}
			in, err := d.inputter()
			if err != nil {
				return out, err
			}
			switch tool {
			case ToolKeyDown:
				err = in.KeyDown(ctx, key)
			case ToolKeyUp:
				err = in.KeyUp(ctx, key)
			default:
				if err = in.KeyDown(ctx, key); err == nil {
					err = in.KeyUp(context.WithoutCancel(ctx), key)
				}
			}
			if err != nil {
				return out, fmt.Errorf("%s %s: %w", tool, key, err)
			}
			return out, nil
		}, nil
	}
}

func screenshotAction(d *Dispatcher, args map[string]any) (action, error) {
	return func(ctx context.Context) (output, error) {
		info, png, err := d.assembler.CaptureScreen(ctx)
		if err != nil {
			return output{}, fmt.Errorf("capturing screenshot: %w", err)
		}
		return output{
			fields: map[string]any{
				"width":      info.Width,
				"height":     info.Height,
				"format":     info.Format,
				"size_bytes": info.SizeBytes,
			},
			image: png,
		}, nil
	}, nil
}

func setConfigAction(d *Dispatcher, args map[string]any) (action, error) {
	opts, err := observe.ParseOptions(args)
	if err != nil {
		return nil, invalidArg("%v", err)
	}
	return func(ctx context.Context) (output, error) {
		cfg := d.state.Update(opts)
		return output{fields: map[string]any{"config": cfg}}, nil
	}, nil
}

// pause waits between the steps of a drag so applications register the
// button as held.
func (d *Dispatcher) pause(ctx context.Context) {
	if d.dragPause <= 0 {
		return
	}
	t := time.NewTimer(d.dragPause)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
