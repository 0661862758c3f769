package server

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/computer-mcp/internal/dispatch"
	"github.com/mj1618/computer-mcp/internal/platform"
)

type toolDefinition struct {
	name dispatch.Tool
	tool mcp.Tool
}

func buttonOption(desc string) mcp.ToolOption {
	return mcp.WithString("button",
		mcp.Description(desc+" (default: left)"),
		mcp.Enum("left", "middle", "right"),
	)
}

func pointOption(name, desc string) mcp.ToolOption {
	return mcp.WithObject(name,
		mcp.Required(),
		mcp.Description(desc),
		mcp.Properties(map[string]any{
			"x": map[string]any{"type": "number", "description": "X coordinate"},
			"y": map[string]any{"type": "number", "description": "Y coordinate"},
		}),
	)
}

func keyOption(desc string) mcp.ToolOption {
	return mcp.WithString("key",
		mcp.Required(),
		mcp.Description(desc+". A single character or a named key: "+strings.Join(platform.KeyNames(), ", ")),
	)
}

// toolDefinitions returns the MCP schema for every dispatch.Tool, in
// dispatch.Tools order.
func toolDefinitions() []toolDefinition {
	defs := map[dispatch.Tool]mcp.Tool{
		dispatch.ToolClick: mcp.NewTool(string(dispatch.ToolClick),
			mcp.WithDescription("Perform a mouse click at the current cursor position"),
			buttonOption("Mouse button to click"),
		),
		dispatch.ToolDoubleClick: mcp.NewTool(string(dispatch.ToolDoubleClick),
			mcp.WithDescription("Perform a double mouse click at the current cursor position"),
			buttonOption("Mouse button to click"),
		),
		dispatch.ToolTripleClick: mcp.NewTool(string(dispatch.ToolTripleClick),
			mcp.WithDescription("Perform a triple mouse click at the current cursor position"),
			buttonOption("Mouse button to click"),
		),
		dispatch.ToolButtonDown: mcp.NewTool(string(dispatch.ToolButtonDown),
			mcp.WithDescription("Press and hold a mouse button"),
			buttonOption("Mouse button to press"),
		),
		dispatch.ToolButtonUp: mcp.NewTool(string(dispatch.ToolButtonUp),
			mcp.WithDescription("Release a mouse button"),
			buttonOption("Mouse button to release"),
		),
		dispatch.ToolDrag: mcp.NewTool(string(dispatch.ToolDrag),
			mcp.WithDescription("Drag the mouse from start to end with a button held"),
			pointOption("start", "Start position"),
			pointOption("end", "End position"),
			buttonOption("Mouse button to hold during the drag"),
		),
		dispatch.ToolMouseMove: mcp.NewTool(string(dispatch.ToolMouseMove),
			mcp.WithDescription("Move the mouse cursor to the given screen coordinates"),
			mcp.WithNumber("x", mcp.Required(), mcp.Description("X coordinate")),
			mcp.WithNumber("y", mcp.Required(), mcp.Description("Y coordinate")),
		),
		dispatch.ToolType: mcp.NewTool(string(dispatch.ToolType),
			mcp.WithDescription("Type the given text"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Text to type")),
		),
		dispatch.ToolKeyDown: mcp.NewTool(string(dispatch.ToolKeyDown),
			mcp.WithDescription("Press and hold a key"),
			keyOption("Key to press"),
		),
		dispatch.ToolKeyUp: mcp.NewTool(string(dispatch.ToolKeyUp),
			mcp.WithDescription("Release a key"),
			keyOption("Key to release"),
		),
		dispatch.ToolKeyPress: mcp.NewTool(string(dispatch.ToolKeyPress),
			mcp.WithDescription("Press and release a key"),
			keyOption("Key to press and release"),
		),
		dispatch.ToolScreenshot: mcp.NewTool(string(dispatch.ToolScreenshot),
			mcp.WithDescription("Capture a screenshot of the primary display and attach it as PNG"),
		),
		dispatch.ToolSetConfig: mcp.NewTool(string(dispatch.ToolSetConfig),
			mcp.WithDescription("Choose which observations are attached to every tool result. Omitted options are unchanged; returns the full configuration."),
			mcp.WithBoolean("observe_screen", mcp.Description("Attach a screenshot (default: true)")),
			mcp.WithBoolean("observe_mouse_position", mcp.Description("Track and include the mouse position")),
			mcp.WithBoolean("observe_mouse_button_states", mcp.Description("Track and include pressed mouse buttons")),
			mcp.WithBoolean("observe_keyboard_key_states", mcp.Description("Track and include pressed keys")),
			mcp.WithBoolean("observe_focused_app", mcp.Description("Include the focused application")),
			mcp.WithBoolean("observe_accessibility_tree", mcp.Description("Include the accessibility tree")),
		),
	}

	out := make([]toolDefinition, 0, len(dispatch.Tools))
	for _, name := range dispatch.Tools {
		out = append(out, toolDefinition{name: name, tool: defs[name]})
	}
	return out
}
