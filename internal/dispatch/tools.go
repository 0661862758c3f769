// Package dispatch runs tool actions and attaches an observation snapshot to
// every result.
package dispatch

// Tool names the closed set of tools served by computer-mcp.
type Tool string

const (
	ToolClick       Tool = "click"
	ToolDoubleClick Tool = "double_click"
	ToolTripleClick Tool = "triple_click"
	ToolButtonDown  Tool = "button_down"
	ToolButtonUp    Tool = "button_up"
	ToolDrag        Tool = "drag"
	ToolMouseMove   Tool = "mouse_move"
	ToolType        Tool = "type"
	ToolKeyDown     Tool = "key_down"
	ToolKeyUp       Tool = "key_up"
	ToolKeyPress    Tool = "key_press"
	ToolScreenshot  Tool = "screenshot"
	ToolSetConfig   Tool = "set_config"
)

// Tools lists every tool in registration order.
var Tools = []Tool{
	ToolClick,
	ToolDoubleClick,
	ToolTripleClick,
	ToolButtonDown,
	ToolButtonUp,
	ToolDrag,
	ToolMouseMove,
	ToolType,
	ToolKeyDown,
	ToolKeyUp,
	ToolKeyPress,
	ToolScreenshot,
	ToolSetConfig,
}

// ParseTool resolves a tool name.
func ParseTool(name string) (Tool, bool) {
	t := Tool(name)
	_, ok := toolTable[t]
	return t, ok
}
