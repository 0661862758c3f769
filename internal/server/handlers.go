package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/computer-mcp/internal/dispatch"
)

// handle returns the MCP handler for one tool. Tool failures are reported in
// the result with IsError set, never as protocol errors.
func (s *Server) handle(tool dispatch.Tool) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := s.dispatcher.Dispatch(ctx, string(tool), request.GetArguments())
		return toCallToolResult(res), nil
	}
}

// toCallToolResult converts an envelope into MCP content: the metadata as
// JSON text and structured content, followed by the PNG when present.
func toCallToolResult(res *dispatch.Result) *mcp.CallToolResult {
	meta := res.Map()
	text, err := json.Marshal(meta)
	if err != nil {
		text = []byte(fmt.Sprintf(`{"success":false,"action":%q,"error":%q}`, res.Action, err.Error()))
	}

	content := []mcp.Content{
		mcp.TextContent{
			Type: "text",
			Text: string(text),
		},
	}
	if len(res.Image) > 0 {
		content = append(content, mcp.ImageContent{
			Type:     "image",
			Data:     base64.StdEncoding.EncodeToString(res.Image),
			MIMEType: "image/png",
		})
	}
	return &mcp.CallToolResult{
		Content:           content,
		StructuredContent: meta,
		IsError:           !res.Success,
	}
}
