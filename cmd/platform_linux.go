package cmd

import _ "github.com/mj1618/computer-mcp/internal/platform/x11"
