//go:build darwin && cgo

package darwin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mj1618/computer-mcp/internal/model"
	"github.com/mj1618/computer-mcp/internal/platform"
)

// treeScript prints the frontmost application's UI elements depth-first in
// the line format read by parseTree. argv is {maxDepth, maxBreadth}; zero
// means unlimited.
const treeScript = `global out, maxDepth, maxBreadth

on clean(t)
	if t is missing value then return ""
	set t to t as text
	set saved to AppleScript's text item delimiters
	repeat with ch in {tab, linefeed, return}
		set AppleScript's text item delimiters to contents of ch
		set parts to text items of t
		set AppleScript's text item delimiters to " "
		set t to parts as text
	end repeat
	set AppleScript's text item delimiters to saved
	return t
end clean

on describe(el, lvl)
	tell application "System Events"
		set r to ""
		try
			set r to role of el
		end try
		set n to ""
		try
			set n to name of el
		end try
		set b to ""
		try
			set {px, py} to position of el
			set {sw, sh} to size of el
			set b to (px as text) & "," & (py as text) & "," & (sw as text) & "," & (sh as text)
		end try
		set kids to {}
		try
			set kids to UI elements of el
		end try
	end tell
	set total to count of kids
	set end of out to (lvl as text) & tab & my clean(r) & tab & my clean(n) & tab & b & tab & (total as text)
	if maxDepth > 0 and lvl >= maxDepth then return
	set lim to total
	if maxBreadth > 0 and lim > maxBreadth then set lim to maxBreadth
	repeat with i from 1 to lim
		my describe(item i of kids, lvl + 1)
	end repeat
end describe

on run argv
	set maxDepth to (item 1 of argv) as integer
	set maxBreadth to (item 2 of argv) as integer
	set out to {}
	tell application "System Events"
		set p to first application process whose frontmost is true
	end tell
	my describe(p, 1)
	set AppleScript's text item delimiters to linefeed
	return out as text
end run`

// Walker reads the accessibility tree of the frontmost application through
// System Events.
type Walker struct {
	run platform.Runner
}

// NewWalker creates an osascript accessibility walker.
func NewWalker(run platform.Runner) *Walker {
	return &Walker{run: run}
}

// Check verifies osascript and the accessibility permission.
func (w *Walker) Check(ctx context.Context) error {
	if err := platform.RequireCommands("osascript"); err != nil {
		return err
	}
	return checkAccessibility()
}

func (w *Walker) Walk(ctx context.Context, depth, breadth int) (*model.Node, error) {
	out, err := w.run(ctx, "osascript", "-e", treeScript, strconv.Itoa(depth), strconv.Itoa(breadth))
	if err != nil {
		return nil, fmt.Errorf("reading accessibility tree: %w", err)
	}
	return parseTree(string(out))
}
