package darwin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/computer-mcp/internal/model"
)

// parseFocus reads the "name<TAB>pid<TAB>title" line printed by focusScript.
func parseFocus(out string) (*model.FocusedApp, error) {
	line := strings.TrimRight(out, "\r\n")
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" {
		return nil, fmt.Errorf("unexpected System Events output: %q", line)
	}
	app := &model.FocusedApp{Name: strings.TrimSpace(fields[0])}
	if pid, err := strconv.Atoi(strings.TrimSpace(fields[1])); err == nil {
		app.PID = pid
	}
	if len(fields) == 3 {
		app.Title = strings.TrimSpace(fields[2])
	}
	return app, nil
}

type axNode struct {
	node  model.Node
	total int
	kids  []*axNode
}

func (n *axNode) build() model.Node {
	out := n.node
	for _, k := range n.kids {
		out.Children = append(out.Children, k.build())
	}
	if n.total > len(n.kids) {
		out.Truncated = n.total - len(n.kids)
	}
	return out
}

// parseTree rebuilds the tree printed by treeScript. Each line is
// "level<TAB>role<TAB>name<TAB>x,y,w,h<TAB>childCount" in depth-first order
// with the root at level 1. Children listed fewer times than childCount are
// counted as truncated. Malformed lines are skipped.
func parseTree(out string) (*model.Node, error) {
	var (
		root  *axNode
		stack []*axNode // stack[i] is the most recent node at level i+1
	)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(fields) != 5 {
			continue
		}
		level, err := strconv.Atoi(fields[0])
		if err != nil || level < 1 {
			continue
		}
		total, _ := strconv.Atoi(fields[4])
		n := &axNode{node: axToNode(fields[1], fields[2], fields[3], level), total: total}

		if level == 1 {
			if root != nil {
				continue
			}
			root = n
			stack = []*axNode{n}
			continue
		}
		if root == nil || level-1 > len(stack) {
			continue
		}
		parent := stack[level-2]
		parent.kids = append(parent.kids, n)
		stack = append(stack[:level-1], n)
	}
	if root == nil {
		return nil, fmt.Errorf("no accessibility data for the frontmost application")
	}
	tree := root.build()
	return &tree, nil
}

func axToNode(role, name, bounds string, level int) model.Node {
	n := model.Node{Name: name, Role: model.MapRole(role)}
	if n.Role == "other" && role != "" {
		n.Properties = map[string]string{"native_role": role}
	}
	if level > 1 {
		n.Bounds = parseBounds(bounds)
	}
	return n
}

// parseBounds reads "x,y,w,h". Empty or zero-sized rectangles yield nil.
func parseBounds(s string) *model.Bounds {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil
	}
	var v [4]int
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		v[i] = int(f)
	}
	if v[2] <= 0 && v[3] <= 0 {
		return nil
	}
	return &model.Bounds{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
}
