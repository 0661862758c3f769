package model

// Bounds is a screen rectangle in points.
type Bounds struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Node is one element of an accessibility tree.
type Node struct {
	Name       string            `yaml:"name,omitempty"       json:"name,omitempty"`
	Role       string            `yaml:"role"                 json:"role"`
	Bounds     *Bounds           `yaml:"bounds,omitempty"     json:"bounds,omitempty"`
	Properties map[string]string `yaml:"properties,omitempty" json:"properties,omitempty"`
	Children   []Node            `yaml:"children,omitempty"   json:"children,omitempty"`
	Truncated  int               `yaml:"truncated,omitempty"  json:"truncated,omitempty"` // children dropped by depth/breadth limits
}

// Prune returns a copy of the tree limited to depth levels (the root is
// level 1) and at most breadth children per node. Dropped children are
// counted in the parent's Truncated field. A limit <= 0 means unlimited.
func Prune(root *Node, depth, breadth int) *Node {
	if root == nil {
		return nil
	}
	out := pruneRecursive(*root, 1, depth, breadth)
	return &out
}

func pruneRecursive(n Node, level, depth, breadth int) Node {
	out := n
	out.Children = nil
	if len(n.Children) == 0 {
		return out
	}
	if depth > 0 && level >= depth {
		out.Truncated += len(n.Children)
		return out
	}
	keep := n.Children
	if breadth > 0 && len(keep) > breadth {
		out.Truncated += len(keep) - breadth
		keep = keep[:breadth]
	}
	out.Children = make([]Node, 0, len(keep))
	for _, child := range keep {
		out.Children = append(out.Children, pruneRecursive(child, level+1, depth, breadth))
	}
	return out
}

// CountNodes returns the number of nodes in the tree, including the root.
func CountNodes(n *Node) int {
	if n == nil {
		return 0
	}
	total := 1
	for i := range n.Children {
		total += CountNodes(&n.Children[i])
	}
	return total
}

// Depth returns the number of levels in the tree.
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for i := range n.Children {
		if d := Depth(&n.Children[i]); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
