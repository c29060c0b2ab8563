package arbor

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/charmbracelet/log"
)

func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "arbor",
		Level:  log.WarnLevel,
	})
}

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings are logged on every link, subtree removals and
// update-pass timings are logged at debug level, and the logger level is
// lowered to debug.
func (g *Graph) SetDebugMode(enabled bool) {
	g.debug = enabled
	if enabled {
		g.logger.SetLevel(log.DebugLevel)
	} else {
		g.logger.SetLevel(log.WarnLevel)
	}
}

// SetLogger replaces the graph's logger. A nil logger restores the default.
func (g *Graph) SetLogger(l *log.Logger) {
	if l == nil {
		l = defaultLogger()
	}
	g.logger = l
}

// Logger returns the graph's logger.
func (g *Graph) Logger() *log.Logger {
	return g.logger
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if h sits deeper than debugMaxTreeDepth.
func (g *Graph) debugCheckTreeDepth(h Handle) {
	depth := 0
	for p := h; ; depth++ {
		n, ok := g.pool.TryBorrow(p)
		if !ok {
			break
		}
		p = n.parent
	}
	if depth > debugMaxTreeDepth {
		g.logger.Warn("tree depth exceeds threshold",
			"node", g.pool.Borrow(h).Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

const debugMaxChildCount = 1000

// debugCheckChildCount warns if h has more than debugMaxChildCount children.
func (g *Graph) debugCheckChildCount(h Handle) {
	n := g.pool.Borrow(h)
	if len(n.children) > debugMaxChildCount {
		g.logger.Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}

// Validate checks the structural invariants of the graph and returns every
// violation found, joined. While a node is held by a ticket its children
// reference a reserved slot and are reported here.
func (g *Graph) Validate() error {
	var errs []error

	root, ok := g.pool.TryBorrow(g.root)
	if !ok {
		return fmt.Errorf("root %v is not a live node", g.root)
	}
	if root.parent.IsSome() {
		errs = append(errs, fmt.Errorf("root has parent %v", root.parent))
	}

	listed := make(map[Handle]int, g.pool.Len())
	for h, n := range g.pool.All() {
		for _, c := range n.children {
			listed[c]++
			child, ok := g.pool.TryBorrow(c)
			if !ok {
				errs = append(errs, fmt.Errorf("node %v (%q) lists invalid child %v", h, n.Name, c))
				continue
			}
			if child.parent != h {
				errs = append(errs, fmt.Errorf("node %v (%q) lists child %v whose parent is %v", h, n.Name, c, child.parent))
			}
		}
		if h == g.root {
			continue
		}
		if n.parent.IsNone() {
			errs = append(errs, fmt.Errorf("node %v (%q) has no parent", h, n.Name))
		} else if !g.pool.IsValidHandle(n.parent) {
			errs = append(errs, fmt.Errorf("node %v (%q) has invalid parent %v", h, n.Name, n.parent))
		}
	}
	for h, count := range listed {
		if count > 1 {
			errs = append(errs, fmt.Errorf("node %v is listed as a child %d times", h, count))
		}
	}

	visited := make(map[Handle]bool, g.pool.Len())
	stack := []Handle{g.root}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[h] {
			errs = append(errs, fmt.Errorf("node %v reached twice from the root", h))
			continue
		}
		visited[h] = true
		if n, ok := g.pool.TryBorrow(h); ok {
			stack = append(stack, n.children...)
		}
	}
	for h, n := range g.pool.All() {
		if !visited[h] {
			errs = append(errs, fmt.Errorf("node %v (%q) is not reachable from the root", h, n.Name))
		}
	}

	return errors.Join(errs...)
}

// String renders the hierarchy as an indented tree.
func (g *Graph) String() string {
	return g.subtree(g.root).String()
}

func (g *Graph) subtree(h Handle) *tree.Tree {
	n := g.pool.Borrow(h)
	t := tree.Root(nodeLabel(h, n))
	for _, c := range n.children {
		cn, ok := g.pool.TryBorrow(c)
		switch {
		case !ok:
			t.Child(fmt.Sprintf("<invalid %v>", c))
		case len(cn.children) == 0:
			t.Child(nodeLabel(c, cn))
		default:
			t.Child(g.subtree(c))
		}
	}
	return t
}

func nodeLabel(h Handle, n *Node) string {
	label := fmt.Sprintf("%s [%s %d:%d]", n.Name, n.Type, h.Index(), h.Generation())
	if !n.Visible {
		label += " (hidden)"
	}
	return label
}
