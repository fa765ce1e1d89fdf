package navtree

import (
	"errors"
	"fmt"
	"strings"
)

// SkipChildren may be returned by a WalkFunc on a category to skip its items.
var SkipChildren = errors.New("skip children")

// Step is one hop from a parent sequence to a node.
type Step struct {
	Index int
	Label string
}

// Path locates a node below a sidebar root.
type Path []Step

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		if i == len(p)-1 {
			parts[i] = fmt.Sprintf("[%d] %q", s.Index, s.Label)
			continue
		}
		parts[i] = s.Label
	}
	return strings.Join(parts, " > ")
}

// Depth is the nesting depth of the node, 0 for root items.
func (p Path) Depth() int { return len(p) - 1 }

// WalkFunc is called for every node in pre-order.
type WalkFunc func(path Path, n Node) error

// Walk visits nodes depth-first in display order.
func Walk(nodes []Node, fn WalkFunc) error {
	return walk(nil, nodes, fn)
}

func walk(parent Path, nodes []Node, fn WalkFunc) error {
	for i, n := range nodes {
		path := append(parent[:len(parent):len(parent)], Step{Index: i, Label: n.Label()})
		err := fn(path, n)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if c, ok := n.(*Category); ok {
			if err := walk(path, c.items, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
