// Package navtree holds the documentation navigation tree: named sidebars made of
// categories and document references, validated when they are constructed.
package navtree

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a node variant. The values match the "type" key of the
// declarative form.
type Kind string

const (
	KindCategory Kind = "category"
	KindDoc      Kind = "doc"
)

var (
	ErrEmptyLabel    = errors.New("label must not be empty")
	ErrEmptyID       = errors.New("doc id must not be empty")
	ErrEmptyCategory = errors.New("category must contain at least one item")
	ErrEmptySidebar  = errors.New("sidebar must contain at least one item")
	ErrNoSidebars    = errors.New("at least one sidebar is required")
	ErrNilNode       = errors.New("nil node")
	ErrUnknownType   = errors.New("unknown node type")
)

// Node is either a *Category or a *DocRef.
type Node interface {
	Kind() Kind
	Label() string
	clone() Node
}

// Category groups an ordered, non-empty list of child nodes under a label.
type Category struct {
	label string
	items []Node
}

// DocRef links to a content document by id.
type DocRef struct {
	id    string
	label string
}

// NewDoc returns a document reference. Both id and label are required.
func NewDoc(id, label string) (*DocRef, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("doc %q: %w", id, ErrEmptyLabel)
	}
	return &DocRef{id: id, label: label}, nil
}

// NewCategory returns a category owning deep copies of items, in the given order.
func NewCategory(label string, items ...Node) (*Category, error) {
	if strings.TrimSpace(label) == "" {
		return nil, ErrEmptyLabel
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("category %q: %w", label, ErrEmptyCategory)
	}
	owned, err := cloneItems(items)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", label, err)
	}
	return &Category{label: label, items: owned}, nil
}

// MustDoc is NewDoc for static definitions; it panics on error.
func MustDoc(id, label string) *DocRef {
	d, err := NewDoc(id, label)
	if err != nil {
		panic(err)
	}
	return d
}

// MustCategory is NewCategory for static definitions; it panics on error.
func MustCategory(label string, items ...Node) *Category {
	c, err := NewCategory(label, items...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Category) Kind() Kind { return KindCategory }
func (c *Category) Label() string { return c.label }
func (c *Category) Items() []Node { return append([]Node(nil), c.items...) }
func (c *Category) Len() int { return len(c.items) }
func (c *Category) Item(i int) Node { return c.items[i] }

func (c *Category) clone() Node {
	items := make([]Node, len(c.items))
	for i, it := range c.items {
		items[i] = it.clone()
	}
	return &Category{label: c.label, items: items}
}

func (d *DocRef) Kind() Kind { return KindDoc }
func (d *DocRef) Label() string { return d.label }
func (d *DocRef) ID() string { return d.id }

func (d *DocRef) clone() Node {
	cp := *d
	return &cp
}

// cloneItems checks every node of the subtree and returns deep copies. Nodes
// built outside the constructors, such as &Category{}, are rejected here.
func cloneItems(items []Node) ([]Node, error) {
	out := make([]Node, len(items))
	for i, it := range items {
		if err := checkNode(it); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = it.clone()
	}
	return out, nil
}

func checkNode(n Node) error {
	switch n := n.(type) {
	case nil:
		return ErrNilNode
	case *Category:
		if n == nil {
			return ErrNilNode
		}
		if strings.TrimSpace(n.label) == "" {
			return fmt.Errorf("category: %w", ErrEmptyLabel)
		}
		if len(n.items) == 0 {
			return fmt.Errorf("category %q: %w", n.label, ErrEmptyCategory)
		}
		for i, child := range n.items {
			if err := checkNode(child); err != nil {
				return fmt.Errorf("category %q: item %d: %w", n.label, i, err)
			}
		}
	case *DocRef:
		if n == nil {
			return ErrNilNode
		}
		if strings.TrimSpace(n.id) == "" {
			return ErrEmptyID
		}
		if strings.TrimSpace(n.label) == "" {
			return fmt.Errorf("doc %q: %w", n.id, ErrEmptyLabel)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownType, n)
	}
	return nil
}

// Sidebar is a named, ordered root sequence of nodes.
type Sidebar struct {
	name  string
	items []Node
}

// NewSidebar returns a sidebar owning deep copies of items.
func NewSidebar(name string, items ...Node) (*Sidebar, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("sidebar name: %w", ErrEmptyLabel)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("sidebar %q: %w", name, ErrEmptySidebar)
	}
	owned, err := cloneItems(items)
	if err != nil {
		return nil, fmt.Errorf("sidebar %q: %w", name, err)
	}
	return &Sidebar{name: name, items: owned}, nil
}

func (s *Sidebar) Name() string { return s.name }
func (s *Sidebar) Items() []Node { return append([]Node(nil), s.items...) }

// DocIDs returns every doc id in the sidebar in display order.
func (s *Sidebar) DocIDs() []string {
	var ids []string
	_ = Walk(s.items, func(_ Path, n Node) error {
		if d, ok := n.(*DocRef); ok {
			ids = append(ids, d.id)
		}
		return nil
	})
	return ids
}

// Sidebars maps sidebar names to their root sequences, keeping definition order.
type Sidebars struct {
	order  []string
	byName map[string]*Sidebar
}

// New builds the sidebar mapping. At least one sidebar is required and names
// must be unique.
func New(sidebars ...*Sidebar) (*Sidebars, error) {
	if len(sidebars) == 0 {
		return nil, ErrNoSidebars
	}
	s := &Sidebars{byName: make(map[string]*Sidebar, len(sidebars))}
	for i, sb := range sidebars {
		if sb == nil {
			return nil, fmt.Errorf("sidebar %d: %w", i, ErrNilNode)
		}
		if strings.TrimSpace(sb.name) == "" {
			return nil, fmt.Errorf("sidebar %d name: %w", i, ErrEmptyLabel)
		}
		if len(sb.items) == 0 {
			return nil, fmt.Errorf("sidebar %q: %w", sb.name, ErrEmptySidebar)
		}
		if _, dup := s.byName[sb.name]; dup {
			return nil, fmt.Errorf("duplicate sidebar %q", sb.name)
		}
		s.order = append(s.order, sb.name)
		s.byName[sb.name] = sb
	}
	return s, nil
}

// Names returns the sidebar names in definition order.
func (s *Sidebars) Names() []string { return append([]string(nil), s.order...) }

// Get returns the named sidebar.
func (s *Sidebars) Get(name string) (*Sidebar, bool) {
	sb, ok := s.byName[name]
	return sb, ok
}

// First returns the first defined sidebar.
func (s *Sidebars) First() *Sidebar {
	if len(s.order) == 0 {
		return nil
	}
	return s.byName[s.order[0]]
}

// Len reports the number of sidebars.
func (s *Sidebars) Len() int { return len(s.order) }

// DocIDs returns every doc id across all sidebars in traversal order.
func (s *Sidebars) DocIDs() []string {
	var ids []string
	for _, name := range s.order {
		ids = append(ids, s.byName[name].DocIDs()...)
	}
	return ids
}

// Duplicates returns doc ids referenced more than once, in first-seen order.
// Repeats are legal; callers decide whether to warn.
func (s *Sidebars) Duplicates() []string {
	seen := make(map[string]int)
	var dups []string
	for _, id := range s.DocIDs() {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}
