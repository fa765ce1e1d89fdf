package navtree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// declNode is one entry of the declarative form:
//
//	- type: category
//	  label: Getting Started
//	  items:
//	    - type: doc
//	      id: getting-started/intro
//	      label: About QA Flag
type declNode struct {
	Type  string    `yaml:"type"`
	ID    string    `yaml:"id,omitempty"`
	Label string    `yaml:"label"`
	Items yaml.Node `yaml:"items,omitempty"`
}

type outNode struct {
	Type  Kind      `yaml:"type" json:"type"`
	ID    string    `yaml:"id,omitempty" json:"id,omitempty"`
	Label string    `yaml:"label" json:"label"`
	Items []outNode `yaml:"items,omitempty" json:"items,omitempty"`
}

// Load reads a sidebar definition file (YAML or JSON).
func Load(path string) (*Sidebars, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sidebars: %w", err)
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode parses the declarative form: a mapping of sidebar name to a list of
// nodes. JSON input is accepted as well. Sidebar and item order are kept.
func Decode(r io.Reader) (*Sidebars, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty sidebar definition")
		}
		return nil, fmt.Errorf("parse sidebars: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: sidebars must be a mapping of name to items", root.Line)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("no sidebars defined")
	}

	var sidebars []*Sidebar
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		name := key.Value
		items, err := decodeItems(val, nil)
		if err != nil {
			return nil, fmt.Errorf("sidebar %q: %w", name, err)
		}
		sb, err := NewSidebar(name, items...)
		if err != nil {
			return nil, err
		}
		sidebars = append(sidebars, sb)
	}
	return New(sidebars...)
}

func decodeItems(seq *yaml.Node, parent Path) ([]Node, error) {
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: items must be a list", seq.Line)
	}
	nodes := make([]Node, 0, len(seq.Content))
	for i, item := range seq.Content {
		var d declNode
		if err := item.Decode(&d); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		path := append(parent[:len(parent):len(parent)], Step{Index: i, Label: d.Label})
		n, err := d.build(path)
		if err != nil {
			return nil, fmt.Errorf("%s (line %d): %w", path, item.Line, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (d declNode) build(path Path) (Node, error) {
	switch Kind(d.Type) {
	case KindDoc:
		if d.Items.Kind != 0 {
			return nil, errors.New("doc entries cannot have items")
		}
		return NewDoc(d.ID, d.Label)
	case KindCategory:
		if d.Items.Kind == 0 {
			return nil, ErrEmptyCategory
		}
		children, err := decodeItems(&d.Items, path)
		if err != nil {
			return nil, err
		}
		return NewCategory(d.Label, children...)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, d.Type)
	}
}

func toOut(nodes []Node) []outNode {
	out := make([]outNode, len(nodes))
	for i, n := range nodes {
		switch v := n.(type) {
		case *DocRef:
			out[i] = outNode{Type: KindDoc, ID: v.id, Label: v.label}
		case *Category:
			out[i] = outNode{Type: KindCategory, Label: v.label, Items: toOut(v.items)}
		}
	}
	return out
}

// Encode writes the declarative YAML form accepted by Decode.
func (s *Sidebars) Encode(w io.Writer) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range s.order {
		var val yaml.Node
		if err := val.Encode(toOut(s.byName[name].items)); err != nil {
			return fmt.Errorf("encode sidebar %q: %w", name, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&val,
		)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode sidebars: %w", err)
	}
	return enc.Close()
}

// MarshalJSON writes the sidebars as a JSON object in definition order.
func (s *Sidebars) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(toOut(s.byName[name].items))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the sidebar's items as a JSON array.
func (s *Sidebar) MarshalJSON() ([]byte, error) {
	return json.Marshal(toOut(s.items))
}
