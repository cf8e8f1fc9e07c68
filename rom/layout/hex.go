package layout

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Hex is an integer that accepts decimal, 0x, 0o and 0b forms and
// marshals as hex.
type Hex int

func (h *Hex) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected integer, got %s", n.Line, kindName(n.Kind))
	}
	v, err := strconv.ParseInt(n.Value, 0, 64)
	if err != nil {
		return fmt.Errorf("line %d: %q: %w", n.Line, n.Value, err)
	}
	*h = Hex(v)
	return nil
}

func (h Hex) MarshalYAML() (any, error) {
	return h.node(), nil
}

func (h Hex) node() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%#x", int(h))}
}

// Span is an inclusive [start, end] pair.
type Span struct {
	Start Hex
	End   Hex
}

func (s *Span) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return fmt.Errorf("line %d: range must be [start, end]", n.Line)
	}
	if err := n.Content[0].Decode(&s.Start); err != nil {
		return err
	}
	return n.Content[1].Decode(&s.End)
}

func (s Span) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	node.Content = append(node.Content, s.Start.node(), s.End.node())
	return node, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
