package manifest

import (
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/wippyai/etwgen/errors"
)

// Manifest is the typed view of an instrumentation manifest.
type Manifest struct {
	Root      *Node
	Providers []*Provider
}

// Provider owns a set of templates and the events that use them.
type Provider struct {
	Node      *Node
	Name      string
	Symbol    string
	GUID      uuid.UUID
	Templates []*TemplateNode
	Events    []*Event
}

// Event is one event declaration. Template is empty for events that carry no
// payload.
type Event struct {
	Node     *Node
	Symbol   string
	Template string
	Task     string
	Version  string
	Value    int
}

// TemplateNode is an unresolved template declaration.
type TemplateNode struct {
	Node    *Node
	ID      string
	Data    []*DataNode
	Structs []*StructNode
}

// DataNode is one <data> field declaration.
type DataNode struct {
	Node *Node
}

func (d *DataNode) Name() string   { return d.Node.Attr("name") }
func (d *DataNode) InType() string { return d.Node.Attr("inType") }
func (d *DataNode) Count() string  { return d.Node.Attr("count") }
func (d *DataNode) Length() string { return d.Node.Attr("length") }

// Attrs returns the declared attributes in document order.
func (d *DataNode) Attrs() []Attr { return d.Node.Attrs }

// StructNode is one <struct> declaration inside a template. Fields holds every
// nested <data> element.
type StructNode struct {
	Node   *Node
	Name   string
	Count  string
	Fields []*DataNode
}

// HasCount reports whether the count attribute is present at all.
func (s *StructNode) HasCount() bool {
	_, ok := s.Node.Lookup("count")
	return ok
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseParse, path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a manifest document.
func Decode(r io.Reader) (*Manifest, error) {
	root, err := ParseTree(r)
	if err != nil {
		return nil, err
	}
	return FromTree(root)
}

// FromTree builds the typed view over an already parsed element tree.
// Templates and events are collected from anywhere below their provider;
// data fields of a template are its direct children only.
func FromTree(root *Node) (*Manifest, error) {
	m := &Manifest{Root: root}

	providers := root.Descendants("provider")
	if root.Name == "provider" {
		providers = append([]*Node{root}, providers...)
	}

	for _, pn := range providers {
		p, err := decodeProvider(pn)
		if err != nil {
			return nil, err
		}
		m.Providers = append(m.Providers, p)
	}
	return m, nil
}

func decodeProvider(n *Node) (*Provider, error) {
	p := &Provider{
		Node:   n,
		Name:   n.Attr("name"),
		Symbol: n.Attr("symbol"),
	}

	if raw, ok := n.Lookup("guid"); ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
				Path(errors.ProviderPath(p.Name)...).
				Detail("malformed guid %q", raw).
				Value(raw).
				Cause(err).
				Build()
		}
		p.GUID = id
	}

	for _, tn := range n.Descendants("template") {
		p.Templates = append(p.Templates, decodeTemplate(tn))
	}

	for _, en := range n.Descendants("event") {
		ev, err := decodeEvent(p.Name, en)
		if err != nil {
			return nil, err
		}
		p.Events = append(p.Events, ev)
	}
	return p, nil
}

func decodeTemplate(n *Node) *TemplateNode {
	t := &TemplateNode{Node: n, ID: n.Attr("tid")}
	for _, dn := range n.Elements("data") {
		t.Data = append(t.Data, &DataNode{Node: dn})
	}
	for _, sn := range n.Elements("struct") {
		s := &StructNode{
			Node:  sn,
			Name:  sn.Attr("name"),
			Count: sn.Attr("count"),
		}
		for _, fn := range sn.Descendants("data") {
			s.Fields = append(s.Fields, &DataNode{Node: fn})
		}
		t.Structs = append(t.Structs, s)
	}
	return t
}

func decodeEvent(provider string, n *Node) (*Event, error) {
	ev := &Event{
		Node:     n,
		Symbol:   n.Attr("symbol"),
		Template: n.Attr("template"),
		Task:     n.Attr("task"),
		Version:  n.Attr("version"),
	}

	raw := n.Attr("value")
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Path(errors.EventPath(provider, ev.Symbol)...).
			Detail("event value %q is not a number", raw).
			Value(raw).
			Build()
	}
	ev.Value = v
	return ev, nil
}

// Template returns the template declaration with the given id.
func (p *Provider) Template(tid string) (*TemplateNode, bool) {
	for _, t := range p.Templates {
		if t.ID == tid {
			return t, true
		}
	}
	return nil, false
}
