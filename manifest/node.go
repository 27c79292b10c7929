package manifest

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/wippyai/etwgen/errors"
)

// Attr is one element attribute, keyed by its local name.
type Attr struct {
	Name  string
	Value string
}

// Node is an element of the manifest tree. Text content is discarded; the
// generator consumes attributes and element structure only.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Line     int
}

// Lookup returns the value of the named attribute.
func (n *Node) Lookup(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	v, _ := n.Lookup(name)
	return v
}

// Elements returns the direct children with the given tag, in document order.
func (n *Node) Elements(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == tag {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every element below n with the given tag, in document
// order. n itself is not included.
func (n *Node) Descendants(tag string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if c.Name == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// ParseTree reads an XML document into a Node tree and returns its root element.
// Input with a byte order mark, or UTF-16 input starting with '<', is
// transcoded to UTF-8 first. A UTF-16 encoding declaration on any other input
// is rejected.
func ParseTree(r io.Reader) (*Node, error) {
	src, wide := decodeInput(r)

	var charsetErr error
	dec := xml.NewDecoder(src)
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		in, err := charsetReader(label, input, wide)
		if err != nil {
			charsetErr = err
		}
		return in, err
	}

	var (
		root  *Node
		stack []*Node
	)

	for {
		line, _ := dec.InputPos()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if charsetErr != nil {
				return nil, charsetErr
			}
			return nil, errors.ParseFailed("manifest xml", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Line: line}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, errors.InvalidData(errors.PhaseParse, nil, "manifest has no root element")
	}
	return root, nil
}

// decodeInput returns r as UTF-8 and reports whether it was UTF-16 on the wire.
func decodeInput(r io.Reader) (io.Reader, bool) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(3)

	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		return transform.NewReader(br, unicode.BOMOverride(unicode.UTF8.NewDecoder())), false
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}), bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return transform.NewReader(br, unicode.BOMOverride(unicode.UTF8.NewDecoder())), true
	case bytes.HasPrefix(head, []byte{'<', 0}):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()), true
	case bytes.HasPrefix(head, []byte{0, '<'}):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()), true
	default:
		return br, false
	}
}

// charsetReader accepts the declared encodings decodeInput already turned
// into UTF-8. wide reports whether the input really was UTF-16.
func charsetReader(label string, input io.Reader, wide bool) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8":
		return input, nil
	case "utf-16", "utf16", "unicode":
		if !wide {
			return nil, errors.InvalidData(errors.PhaseParse, nil,
				fmt.Sprintf("manifest declares encoding %q but is not UTF-16 encoded", label))
		}
		return input, nil
	default:
		return nil, errors.InvalidData(errors.PhaseParse, nil,
			fmt.Sprintf("unsupported manifest encoding %q", label))
	}
}
