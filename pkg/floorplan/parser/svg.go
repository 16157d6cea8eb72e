// Package parser provides SVG and spreadsheet parsing utilities.
package parser

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is a read-only element of a parsed SVG document.
type Node struct {
	// Name is the local element name (namespace stripped).
	Name string
	// Transform is the raw transform attribute, empty if absent.
	Transform string
	// X and Y are the raw coordinate attributes, empty if absent.
	X string
	Y string
	// Text is the character data preceding the first child element.
	Text string
	// Children are the child elements in document order.
	Children []*Node
}

// ErrNoRoot is returned for a document without any element.
var ErrNoRoot = errors.New("document has no root element")

// entityDecl matches internal DTD entity declarations such as the
// <!ENTITY ns_svg "http://www.w3.org/2000/svg"> lines written by Illustrator.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_][\w.-]*)\s+"([^"]*)"\s*>`)

// ParseSVG reads an SVG document into an element tree.
func ParseSVG(r io.Reader) (*Node, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Entity = make(map[string]string)

	var root *Node
	var stack []*Node

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			for _, attr := range t.Attr {
				if attr.Name.Space != "" {
					continue
				}
				switch attr.Name.Local {
				case "transform":
					n.Transform = attr.Value
				case "x":
					n.X = attr.Value
				case "y":
					n.Y = attr.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if len(top.Children) == 0 {
				top.Text += string(t)
			}
		case xml.Directive:
			for _, m := range entityDecl.FindAllStringSubmatch(string(t), -1) {
				decoder.Entity[m[1]] = m[2]
			}
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// TextContent returns the trimmed text of n followed by the trimmed text of
// every descendant, in document order. Text following a child element is not
// included, and nested tspan positioning is ignored.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	sb.WriteString(strings.TrimSpace(n.Text))
	for _, c := range n.Children {
		c.appendText(sb)
	}
}

// FirstCoordinate returns the first value of a space- or comma-separated
// coordinate list, converted to user units. Absent or unparsable values
// yield 0.
func FirstCoordinate(attr string) float64 {
	fields := strings.Fields(strings.ReplaceAll(attr, ",", " "))
	if len(fields) == 0 {
		return 0
	}
	v, ok := ParseLength(fields[0])
	if !ok {
		return 0
	}
	return v
}
