// Package bulkdata decodes government bulk-data XML into an
// order-preserving nested mapping/list tree. The decode is structural
// only: element attributes are ignored (the bulk schema carries its data
// in elements) and no validation happens beyond well-formedness.
package bulkdata

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Parse decodes an XML document into a mapping tree rooted at a map with
// one key, the document element's name.
//
// Elements whose names appear in forceList always decode as lists, even
// when a single occurrence is present; other repeated sibling elements
// collapse into lists on the second occurrence. This mirrors the shape
// downstream assemblers were written against.
func Parse(r io.Reader, forceList ...string) (*Node, error) {
	forced := make(map[string]bool, len(forceList))
	for _, name := range forceList {
		forced[name] = true
	}

	decoder := xml.NewDecoder(r)
	root := NewMap()

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode bulk data: %w", err)
		}
		if start, ok := token.(xml.StartElement); ok {
			child, err := parseElement(decoder, start, forced)
			if err != nil {
				return nil, err
			}
			insertChild(root, start.Name.Local, child, forced)
		}
	}

	if len(root.Keys()) == 0 {
		return nil, fmt.Errorf("failed to decode bulk data: no document element")
	}
	return root, nil
}

// parseElement consumes everything up to the matching end element and
// returns either a scalar (text-only element) or a mapping.
func parseElement(decoder *xml.Decoder, start xml.StartElement, forced map[string]bool) (*Node, error) {
	node := NewMap()
	var text strings.Builder

	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode element %s: %w", start.Name.Local, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			child, err := parseElement(decoder, t, forced)
			if err != nil {
				return nil, err
			}
			insertChild(node, t.Name.Local, child, forced)

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			if len(node.Keys()) > 0 {
				return node, nil
			}
			return NewScalar(strings.TrimSpace(text.String())), nil
		}
	}
}

// insertChild places a decoded child under its element name, wrapping
// into a list for forced names and for repeated siblings.
func insertChild(parent *Node, name string, child *Node, forced map[string]bool) {
	existing := parent.Get(name)
	switch {
	case existing == nil:
		if forced[name] {
			parent.Set(name, NewList(child))
		} else {
			parent.Set(name, child)
		}
	case existing.Kind() == KindList:
		existing.Append(child)
	default:
		parent.Set(name, NewList(existing, child))
	}
}
