package broxml

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Attr is an attribute set on a created element
type Attr struct {
	Key   string
	Value string
}

// CodeSpace is the codeSpace attribute naming the BRO code list of a value
func CodeSpace(cs string) Attr { return Attr{Key: "codeSpace", Value: cs} }

// UOM is the unit-of-measure attribute
func UOM(unit string) Attr { return Attr{Key: "uom", Value: unit} }

// Href is an xlink:href attribute
func Href(href string) Attr { return Attr{Key: "xlink:href", Value: href} }

// ID is a gml:id attribute written with the given gml prefix
func ID(prefix, id string) Attr { return Attr{Key: prefix + ":id", Value: id} }

// Nil marks an element as xsi:nil
func Nil() Attr { return Attr{Key: "xsi:nil", Value: "true"} }

// Add appends a child named tag to parent. Text is only set when non-empty.
func Add(parent *etree.Element, tag, text string, attrs ...Attr) *etree.Element {
	el := parent.CreateElement(tag)
	for _, a := range attrs {
		el.CreateAttr(a.Key, a.Value)
	}
	if text != "" {
		el.SetText(text)
	}
	return el
}

// AddIf appends the child only when text is non-empty
func AddIf(parent *etree.Element, tag, text string, attrs ...Attr) *etree.Element {
	if text == "" {
		return nil
	}
	return Add(parent, tag, text, attrs...)
}

// NewUUIDID returns prefix followed by a random uuid, e.g. "id-<uuid>" or "_<uuid>"
func NewUUIDID(prefix string) string {
	return prefix + uuid.NewString()
}

// IDSequence hands out sequential gml:ids of the form id_0001
type IDSequence struct {
	next int
}

// NewIDSequence returns a sequence whose first id is start
func NewIDSequence(start int) *IDSequence {
	return &IDSequence{next: start}
}

// Next returns the next id
func (s *IDSequence) Next() string {
	id := fmt.Sprintf("id_%04d", s.next)
	s.next++
	return id
}
