package svgdoc

// Node is an element, a run of text or a comment.
type Node interface {
	node()
}

// Name is a qualified XML name as written in the source.
// Space holds the prefix ("xlink"), not the namespace URI.
type Name struct {
	Space string
	Local string
}

func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Attr is one attribute of an element.
type Attr struct {
	Name  Name
	Value string
}

// Element is an XML element with ordered attributes and children.
type Element struct {
	Name     Name
	Attrs    []Attr
	Children []Node
}

// Text is character data. Entities are already decoded.
type Text string

// Comment is the body of an XML comment, without the delimiters.
type Comment string

func (*Element) node() {}
func (Text) node()     {}
func (Comment) node()  {}

// Document is a parsed SVG document.
type Document struct {
	Root *Element
}

// NewElement creates an element with an unprefixed name.
func NewElement(local string) *Element {
	return &Element{Name: Name{Local: local}}
}

// Attr returns the value of the unprefixed attribute local.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an unprefixed attribute. An existing attribute keeps its
// position; a new one is appended. Duplicates of the same name are removed.
func (e *Element) SetAttr(local, value string) {
	found := false
	out := e.Attrs[:0]
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			if found {
				continue
			}
			found = true
			a.Value = value
		}
		out = append(out, a)
	}
	e.Attrs = out
	if !found {
		e.Attrs = append(e.Attrs, Attr{Name: Name{Local: local}, Value: value})
	}
}

// RemoveAttr deletes every unprefixed attribute named local.
// It reports whether anything was removed.
func (e *Element) RemoveAttr(local string) bool {
	removed := false
	out := e.Attrs[:0]
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			removed = true
			continue
		}
		out = append(out, a)
	}
	e.Attrs = out
	return removed
}

// Style parses the element's inline style attribute.
func (e *Element) Style() *Style {
	v, _ := e.Attr("style")
	return ParseStyle(v)
}

// SetStyle writes s back to the style attribute, removing the attribute
// when s has no declarations.
func (e *Element) SetStyle(s *Style) {
	if s == nil || s.Len() == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", s.String())
}

// Prepend inserts child as the first child of e.
func (e *Element) Prepend(child Node) {
	e.Children = append([]Node{child}, e.Children...)
}

// Append adds child after the existing children of e.
func (e *Element) Append(child Node) {
	e.Children = append(e.Children, child)
}

// RemoveElements removes every descendant element matching pred, at any
// depth, and returns how many were removed. e itself is never removed.
func (e *Element) RemoveElements(pred func(*Element) bool) int {
	removed := 0
	out := e.Children[:0]
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			if pred(el) {
				removed++
				continue
			}
			removed += el.RemoveElements(pred)
		}
		out = append(out, c)
	}
	// Clear the tail so removed nodes can be collected.
	for i := len(out); i < len(e.Children); i++ {
		e.Children[i] = nil
	}
	e.Children = out
	return removed
}
