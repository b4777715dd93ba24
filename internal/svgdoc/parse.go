package svgdoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Parse builds a Document from raw SVG source.
//
// The root element must be <svg> (any prefix). Errors wrap ErrMalformed.
func Parse(src []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(src))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = true

	var (
		root  *Element
		stack []*Element
	)
	line := func() int {
		l, _ := dec.InputPos()
		return l
	}

	for {
		// RawToken keeps namespace prefixes as written, so the tree
		// serializes back to the same qualified names. Tag balance is
		// checked below because RawToken does not do it.
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var syn *xml.SyntaxError
			if errors.As(err, &syn) {
				return nil, &ParseError{Line: syn.Line, Reason: syn.Msg}
			}
			return nil, &ParseError{Line: line(), Reason: "read token", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: Name{Space: t.Name.Space, Local: t.Name.Local}}
			if len(t.Attr) > 0 {
				el.Attrs = make([]Attr, len(t.Attr))
				for i, a := range t.Attr {
					el.Attrs[i] = Attr{Name: Name{Space: a.Name.Space, Local: a.Name.Local}, Value: a.Value}
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Line: line(), Reason: "multiple root elements"}
				}
				root = el
			} else {
				stack[len(stack)-1].Append(el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &ParseError{Line: line(), Reason: "unexpected end element </" + qualified(t.Name) + ">"}
			}
			top := stack[len(stack)-1]
			if top.Name.Space != t.Name.Space || top.Name.Local != t.Name.Local {
				return nil, &ParseError{
					Line:   line(),
					Reason: "element <" + top.Name.String() + "> closed by </" + qualified(t.Name) + ">",
				}
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, &ParseError{Line: line(), Reason: "text outside root element"}
				}
				continue
			}
			stack[len(stack)-1].Append(Text(string(t)))

		case xml.Comment:
			if len(stack) > 0 {
				stack[len(stack)-1].Append(Comment(string(t)))
			}

		case xml.ProcInst, xml.Directive:
			// Prolog and doctype are not part of the output.
		}
	}

	if len(stack) > 0 {
		return nil, &ParseError{Line: line(), Reason: "unclosed element <" + stack[len(stack)-1].Name.String() + ">"}
	}
	if root == nil {
		return nil, &ParseError{Reason: "no root element"}
	}
	if !strings.EqualFold(root.Name.Local, "svg") {
		return nil, &ParseError{Reason: "root element is <" + root.Name.String() + ">, want <svg>"}
	}
	return &Document{Root: root}, nil
}

// ParseString is Parse for string input.
func ParseString(src string) (*Document, error) {
	return Parse([]byte(src))
}

func qualified(n xml.Name) string {
	return Name{Space: n.Space, Local: n.Local}.String()
}
