package svgdoc

import (
	"strings"
)

// Compact serializes the document on a single line.
func (d *Document) Compact() string {
	var b strings.Builder
	writeCompact(&b, d.Root)
	return b.String()
}

// Formatted serializes the document with one element per line and
// two-space indentation. There is no trailing newline.
func (d *Document) Formatted() string {
	var b strings.Builder
	writeFormatted(&b, d.Root, 0)
	return strings.TrimRight(b.String(), "\n")
}

func writeCompact(b *strings.Builder, e *Element) {
	writeStartTag(b, e)
	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		switch n := c.(type) {
		case *Element:
			writeCompact(b, n)
		case Text:
			if isBlank(string(n)) {
				continue
			}
			b.WriteString(escapeText(collapseSpace(string(n))))
		case Comment:
			writeComment(b, collapseSpace(string(n)))
		}
	}
	writeEndTag(b, e)
}

func writeFormatted(b *strings.Builder, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	writeStartTag(b, e)

	children := significant(e.Children)
	if len(children) == 0 {
		b.WriteString("/>\n")
		return
	}
	if text, ok := textOnly(children); ok {
		b.WriteByte('>')
		b.WriteString(escapeText(strings.TrimSpace(collapseSpace(text))))
		writeEndTag(b, e)
		b.WriteByte('\n')
		return
	}

	b.WriteString(">\n")
	for _, c := range children {
		switch n := c.(type) {
		case *Element:
			writeFormatted(b, n, depth+1)
		case Text:
			b.WriteString(indent + "  ")
			b.WriteString(escapeText(strings.TrimSpace(collapseSpace(string(n)))))
			b.WriteByte('\n')
		case Comment:
			b.WriteString(indent + "  ")
			writeComment(b, collapseSpace(string(n)))
			b.WriteByte('\n')
		}
	}
	b.WriteString(indent)
	writeEndTag(b, e)
	b.WriteByte('\n')
}

func writeStartTag(b *strings.Builder, e *Element) {
	b.WriteByte('<')
	b.WriteString(e.Name.String())
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name.String())
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Value))
		b.WriteByte('"')
	}
}

func writeEndTag(b *strings.Builder, e *Element) {
	b.WriteString("</")
	b.WriteString(e.Name.String())
	b.WriteByte('>')
}

func writeComment(b *strings.Builder, body string) {
	b.WriteString("<!--")
	b.WriteString(SanitizeComment(body))
	b.WriteString("-->")
}

// SanitizeComment makes body safe to place between comment delimiters.
func SanitizeComment(body string) string {
	for strings.Contains(body, "--") {
		body = strings.ReplaceAll(body, "--", "-")
	}
	return strings.TrimSuffix(body, "-")
}

// significant drops whitespace-only text nodes.
func significant(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if t, ok := n.(Text); ok && isBlank(string(t)) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func textOnly(nodes []Node) (string, bool) {
	var b strings.Builder
	for _, n := range nodes {
		t, ok := n.(Text)
		if !ok {
			return "", false
		}
		b.WriteString(string(t))
	}
	return b.String(), true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// collapseSpace replaces every run of whitespace with a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

func escapeText(s string) string { return textEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
