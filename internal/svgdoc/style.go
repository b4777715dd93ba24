package svgdoc

import "strings"

// Declaration is one property of an inline style.
type Declaration struct {
	Property string
	Value    string
}

// Style is an ordered list of inline style declarations.
// Property names are stored lower-cased; values are kept verbatim.
type Style struct {
	decls []Declaration
}

// ParseStyle parses the value of a style attribute. Declarations without a
// colon or with an empty property are dropped; a repeated property keeps
// its last value at the position of its first occurrence.
func ParseStyle(s string) *Style {
	st := &Style{}
	for _, part := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" {
			continue
		}
		st.Set(prop, val)
	}
	return st
}

// Get returns the value of prop.
func (s *Style) Get(prop string) (string, bool) {
	prop = strings.ToLower(prop)
	for _, d := range s.decls {
		if d.Property == prop {
			return d.Value, true
		}
	}
	return "", false
}

// Set replaces the value of prop in place or appends it.
func (s *Style) Set(prop, value string) {
	prop = strings.ToLower(prop)
	for i := range s.decls {
		if s.decls[i].Property == prop {
			s.decls[i].Value = value
			return
		}
	}
	s.decls = append(s.decls, Declaration{Property: prop, Value: value})
}

// Remove deletes prop and reports whether it was present.
func (s *Style) Remove(prop string) bool {
	prop = strings.ToLower(prop)
	for i := range s.decls {
		if s.decls[i].Property == prop {
			s.decls = append(s.decls[:i], s.decls[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of declarations.
func (s *Style) Len() int {
	return len(s.decls)
}

// String serializes the style as "prop:value;prop:value".
func (s *Style) String() string {
	var b strings.Builder
	for i, d := range s.decls {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(d.Property)
		b.WriteByte(':')
		b.WriteString(d.Value)
	}
	return b.String()
}
