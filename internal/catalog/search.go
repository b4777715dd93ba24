package catalog

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultTagLimit is the number of tags the gallery shows.
const DefaultTagLimit = 20

// stopWords never become tags: they describe a variant, not a subject.
var stopWords = map[string]bool{
	"icon":    true,
	"outline": true,
	"filled":  true,
	"solid":   true,
	"sharp":   true,
}

// Query selects records. Empty fields match everything.
type Query struct {
	// Text matches case-insensitively against the name or the id.
	Text string
	// Tag matches names containing the tag token.
	Tag string
}

// Tag is a frequent name component.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// fold normalizes s for case-insensitive comparison. A Caser is stateful,
// so each caller passes its own.
func fold(c cases.Caser, s string) string {
	return c.String(norm.NFC.String(s))
}

// Filter returns the records matching q, in catalog order.
func (c *Catalog) Filter(q Query) []Record {
	caser := cases.Fold()
	text := fold(caser, strings.TrimSpace(q.Text))
	tag := q.Tag

	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		if tag != "" && !strings.Contains(r.Name, tag) {
			continue
		}
		if text != "" && !strings.Contains(fold(caser, r.Name), text) && !strings.Contains(fold(caser, string(r.ID)), text) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Tags derives the most frequent name components. Names are split on "-";
// parts of three or more letters without digits that are not stop words are
// counted. Ties are broken alphabetically so the result is stable.
// limit <= 0 means DefaultTagLimit.
func (c *Catalog) Tags(limit int) []Tag {
	if limit <= 0 {
		limit = DefaultTagLimit
	}
	counts := make(map[string]int)
	for _, r := range c.records {
		for _, part := range strings.Split(r.Name, "-") {
			if utf8.RuneCountInString(part) <= 2 || stopWords[part] || hasDigit(part) {
				continue
			}
			counts[part]++
		}
	}

	tags := make([]Tag, 0, len(counts))
	for name, n := range counts {
		tags = append(tags, Tag{Name: name, Count: n})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Name < tags[j].Name
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Page returns records[offset:offset+n], clamped to the slice bounds.
func Page(records []Record, offset, n int) []Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) || n <= 0 {
		return nil
	}
	if n > len(records)-offset {
		n = len(records) - offset
	}
	return records[offset : offset+n]
}
