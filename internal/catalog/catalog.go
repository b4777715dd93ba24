package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// ID is an icon's opaque identifier. The zero value means "no id".
type ID string

// UnmarshalJSON accepts a JSON string, a number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Record is one catalog entry.
type Record struct {
	Name string `json:"name"`
	ID   ID     `json:"id,omitempty"`
}

// document is the wire shape of the catalog.
type document struct {
	Total  int      `json:"total"`
	Images []Record `json:"images"`
}

// validName matches URL-safe icon tokens: they are used verbatim in asset
// paths and file names.
var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidName reports whether name is a usable icon token.
func ValidName(name string) bool {
	return validName.MatchString(name) && !strings.Contains(name, "..")
}

// Catalog is the immutable set of icon records, in document order.
// All methods are safe for concurrent use.
type Catalog struct {
	records []Record
	index   map[string]int
	total   int
}

// New builds a catalog from records. Invalid and duplicate names are
// dropped; the first occurrence of a name wins.
func New(records []Record) *Catalog {
	c := &Catalog{
		records: make([]Record, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if !ValidName(r.Name) {
			slog.Warn("skipping catalog record with invalid name", "name", r.Name, "id", string(r.ID))
			continue
		}
		if _, dup := c.index[r.Name]; dup {
			slog.Warn("skipping duplicate catalog record", "name", r.Name, "id", string(r.ID))
			continue
		}
		c.index[r.Name] = len(c.records)
		c.records = append(c.records, r)
	}
	c.total = len(c.records)
	return c
}

// Decode reads a catalog document. Errors wrap ErrCatalogUnavailable.
func Decode(r io.Reader) (*Catalog, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCatalogUnavailable, err)
	}
	if doc.Images == nil {
		return nil, fmt.Errorf("%w: document has no images list", ErrCatalogUnavailable)
	}
	c := New(doc.Images)
	if doc.Total > 0 {
		c.total = doc.Total
	}
	return c, nil
}

// Len returns the number of usable records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Total returns the total advertised by the document, or Len when the
// document did not advertise one.
func (c *Catalog) Total() int {
	return c.total
}

// Records returns a copy of all records in document order.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Lookup returns the record for name.
func (c *Catalog) Lookup(name string) (Record, bool) {
	i, ok := c.index[name]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Has reports whether name is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}
