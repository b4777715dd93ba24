// Package svgdoc is a small structural model of an SVG document.
//
// Icons arrive as raw markup. Rewriting that markup with string
// substitution breaks on repeated or nested attributes, so every
// customization goes through a parsed tree instead:
//
//	parse -> mutate attributes / inline style -> serialize
//
// The model keeps exactly what an icon needs to round-trip: elements with
// their attributes in source order (namespace prefixes preserved as
// written), text and comments. The XML prolog, DOCTYPE and processing
// instructions are dropped; the serialized output always starts at the
// root <svg> element.
//
// Serialization is deterministic. The same tree always produces the same
// bytes, in either of the two layouts:
//   - Compact: a single line, whitespace-only text dropped, runs of
//     whitespace collapsed. Used for inline previews.
//   - Formatted: one element per line, two-space indentation. Used for
//     exported documents.
package svgdoc
