// Package transform renders an icon source under a customization.
//
// Render is a pure function of (source, config, mode). It always starts
// from the original source, never from a previous output, so repeated
// renders cannot accumulate state. The steps run in a fixed order:
//
//  1. parse the source into a document tree
//  2. set width and height from the size
//  3. set the rotation as a style transform, wrapped to (-360, 360)
//  4. set the fill (attribute and style)
//  5. set stroke and stroke-width, or suppress stroke when the width is 0
//  6. drop every injected animation and, when enabled, inject exactly one
//  7. serialize compact or formatted, with an optional provenance comment
//
// Overrides apply at the document root. Child elements that set their own
// fill or stroke keep them.
package transform
