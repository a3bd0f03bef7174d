// Package typeset turns a string into positioned glyph outlines.
//
// The pipeline follows the same split as a text renderer:
//
//   - Font: parsed outline resource (TTF/OTF), shared and read-only
//   - Shaper: HarfBuzz shaping via go-text/typesetting, with kerning
//     switchable per call
//   - Model: the positioned glyph outlines for one string at one size
//
// Glyph outlines come from golang.org/x/image/font/sfnt and use SVG
// orientation: the baseline is y=0 and the Y axis points down.
package typeset
