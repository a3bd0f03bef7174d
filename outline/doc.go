// Package outline provides the path geometry used for glyph outlines:
// a path model with move/line/quad/cubic/close elements, tight bounds,
// flattening to polylines within a tolerance, non-zero winding tests and
// an outline union that removes the parts of each outline lying inside
// the others.
//
// Coordinates follow SVG conventions: the Y axis increases downward.
package outline
