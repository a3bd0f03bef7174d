package typeset

import "errors"

// Sentinel errors for the typeset package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("typeset: empty font data")

	// ErrInvalidSize is returned when a text model is requested at a
	// non-positive or non-finite size.
	ErrInvalidSize = errors.New("typeset: size must be a positive number")
)
