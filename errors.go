package glyphsvg

import (
	"errors"
	"strconv"
)

// Sentinel errors shared by the glyphsvg packages.
var (
	// ErrSuperseded is returned by a render whose result was discarded
	// because a newer render request was issued while it was in flight.
	ErrSuperseded = errors.New("glyphsvg: render superseded by a newer request")

	// ErrNoCatalog is returned when an operation needs the font catalog
	// before it has been loaded.
	ErrNoCatalog = errors.New("glyphsvg: font catalog not loaded")

	// ErrUnknownFamily is returned when a family index or name does not
	// exist in the catalog.
	ErrUnknownFamily = errors.New("glyphsvg: unknown font family")

	// ErrUnknownVariant is returned when a variant is not offered by the
	// selected family or has no outline file.
	ErrUnknownVariant = errors.New("glyphsvg: unknown font variant")
)

// CatalogFetchError is returned when the font catalog cannot be loaded
// at startup (network failure, non-200 status, malformed response).
type CatalogFetchError struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	Err    error
}

func (e *CatalogFetchError) Error() string {
	msg := "glyphsvg: font catalog unavailable"
	if e.Status != 0 {
		msg += " (HTTP " + strconv.Itoa(e.Status) + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CatalogFetchError) Unwrap() error { return e.Err }

// OutlineFetchError is returned when the outline resource of a font variant
// cannot be fetched or parsed.
type OutlineFetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *OutlineFetchError) Error() string {
	msg := "glyphsvg: font outline " + e.URL + " unavailable"
	if e.Status != 0 {
		msg += " (HTTP " + strconv.Itoa(e.Status) + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OutlineFetchError) Unwrap() error { return e.Err }

// ParameterError describes a numeric form field that could not be parsed.
// It is never shown to the user; the field falls back to its default.
type ParameterError struct {
	Field string
	Value string
	Err   error
}

func (e *ParameterError) Error() string {
	msg := "glyphsvg: invalid value " + strconv.Quote(e.Value) + " for " + e.Field
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParameterError) Unwrap() error { return e.Err }
