package form

import (
	"net/url"
	"strconv"
)

// State is the raw content of the persisted controls.
type State struct {
	Family        string
	Variant       string
	Union         bool
	Kerning       bool
	Separate      bool
	Text          string
	CurveAccuracy string
	Size          string
}

// DefaultState is the form content before any user input.
func DefaultState() State {
	return State{
		Kerning: true,
		Text:    "Hello",
		Size:    "100",
	}
}

// ReadState reads the persisted controls.
func ReadState(c Controls) State {
	return State{
		Family:        c.Value(FontSelect),
		Variant:       c.Value(FontVariant),
		Union:         c.Value(InputUnion) == "true",
		Kerning:       c.Value(InputKerning) == "true",
		Separate:      c.Value(InputSeparate) == "true",
		Text:          c.Value(InputText),
		CurveAccuracy: c.Value(InputCurveAccuracy),
		Size:          c.Value(InputSize),
	}
}

// Apply writes s into the persisted controls. Selectors receive the
// family and variant names as their value.
func (s State) Apply(c Controls) {
	for _, id := range PersistedIDs {
		c.SetValue(id, s.get(id))
	}
}

// Query returns base with every persisted field of s set. base is not
// modified; unrelated parameters are kept.
func (s State) Query(base url.Values) url.Values {
	q := make(url.Values, len(base)+len(PersistedIDs))
	for k, v := range base {
		q[k] = append([]string(nil), v...)
	}
	for _, id := range PersistedIDs {
		q.Set(id, s.get(id))
	}
	return q
}

// RestoreFromQuery overlays the recognized parameters of q on prior.
// A parameter that is missing, empty or the literal "null" leaves the
// prior value in place. Flags are set when the value is "true".
func RestoreFromQuery(q url.Values, prior State) State {
	s := prior
	for _, id := range PersistedIDs {
		if HasValue(q, id) {
			s.set(id, q.Get(id))
		}
	}
	return s
}

// HasValue reports whether q carries a usable value for id, that is one
// other than "" and "null".
func HasValue(q url.Values, id string) bool {
	v := q.Get(id)
	return v != "" && v != "null"
}

func (s *State) get(id string) string {
	switch id {
	case FontSelect:
		return s.Family
	case FontVariant:
		return s.Variant
	case InputUnion:
		return strconv.FormatBool(s.Union)
	case InputKerning:
		return strconv.FormatBool(s.Kerning)
	case InputSeparate:
		return strconv.FormatBool(s.Separate)
	case InputText:
		return s.Text
	case InputCurveAccuracy:
		return s.CurveAccuracy
	case InputSize:
		return s.Size
	}
	return ""
}

func (s *State) set(id, v string) {
	switch id {
	case FontSelect:
		s.Family = v
	case FontVariant:
		s.Variant = v
	case InputUnion:
		s.Union = v == "true"
	case InputKerning:
		s.Kerning = v == "true"
	case InputSeparate:
		s.Separate = v == "true"
	case InputText:
		s.Text = v
	case InputCurveAccuracy:
		s.CurveAccuracy = v
	case InputSize:
		s.Size = v
	}
}
