package form

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/catalog"
)

// DefaultSize is the render size used when the size field holds no
// usable number.
const DefaultSize = 100

var (
	errNotANumber = errors.New("not a number")
	errNotFinite  = errors.New("not finite")
	errNegative   = errors.New("negative")
)

// RenderRequest is one fully resolved render.
type RenderRequest struct {
	FamilyIndex  int
	VariantIndex int
	Family       string
	Variant      string
	URL          string

	Text     string
	Size     float64
	Union    bool
	Kerning  bool
	Separate bool

	// CurveAccuracy is zero when unset.
	CurveAccuracy float64
}

// NewRenderRequest resolves s against cat. A family or variant name that
// the catalog does not know selects the first entry. Unusable numeric
// fields fall back to their defaults and are logged at debug level.
func NewRenderRequest(s State, cat *catalog.Catalog) (RenderRequest, error) {
	if cat.Len() == 0 {
		return RenderRequest{}, glyphsvg.ErrNoCatalog
	}

	fi := cat.Index(s.Family)
	if fi < 0 {
		if s.Family != "" {
			glyphsvg.Logger().Debug("form: unknown family, using first", "family", s.Family)
		}
		fi = 0
	}
	fam := &cat.Families[fi]
	if len(fam.Variants) == 0 {
		return RenderRequest{}, fmt.Errorf("%w: family %q has no variants", glyphsvg.ErrUnknownVariant, fam.Name)
	}
	vi := indexOf(fam.Variants, s.Variant)
	if vi < 0 {
		vi = 0
	}
	u, err := cat.VariantURL(fi, vi)
	if err != nil {
		return RenderRequest{}, err
	}

	size, perr := ParseSize(s.Size)
	logParameterError(perr)
	acc, perr := ParseCurveAccuracy(s.CurveAccuracy)
	logParameterError(perr)

	return RenderRequest{
		FamilyIndex:   fi,
		VariantIndex:  vi,
		Family:        fam.Name,
		Variant:       fam.Variants[vi],
		URL:           u,
		Text:          s.Text,
		Size:          size,
		Union:         s.Union,
		Kerning:       s.Kerning,
		Separate:      s.Separate,
		CurveAccuracy: acc,
	}, nil
}

// ParseSize reads the size field. Empty, unparsable and zero values give
// DefaultSize; the error is non-nil only for input that was not usable.
func ParseSize(raw string) (float64, error) {
	v, err := parsePositive(InputSize, raw)
	if v == 0 {
		return DefaultSize, err
	}
	return v, nil
}

// ParseCurveAccuracy reads the curve accuracy field. Zero means unset.
func ParseCurveAccuracy(raw string) (float64, error) {
	return parsePositive(InputCurveAccuracy, raw)
}

func parsePositive(field, raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	v, ok := parseLeadingFloat(raw)
	switch {
	case !ok:
		return 0, &glyphsvg.ParameterError{Field: field, Value: raw, Err: errNotANumber}
	case math.IsInf(v, 0) || math.IsNaN(v):
		return 0, &glyphsvg.ParameterError{Field: field, Value: raw, Err: errNotFinite}
	case v < 0:
		return 0, &glyphsvg.ParameterError{Field: field, Value: raw, Err: errNegative}
	}
	return v, nil
}

// parseLeadingFloat parses the longest prefix of s that forms a decimal
// number, after leading white space. "12px" gives 12, "-.5e1x" gives -5.
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if rest := s[i:]; strings.HasPrefix(rest, "Infinity") {
		v, err := strconv.ParseFloat(s[:i]+"Inf", 64)
		return v, err == nil
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// Out of range exponents still yield ±Inf or 0 with ErrRange.
		var nerr *strconv.NumError
		if errors.As(err, &nerr) && errors.Is(nerr.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func logParameterError(err error) {
	var perr *glyphsvg.ParameterError
	if errors.As(err, &perr) {
		glyphsvg.Logger().Debug("form: using default", "field", perr.Field, "err", err)
	}
}
