package app

import (
	"context"

	"github.com/gogpu/glyphsvg/form"
	"github.com/gogpu/glyphsvg/svgexport"
	"github.com/gogpu/glyphsvg/typeset"
)

// Renderer turns a render request into SVG markup. It holds no form
// state and is shared by the controller and the stateless HTTP endpoints.
type Renderer struct {
	fonts  FontFetcher
	shaper *typeset.Shaper
	svg    svgexport.Options
}

// NewRenderer returns a Renderer. A nil shaper gets a default one.
func NewRenderer(fonts FontFetcher, shaper *typeset.Shaper, svg svgexport.Options) *Renderer {
	if shaper == nil {
		shaper = typeset.NewShaper()
	}
	return &Renderer{fonts: fonts, shaper: shaper, svg: svg}
}

// Model fetches the request's font and builds its text model.
func (r *Renderer) Model(ctx context.Context, req form.RenderRequest) (*typeset.Model, error) {
	f, err := r.fonts.Fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	m, err := r.shaper.TextModel(f, req.Text, req.Size, typeset.Options{
		Union:         req.Union,
		Kerning:       req.Kerning,
		CurveAccuracy: req.CurveAccuracy,
	})
	if err != nil {
		return nil, err
	}
	if req.Separate {
		m.SeparateLayers()
	}
	return m, nil
}

// Render returns the SVG markup for req.
func (r *Renderer) Render(ctx context.Context, req form.RenderRequest) (string, error) {
	m, err := r.Model(ctx, req)
	if err != nil {
		return "", err
	}
	return svgexport.Markup(m, r.svg), nil
}
