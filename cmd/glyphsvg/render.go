package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/app"
	"github.com/gogpu/glyphsvg/catalog"
	"github.com/gogpu/glyphsvg/form"
	"github.com/gogpu/glyphsvg/typeset"
)

// localFamily names the single family offered for --font-file.
const localFamily = "local"

type renderFlags struct {
	family   string
	variant  string
	size     string
	accuracy string
	union    bool
	kerning  bool
	separate bool
	fontFile string
	output   string
	dataURI  bool
}

func newRenderCmd(e *env) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render [text]",
		Short: "Render text to SVG",
		Long: `Render text to SVG markup.

Flags take the same values as the render form. Text defaults to "Hello".
With --font-file no catalog is needed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := f.query(cmd, args)

			var opts []app.Option
			if f.fontFile != "" {
				src, fonts := localFont(f.fontFile)
				opts = append(opts, app.WithCatalogSource(src), app.WithFontFetcher(fonts))
				q.Set(form.FontSelect, localFamily)
			} else {
				client, err := e.catalogClient()
				if err != nil {
					return err
				}
				opts = append(opts, app.WithCatalogSource(client), app.WithFontFetcher(e.fontLoader()))
			}
			shaper, err := e.shaper()
			if err != nil {
				return err
			}
			opts = append(opts, app.WithShaper(shaper))

			out := cmd.OutOrStdout()
			if f.output != "" && f.output != "-" {
				file, err := os.Create(f.output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			return runRender(cmd.Context(), q, out, f.dataURI, opts...)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.family, "family", "f", "", "font family (default: first in catalog)")
	fl.StringVarP(&f.variant, "variant", "v", "", "font variant (default: first of the family)")
	fl.StringVarP(&f.size, "size", "s", "", "font size (default 100)")
	fl.StringVarP(&f.accuracy, "accuracy", "a", "", "curve accuracy; replaces curves with lines")
	fl.BoolVar(&f.union, "union", false, "merge overlapping glyph outlines")
	fl.BoolVar(&f.kerning, "kerning", true, "apply kerning")
	fl.BoolVar(&f.separate, "separate", false, "put each glyph on its own layer")
	fl.StringVar(&f.fontFile, "font-file", "", "render with a local TTF/OTF file instead of the catalog")
	fl.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fl.BoolVar(&f.dataURI, "data-uri", false, "write a data: URI instead of markup")
	return cmd
}

// query expresses the flags as the form's URL query, so the render goes
// through the same restore path as a shared link.
func (f *renderFlags) query(cmd *cobra.Command, args []string) url.Values {
	q := url.Values{}
	set := func(id, flag, v string) {
		if cmd.Flags().Changed(flag) {
			q.Set(id, v)
		}
	}
	set(form.FontSelect, "family", f.family)
	set(form.FontVariant, "variant", f.variant)
	set(form.InputSize, "size", f.size)
	set(form.InputCurveAccuracy, "accuracy", f.accuracy)
	set(form.InputUnion, "union", strconv.FormatBool(f.union))
	set(form.InputKerning, "kerning", strconv.FormatBool(f.kerning))
	set(form.InputSeparate, "separate", strconv.FormatBool(f.separate))
	if len(args) > 0 {
		q.Set(form.InputText, args[0])
	}
	return q
}

func runRender(ctx context.Context, q url.Values, out io.Writer, dataURI bool, opts ...app.Option) error {
	controls := form.NewMemoryControls()
	c := app.New(controls, append(opts, app.WithLocation(app.NewMemoryLocation(q)))...)
	defer c.Close()

	if err := c.Init(ctx); err != nil {
		return err
	}
	c.Wait()

	if status := controls.Value(form.RenderStatus); status != "" {
		return errors.New(status)
	}
	if dataURI {
		_, err := fmt.Fprintln(out, c.DownloadOutput().Href)
		return err
	}
	_, err := io.WriteString(out, controls.Value(form.OutputSVG))
	return err
}

// localFont serves one font file as a one-family catalog.
func localFont(path string) (app.CatalogSource, app.FontFetcher) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fileURL := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	cat := &catalog.Catalog{Families: []catalog.Family{{
		Name:     localFamily,
		Variants: []string{"regular"},
		Files:    map[string]string{"regular": fileURL},
	}}}

	fonts := app.FontFunc(func(_ context.Context, u string) (*typeset.Font, error) {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme != "file" {
			return nil, fmt.Errorf("not a local font: %q", u)
		}
		data, err := os.ReadFile(filepath.FromSlash(parsed.Path))
		if err != nil {
			return nil, &glyphsvg.OutlineFetchError{URL: u, Err: err}
		}
		font, err := typeset.ParseFont(data)
		if err != nil {
			return nil, &glyphsvg.OutlineFetchError{URL: u, Err: err}
		}
		return font, nil
	})
	return app.StaticCatalog(cat), fonts
}
