// Command glyphsvg renders text set in Google Fonts as SVG outlines.
//
// Usage:
//
//	glyphsvg serve                      serve the render form on :8080
//	glyphsvg render -f Roboto Hello     write SVG for "Hello" to stdout
//	glyphsvg families --filter mono     list catalog families
//
// The Google Fonts API key is read from the config file, $GLYPHSVG_API_KEY
// or, when stdin is a terminal, prompted for.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
