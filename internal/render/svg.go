// Package render draws scenes. It makes no layout decisions: geometry from
// the layout package is written out exactly as computed.
package render

import (
	"fmt"
	"io"
	"strconv"
	"text/template"

	"github.com/ziadkadry99/atomik/internal/layout"
)

// SVGOptions controls the standalone SVG output.
type SVGOptions struct {
	// Size is the width and height of the square viewBox.
	Size int
	// Animate adds one rotation per shell with dur = rotation period.
	Animate bool
}

// DefaultSVGOptions matches the 500x500 canvas the layout is tuned for.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Size: 500, Animate: true}
}

type svgData struct {
	Scene   layout.Scene
	Size    int
	Center  float64
	Animate bool
}

var svgFuncs = template.FuncMap{
	"num": formatNum,
	"isProton": func(k layout.NucleonKind) bool {
		return k == layout.Proton
	},
	"gt5": func(r float64) bool { return r > 5 },
	"labelY": func(r float64) string {
		return formatNum(r * 0.4)
	},
}

var svgTmpl = template.Must(template.New("atom").Funcs(svgFuncs).Parse(svgTemplate))

// SVG writes scene as a self-contained SVG document.
func SVG(w io.Writer, scene layout.Scene, opts SVGOptions) error {
	if opts.Size <= 0 {
		opts.Size = DefaultSVGOptions().Size
	}
	data := svgData{
		Scene:   scene,
		Size:    opts.Size,
		Center:  float64(opts.Size) / 2,
		Animate: opts.Animate,
	}
	if err := svgTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering svg for %s: %w", scene.Symbol, err)
	}
	return nil
}

// formatNum prints v in its shortest exact decimal form.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
