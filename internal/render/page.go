package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/layout"
)

// InsightView is what the insight panel shows when the page is first
// served. Live updates arrive over the websocket.
type InsightView struct {
	Loading         bool
	Missing         bool
	FunFact         string
	RealWorldUse    string
	BondingBehavior string
}

// PageData is everything the atom page needs.
type PageData struct {
	Element  element.Record
	Scene    layout.Scene
	Catalog  *element.Catalog
	Insight  InsightView
	Version  string
	SocketWS string // websocket path, e.g. /ws/select
}

type legendEntry struct {
	Category element.Category
	Palette  element.Palette
}

type pageView struct {
	PageData
	AtomSVG     template.HTML
	SummaryHTML template.HTML
	Palette     element.Palette
	Table       element.Table
	Elements    []element.Record
	Legend      []legendEntry
}

var pageFuncs = template.FuncMap{
	"colors": element.Colors,
	"isSelected": func(cell element.Cell, selected int) bool {
		return cell.Element != nil && cell.Element.AtomicNumber == selected
	},
}

var pageTmpl = template.Must(template.New("page").Funcs(pageFuncs).Parse(pageTemplate))

var markdown = goldmark.New(goldmark.WithExtensions(extension.Typographer))

// SummaryHTML renders the record's Markdown summary.
func SummaryHTML(rec element.Record) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(rec.Summary), &buf); err != nil {
		return "", fmt.Errorf("rendering summary for %s: %w", rec.Symbol, err)
	}
	return template.HTML(buf.String()), nil
}

// Page writes the full HTML page for data.Element.
func Page(w io.Writer, data PageData) error {
	var svg bytes.Buffer
	if err := SVG(&svg, data.Scene, DefaultSVGOptions()); err != nil {
		return err
	}

	summary, err := SummaryHTML(data.Element)
	if err != nil {
		return err
	}

	view := pageView{
		PageData:    data,
		AtomSVG:     template.HTML(svg.String()),
		SummaryHTML: summary,
		Palette:     element.Colors(data.Element.Category),
	}
	if data.Catalog != nil {
		view.Table = data.Catalog.Table()
		view.Elements = data.Catalog.All()
	}
	for _, c := range element.Categories {
		view.Legend = append(view.Legend, legendEntry{Category: c, Palette: element.Colors(c)})
	}
	if view.SocketWS == "" {
		view.SocketWS = "/ws/select"
	}

	if err := pageTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("rendering page for %s: %w", data.Element.Symbol, err)
	}
	return nil
}
