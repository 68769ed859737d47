package render

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/layout"
)

func carbonScene(t *testing.T) (element.Record, layout.Scene) {
	t.Helper()
	cat, err := element.Default()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	rec, err := cat.BySymbol("C")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	eng, err := layout.NewSeededEngine(layout.DefaultOptions(), 1)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	scene, err := eng.Scene(rec)
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	return rec, scene
}

func TestSVGIsWellFormed(t *testing.T) {
	_, scene := carbonScene(t)

	var buf bytes.Buffer
	if err := SVG(&buf, scene, DefaultSVGOptions()); err != nil {
		t.Fatalf("SVG: %v", err)
	}

	dec := xml.NewDecoder(bytes.NewReader(buf.Bytes()))
	for {
		_, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("svg is not well-formed XML: %v\n%s", err, buf.String())
		}
	}
}

func TestSVGPassesGeometryThrough(t *testing.T) {
	_, scene := carbonScene(t)

	var buf bytes.Buffer
	if err := SVG(&buf, scene, DefaultSVGOptions()); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, `class="orbit"`); got != 2 {
		t.Errorf("orbits = %d, want 2", got)
	}
	if got := strings.Count(out, `class="electron"`); got != 6 {
		t.Errorf("electrons = %d, want 6", got)
	}
	if got := strings.Count(out, `class="proton"`); got != 6 {
		t.Errorf("protons = %d, want 6", got)
	}
	if got := strings.Count(out, `class="neutron"`); got != 6 {
		t.Errorf("neutrons = %d, want 6", got)
	}
	if got := strings.Count(out, "<animateTransform"); got != 2 {
		t.Errorf("animations = %d, want 2", got)
	}

	for _, sh := range scene.Shells {
		want := `r="` + formatNum(sh.Radius) + `"`
		if !strings.Contains(out, want) {
			t.Errorf("missing orbit radius %s", want)
		}
		dur := `dur="` + formatNum(sh.RotationPeriod) + `s"`
		if !strings.Contains(out, dur) {
			t.Errorf("missing rotation %s", dur)
		}
	}
	for _, nv := range scene.Nucleons {
		want := "translate(" + formatNum(nv.X) + ", " + formatNum(nv.Y) + ")"
		if !strings.Contains(out, want) {
			t.Errorf("missing nucleon position %s", want)
		}
	}
}

func TestSVGWithoutAnimation(t *testing.T) {
	_, scene := carbonScene(t)

	var buf bytes.Buffer
	if err := SVG(&buf, scene, SVGOptions{Size: 300}); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "animateTransform") {
		t.Error("expected no animation")
	}
	if !strings.Contains(out, `viewBox="0 0 300 300"`) {
		t.Error("expected custom size")
	}
	if !strings.Contains(out, "translate(150, 150)") {
		t.Error("expected centred group")
	}
}

func TestSVGEmptyScene(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, layout.Scene{Symbol: "X"}, SVGOptions{}); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if strings.Contains(buf.String(), "<circle class") {
		t.Error("empty scene should have no orbits")
	}
}

func TestPage(t *testing.T) {
	rec, scene := carbonScene(t)
	cat, _ := element.Default()

	var buf bytes.Buffer
	err := Page(&buf, PageData{
		Element: rec,
		Scene:   scene,
		Catalog: cat,
		Insight: InsightView{Loading: true},
		Version: "test",
	})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<title>Carbon (C) — Atomik</title>",
		"[He] 2s2 2p2",
		`id="stat-mass">12.011</span> u`,
		`id="stat-block">p</span>-block`,
		`id="stat-group">14</span> / <span id="stat-period">2</span>`,
		"<p>The backbone of organic chemistry",
		"Analyzing elemental properties...",
		"57-71",
		"89-103",
		`data-ws="/ws/select"`,
		"Noble Gas",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if got := strings.Count(out, "<option "); got != 118 {
		t.Errorf("options = %d, want 118", got)
	}
	if !strings.Contains(out, `<option value="6" selected>`) {
		t.Error("carbon should be preselected")
	}
	if got := strings.Count(out, `class="cell selected"`); got != 1 {
		t.Errorf("selected cells = %d, want 1", got)
	}
}

func TestPageInsightStates(t *testing.T) {
	rec, scene := carbonScene(t)

	var buf bytes.Buffer
	if err := Page(&buf, PageData{Element: rec, Scene: scene, Insight: InsightView{Missing: true}}); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !strings.Contains(buf.String(), "Select an API Key to view insights") {
		t.Error("expected missing-key placeholder")
	}

	buf.Reset()
	view := InsightView{FunFact: "Diamonds <burn>", RealWorldUse: "Steel", BondingBehavior: "Covalent"}
	if err := Page(&buf, PageData{Element: rec, Scene: scene, Insight: view}); err != nil {
		t.Fatalf("Page: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Diamonds &lt;burn&gt;") {
		t.Error("insight text must be escaped")
	}
	if !strings.Contains(out, "Covalent") {
		t.Error("expected bonding behavior")
	}
}
