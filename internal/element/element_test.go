package element

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Equal(t, 118, c.Len())

	for i, r := range c.All() {
		require.Equal(t, i+1, r.AtomicNumber, "records ordered by atomic number")
		require.NoError(t, Validate(r), "bundled record %s", r.Symbol)
	}
}

func TestDerivedCounts(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	h, err := c.ByNumber(1)
	require.NoError(t, err)
	assert.Equal(t, 0, h.NeutronCount())
	assert.Equal(t, 1, h.NucleonCount())

	carbon, err := c.BySymbol("C")
	require.NoError(t, err)
	assert.Equal(t, 6, carbon.NeutronCount())
	assert.Equal(t, 12, carbon.NucleonCount())
	assert.Equal(t, []int{2, 4}, carbon.Shells)

	u, err := c.BySymbol("U")
	require.NoError(t, err)
	assert.Equal(t, 146, u.NeutronCount())
}

func TestLookup(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		ref  string
		want string
	}{
		{"6", "C"},
		{"c", "C"},
		{"Fe", "Fe"},
		{" gold ", "Au"},
		{"No", "No"},
	}
	for _, tt := range tests {
		r, err := c.Lookup(tt.ref)
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, r.Symbol, tt.ref)
	}

	_, err = c.Lookup("Unobtainium")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.Lookup("0")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMatch(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	got, err := c.Match("C?")
	require.NoError(t, err)
	var symbols []string
	for _, r := range got {
		symbols = append(symbols, r.Symbol)
	}
	assert.Contains(t, symbols, "Ca")
	assert.Contains(t, symbols, "Cl")
	assert.NotContains(t, symbols, "C")

	nobles, err := c.Match("*on")
	require.NoError(t, err)
	var names []string
	for _, r := range nobles {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "Neon")
	assert.Contains(t, names, "Carbon")

	_, err = c.Match("[")
	assert.Error(t, err)
}

func TestValidateRejectsInconsistentRecords(t *testing.T) {
	base := Record{AtomicNumber: 6, Symbol: "C", AtomicMass: 12.011, Shells: []int{2, 4}}
	require.NoError(t, Validate(base))

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"zero atomic number", func(r *Record) { r.AtomicNumber = 0 }},
		{"missing symbol", func(r *Record) { r.Symbol = "" }},
		{"zero mass", func(r *Record) { r.AtomicMass = 0 }},
		{"negative neutrons", func(r *Record) { r.AtomicMass = 4.2 }},
		{"negative shell", func(r *Record) { r.Shells = []int{8, -2} }},
		{"shell sum mismatch", func(r *Record) { r.Shells = []int{2, 3} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			r.Shells = append([]int(nil), base.Shells...)
			tt.mutate(&r)
			err := Validate(r)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRecord))
		})
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	h := Record{AtomicNumber: 1, Symbol: "H", AtomicMass: 1.008, Shells: []int{1}}
	_, err := New([]Record{h, h})
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	_, err = Parse([]byte("not: [a list"))
	assert.Error(t, err)
}

func TestTablePlacement(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	tbl := c.Table()

	require.Len(t, tbl.Main, 7)
	for _, row := range tbl.Main {
		require.Len(t, row, 18)
	}
	require.Len(t, tbl.FBlock, 2)
	require.Len(t, tbl.FBlock[0], 15)
	require.Len(t, tbl.FBlock[1], 15)

	hydrogen := tbl.Main[0][0]
	require.Equal(t, CellElement, hydrogen.Kind)
	assert.Equal(t, "H", hydrogen.Element.Symbol)

	assert.Equal(t, CellEmpty, tbl.Main[0][1].Kind, "period 1 has a gap between H and He")
	assert.Equal(t, "He", tbl.Main[0][17].Element.Symbol)

	assert.Equal(t, CellPlaceholder, tbl.Main[5][2].Kind)
	assert.Equal(t, "57-71", tbl.Main[5][2].Label)
	assert.Equal(t, CellPlaceholder, tbl.Main[6][2].Kind)
	assert.Equal(t, "89-103", tbl.Main[6][2].Label)

	assert.Equal(t, "La", tbl.FBlock[0][0].Element.Symbol)
	assert.Equal(t, "Lu", tbl.FBlock[0][14].Element.Symbol)
	assert.Equal(t, "Ac", tbl.FBlock[1][0].Element.Symbol)
	assert.Equal(t, "Lr", tbl.FBlock[1][14].Element.Symbol)

	placed := 0
	for _, row := range append(tbl.Main, tbl.FBlock...) {
		for _, cell := range row {
			if cell.Kind == CellElement {
				placed++
			}
		}
	}
	assert.Equal(t, 118, placed)
}

func TestColors(t *testing.T) {
	for _, cat := range Categories {
		p := Colors(cat)
		assert.NotEmpty(t, p.Background, cat)
		assert.NotEqual(t, fallbackPalette, p, cat)
	}
	assert.Equal(t, fallbackPalette, Colors("Imaginary"))
}
