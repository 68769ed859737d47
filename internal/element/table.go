package element

// CellKind tells a renderer what occupies a periodic-table cell.
type CellKind string

const (
	CellEmpty       CellKind = "empty"
	CellElement     CellKind = "element"
	CellPlaceholder CellKind = "placeholder"
)

const (
	tablePeriods = 7
	tableGroups  = 18
	fBlockWidth  = 15
)

// Cell is one slot of the periodic table grid.
type Cell struct {
	Kind    CellKind `json:"kind"`
	Period  int      `json:"period,omitempty"`
	Group   int      `json:"group,omitempty"`
	Label   string   `json:"label,omitempty"`
	Element *Record  `json:"element,omitempty"`
}

// Table is the periodic table laid out as the classic 7x18 main grid
// with the lanthanide and actinide rows split out below it.
type Table struct {
	Main   [][]Cell `json:"main"`
	FBlock [][]Cell `json:"fBlock"`
}

// Table places every record of the catalog into grid cells. Period 6 and 7
// group 3 hold placeholders pointing at the f-block rows.
func (c *Catalog) Table() Table {
	t := Table{Main: make([][]Cell, tablePeriods)}

	for p := 1; p <= tablePeriods; p++ {
		row := make([]Cell, tableGroups)
		for g := 1; g <= tableGroups; g++ {
			row[g-1] = Cell{Kind: CellEmpty, Period: p, Group: g}
		}
		t.Main[p-1] = row
	}
	t.Main[5][2] = Cell{Kind: CellPlaceholder, Period: 6, Group: 3, Label: "57-71"}
	t.Main[6][2] = Cell{Kind: CellPlaceholder, Period: 7, Group: 3, Label: "89-103"}

	var lanthanides, actinides []Cell
	for i := range c.records {
		r := c.records[i]
		switch {
		case r.IsLanthanide():
			lanthanides = append(lanthanides, Cell{Kind: CellElement, Period: r.Period, Group: r.Group, Element: &r})
		case r.IsActinide():
			actinides = append(actinides, Cell{Kind: CellElement, Period: r.Period, Group: r.Group, Element: &r})
		case r.Period >= 1 && r.Period <= tablePeriods && r.Group >= 1 && r.Group <= tableGroups:
			t.Main[r.Period-1][r.Group-1] = Cell{Kind: CellElement, Period: r.Period, Group: r.Group, Element: &r}
		}
	}
	t.FBlock = [][]Cell{padRow(lanthanides), padRow(actinides)}
	return t
}

func padRow(cells []Cell) []Cell {
	for len(cells) < fBlockWidth {
		cells = append(cells, Cell{Kind: CellEmpty})
	}
	return cells
}
