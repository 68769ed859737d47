package element

// Palette is the pair of colors used to paint an element's category.
type Palette struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

var categoryPalettes = map[Category]Palette{
	CategoryAlkaliMetal:         {Background: "#dc2626", Foreground: "#ffffff"},
	CategoryAlkalineEarthMetal:  {Background: "#ea580c", Foreground: "#ffffff"},
	CategoryTransitionMetal:     {Background: "#ca8a04", Foreground: "#ffffff"},
	CategoryPostTransitionMetal: {Background: "#059669", Foreground: "#ffffff"},
	CategoryMetalloid:           {Background: "#0d9488", Foreground: "#ffffff"},
	CategoryReactiveNonmetal:    {Background: "#2563eb", Foreground: "#ffffff"},
	CategoryNobleGas:            {Background: "#7c3aed", Foreground: "#ffffff"},
	CategoryLanthanide:          {Background: "#db2777", Foreground: "#ffffff"},
	CategoryActinide:            {Background: "#e11d48", Foreground: "#ffffff"},
	CategoryUnknown:             {Background: "#4b5563", Foreground: "#e5e7eb"},
}

// fallbackPalette is used for categories outside the known set.
var fallbackPalette = Palette{Background: "#334155", Foreground: "#ffffff"}

// Colors returns the palette for a category.
func Colors(c Category) Palette {
	if p, ok := categoryPalettes[c]; ok {
		return p
	}
	return fallbackPalette
}
