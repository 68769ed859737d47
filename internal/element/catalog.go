package element

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

//go:embed elements.yaml
var bundled []byte

// Catalog is an immutable, indexed set of element records.
type Catalog struct {
	records  []Record
	byNumber map[int]int
	bySymbol map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog parsed from the bundled dataset.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(bundled)
	})
	return defaultCatalog, defaultErr
}

// Parse decodes a YAML list of records and validates every one of them.
func Parse(data []byte) (*Catalog, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding element dataset: %w", err)
	}
	return New(records)
}

// New indexes the given records. Duplicate atomic numbers or symbols and
// records failing Validate are rejected.
func New(records []Record) (*Catalog, error) {
	c := &Catalog{
		records:  make([]Record, len(records)),
		byNumber: make(map[int]int, len(records)),
		bySymbol: make(map[string]int, len(records)),
	}
	copy(c.records, records)
	sort.Slice(c.records, func(i, j int) bool {
		return c.records[i].AtomicNumber < c.records[j].AtomicNumber
	})

	for i, r := range c.records {
		if err := Validate(r); err != nil {
			return nil, err
		}
		if _, dup := c.byNumber[r.AtomicNumber]; dup {
			return nil, fmt.Errorf("%w: duplicate atomic number %d", ErrInvalidRecord, r.AtomicNumber)
		}
		key := strings.ToLower(r.Symbol)
		if _, dup := c.bySymbol[key]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %s", ErrInvalidRecord, r.Symbol)
		}
		c.byNumber[r.AtomicNumber] = i
		c.bySymbol[key] = i
	}
	return c, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// All returns the records ordered by atomic number. The slice is a copy.
func (c *Catalog) All() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// ByNumber returns the element with the given atomic number.
func (c *Catalog) ByNumber(n int) (Record, error) {
	i, ok := c.byNumber[n]
	if !ok {
		return Record{}, fmt.Errorf("%w: atomic number %d", ErrNotFound, n)
	}
	return c.records[i], nil
}

// BySymbol returns the element with the given symbol, case-insensitively.
func (c *Catalog) BySymbol(symbol string) (Record, error) {
	i, ok := c.bySymbol[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return Record{}, fmt.Errorf("%w: symbol %q", ErrNotFound, symbol)
	}
	return c.records[i], nil
}

// Lookup resolves a user-supplied reference: an atomic number, a symbol
// or a full name.
func (c *Catalog) Lookup(ref string) (Record, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		return c.ByNumber(n)
	}
	if r, err := c.BySymbol(ref); err == nil {
		return r, nil
	}
	for _, r := range c.records {
		if strings.EqualFold(r.Name, ref) {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// Match returns the records whose symbol or lower-cased name matches the
// glob pattern, e.g. "C*" or "*ium".
func (c *Catalog) Match(pattern string) ([]Record, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	lower := strings.ToLower(pattern)

	var out []Record
	for _, r := range c.records {
		symOK, _ := doublestar.Match(pattern, r.Symbol)
		nameOK, _ := doublestar.Match(lower, strings.ToLower(r.Name))
		if symOK || nameOK {
			out = append(out, r)
		}
	}
	return out, nil
}

// ByCategory returns the records of one category, ordered by atomic number.
func (c *Catalog) ByCategory(cat Category) []Record {
	var out []Record
	for _, r := range c.records {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}
