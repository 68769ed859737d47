package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/ui"
)

var (
	elementsMatch    string
	elementsCategory string
	elementsJSON     bool
)

var elementsCmd = &cobra.Command{
	Use:   "elements [element...]",
	Short: "List elements of the periodic table",
	Long: `Lists elements with their atomic number, symbol, category, mass and shell
occupancy. Pass atomic numbers, symbols or names to show only those, or
filter with --match (a glob over symbol and name) and --category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := element.Default()
		if err != nil {
			return fmt.Errorf("loading element catalog: %w", err)
		}

		records, err := lookupElements(catalog, args)
		if err != nil {
			return err
		}
		if elementsMatch != "" {
			matched, err := catalog.Match(elementsMatch)
			if err != nil {
				return err
			}
			records = intersect(records, matched)
		}
		if elementsCategory != "" {
			var filtered []element.Record
			for _, r := range records {
				if strings.EqualFold(string(r.Category), elementsCategory) {
					filtered = append(filtered, r)
				}
			}
			records = filtered
		}

		out := cmd.OutOrStdout()
		if elementsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if records == nil {
				records = []element.Record{}
			}
			return enc.Encode(records)
		}

		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No elements matched.")
			return nil
		}

		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				fmt.Sprint(r.AtomicNumber),
				ui.Swatch(r.Category, fmt.Sprintf(" %-2s ", r.Symbol)),
				r.Name,
				string(r.Category),
				fmt.Sprintf("%g", r.AtomicMass),
				shellString(r.Shells),
			})
		}
		ui.Table(out, []string{"#", "Sym", "Name", "Category", "Mass", "Shells"}, rows)
		return nil
	},
}

// intersect keeps the records of a that also appear in b.
func intersect(a, b []element.Record) []element.Record {
	keep := make(map[int]bool, len(b))
	for _, r := range b {
		keep[r.AtomicNumber] = true
	}
	var out []element.Record
	for _, r := range a {
		if keep[r.AtomicNumber] {
			out = append(out, r)
		}
	}
	return out
}

func shellString(shells []int) string {
	parts := make([]string, len(shells))
	for i, n := range shells {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, "-")
}

func init() {
	elementsCmd.Flags().StringVar(&elementsMatch, "match", "", "glob over symbol or name, e.g. \"C*\"")
	elementsCmd.Flags().StringVar(&elementsCategory, "category", "", "only list this category, e.g. \"Noble Gas\"")
	elementsCmd.Flags().BoolVar(&elementsJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(elementsCmd)
}
