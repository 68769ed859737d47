package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/search"
	"github.com/ziadkadry99/atomik/internal/ui"
)

var (
	searchLimit    int
	searchCategory string
	searchJSON     bool
	searchReindex  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find elements by meaning",
	Long: `Ranks elements by how closely their description matches a free-text
query, e.g. "used in batteries" or "liquid at room temperature".

The first search embeds every element with the configured embedding
provider and stores the vectors in the data directory; later searches
only embed the query. Use --reindex after changing search.model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := element.Default()
		if err != nil {
			return fmt.Errorf("loading element catalog: %w", err)
		}

		var category element.Category
		if searchCategory != "" {
			if category, err = resolveCategory(catalog, searchCategory); err != nil {
				return err
			}
		}

		index, err := newSearchIndex(cfg, catalog)
		if err != nil {
			return fmt.Errorf("creating search index: %w", err)
		}
		if index == nil {
			return fmt.Errorf("search needs an embedding provider with a credential: %s is not usable (see search.provider and `atomik auth status`)", cfg.EmbeddingProvider())
		}

		path := cfg.SearchIndexPath()
		start := time.Now()
		if searchReindex {
			if err := index.Build(cmd.Context()); err != nil {
				return err
			}
			if err := index.Save(path); err != nil {
				return err
			}
		} else if _, err := index.LoadOrBuild(cmd.Context(), path); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Index ready in %s (%s)\n", time.Since(start).Round(time.Millisecond), path)
		}

		query := strings.Join(args, " ")
		hits, err := index.Search(cmd.Context(), query, searchLimit, category)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if searchJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if hits == nil {
				hits = []search.Hit{}
			}
			return enc.Encode(hits)
		}
		if len(hits) == 0 {
			fmt.Fprintln(os.Stderr, "No elements matched.")
			return nil
		}

		rows := make([][]string, 0, len(hits))
		for _, h := range hits {
			r := h.Element
			rows = append(rows, []string{
				fmt.Sprint(r.AtomicNumber),
				ui.Swatch(r.Category, fmt.Sprintf(" %-2s ", r.Symbol)),
				r.Name,
				fmt.Sprintf("%.3f", h.Similarity),
				r.Summary,
			})
		}
		ui.Table(out, []string{"#", "Sym", "Name", "Score", "Summary"}, rows)
		return nil
	},
}

// resolveCategory matches name case-insensitively against the categories
// present in catalog.
func resolveCategory(catalog *element.Catalog, name string) (element.Category, error) {
	for _, r := range catalog.All() {
		if strings.EqualFold(string(r.Category), name) {
			return r.Category, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", search.DefaultLimit, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Only return elements of this category")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output JSON")
	searchCmd.Flags().BoolVar(&searchReindex, "reindex", false, "Re-embed every element before searching")
	rootCmd.AddCommand(searchCmd)
}
