package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/history"
	"github.com/ziadkadry99/atomik/internal/ui"
)

var insightJSON bool

var insightCmd = &cobra.Command{
	Use:   "insight <element>",
	Short: "Ask the AI provider about an element",
	Long: `Fetches a fun fact, a real-world application and a note on bonding
behavior for an element. Without a configured API key, or when the provider
fails, fixed fallback text is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := element.Default()
		if err != nil {
			return fmt.Errorf("loading element catalog: %w", err)
		}
		rec, err := catalog.Lookup(args[0])
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		fetcher, err := newFetcher(cfg, database, nil)
		if err != nil {
			return err
		}

		store := history.NewStore(database)
		entry, err := store.Log(ctx, history.Entry{
			AtomicNumber: rec.AtomicNumber,
			Symbol:       rec.Symbol,
			Source:       history.SourceCLI,
		})
		if err != nil && verbose {
			fmt.Fprintf(os.Stderr, "Warning: recording selection: %v\n", err)
		}

		res := fetcher.FetchResult(ctx, rec)

		if entry.ID != "" {
			if err := store.MarkInsight(ctx, entry.ID, history.StatusFor(res.Outcome)); err != nil && verbose {
				fmt.Fprintf(os.Stderr, "Warning: updating selection: %v\n", err)
			}
		}

		out := cmd.OutOrStdout()
		if insightJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Insight)
		}

		ui.Banner(out, fmt.Sprintf("%s (%s)", rec.Name, rec.Symbol))
		ui.Info.Fprintln(out, "Did you know?")
		fmt.Fprintf(out, "  %s\n\n", res.Insight.FunFact)
		ui.Info.Fprintln(out, "Real World Application:")
		fmt.Fprintf(out, "  %s\n\n", res.Insight.RealWorldUse)
		ui.Info.Fprintln(out, "Bonding Behavior:")
		fmt.Fprintf(out, "  %s\n", res.Insight.BondingBehavior)
		if res.Fallback() {
			fmt.Fprintf(os.Stderr, "\n%s Live insight unavailable (%s)\n", ui.WarnIcon(), res.Outcome)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "\n%s %s insight from %s\n", ui.StatusIcon(true), res.Outcome, cfg.Model)
		}
		return nil
	},
}

func init() {
	insightCmd.Flags().BoolVar(&insightJSON, "json", false, "print the insight as JSON")
	rootCmd.AddCommand(insightCmd)
}
