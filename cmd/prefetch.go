package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/atomik/internal/config"
	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/insight"
	"github.com/ziadkadry99/atomik/internal/llm"
	"github.com/ziadkadry99/atomik/internal/progress"
	"github.com/ziadkadry99/atomik/internal/ui"
)

// expectedOutputTokens approximates one three-field insight response.
const expectedOutputTokens = 250

var (
	prefetchDryRun bool
	prefetchPurge  bool
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch [element...]",
	Short: "Warm the insight cache ahead of time",
	Long: `Requests insights for the given elements (every element when none are
given) and stores them in the local cache, so the viewer answers instantly.
Elements with a fresh cached insight are not requested again. Use --dry-run
to estimate token usage and cost without calling the provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Insight.CacheTTL <= 0 {
			return fmt.Errorf("insight.cache_ttl is 0: caching is disabled, nothing to prefetch")
		}
		catalog, err := element.Default()
		if err != nil {
			return fmt.Errorf("loading element catalog: %w", err)
		}
		records, err := lookupElements(catalog, args)
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		cache := insight.NewCache(database, cfg.Insight.CacheTTL)
		if prefetchPurge {
			n, err := cache.Purge(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Purged %d expired insight(s)\n", n)
		}

		var pending []element.Record
		for _, rec := range records {
			_, ok, err := cache.Get(ctx, rec.AtomicNumber, cfg.Model)
			if err != nil {
				return err
			}
			if !ok {
				pending = append(pending, rec)
			}
		}

		out := cmd.OutOrStdout()
		if prefetchDryRun {
			printPrefetchEstimate(out, cfg.Model, len(records), pending)
			return nil
		}
		if len(pending) == 0 {
			fmt.Fprintf(out, "%s All %d insight(s) already cached\n", ui.StatusIcon(true), len(records))
			return nil
		}

		fetcher, err := newFetcher(cfg, database, nil)
		if err != nil {
			return err
		}
		if !fetcher.Configured() {
			return fmt.Errorf("no API key found for provider %s (set one of %v or run `atomik auth %s`)", cfg.Provider, config.APIKeyEnvVars(cfg.Provider), cfg.Provider)
		}

		counts := map[insight.Outcome]int{}
		reporter := progress.NewReporter("Prefetching insights")
		reporter.Start(len(pending))
		for i, rec := range pending {
			res := fetcher.FetchResult(ctx, rec)
			counts[res.Outcome]++
			reporter.Update(i+1, rec.Name)
		}
		reporter.Finish()

		ui.Table(out, []string{"Live", "Cached", "Failed"}, [][]string{{
			fmt.Sprint(counts[insight.OutcomeLive]),
			fmt.Sprint(len(records) - len(pending) + counts[insight.OutcomeCached]),
			fmt.Sprint(counts[insight.OutcomeError]),
		}})
		if counts[insight.OutcomeError] > 0 {
			fmt.Fprintf(out, "%s Failed elements are not cached; run prefetch again to retry\n", ui.WarnIcon())
		}
		return nil
	},
}

func printPrefetchEstimate(w io.Writer, model string, total int, pending []element.Record) {
	var inTokens int
	for _, rec := range pending {
		inTokens += llm.EstimateTokens(insight.Prompt(rec))
	}
	outTokens := expectedOutputTokens * len(pending)
	cost := llm.EstimateCost(model, inTokens, outTokens)

	ui.Banner(w, "prefetch estimate (dry run)")
	costStr := fmt.Sprintf("$%.4f", cost)
	if cost == 0 && len(pending) > 0 {
		costStr = "unknown (model not in price table)"
	}
	ui.Table(w, []string{"Model", "Elements", "Cached", "To fetch", "Input tokens", "Output tokens", "Cost"}, [][]string{{
		model,
		fmt.Sprint(total),
		fmt.Sprint(total - len(pending)),
		fmt.Sprint(len(pending)),
		fmt.Sprint(inTokens),
		fmt.Sprint(outTokens),
		costStr,
	}})
}

func init() {
	prefetchCmd.Flags().BoolVar(&prefetchDryRun, "dry-run", false, "estimate tokens and cost without calling the provider")
	prefetchCmd.Flags().BoolVar(&prefetchPurge, "purge", false, "delete expired cache entries first")
	rootCmd.AddCommand(prefetchCmd)
}
