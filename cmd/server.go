package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/atomik/internal/atomview"
	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/history"
	"github.com/ziadkadry99/atomik/internal/metrics"
	"github.com/ziadkadry99/atomik/internal/server"
	"github.com/ziadkadry99/atomik/internal/ui"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the atom viewer web server",
	Long:  `Starts the atomik web server with the interactive atom page, JSON API, selection websocket and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		catalog, err := element.Default()
		if err != nil {
			return fmt.Errorf("loading element catalog: %w", err)
		}
		if _, err := catalog.Lookup(cfg.DefaultElement); err != nil {
			return fmt.Errorf("default_element: %w", err)
		}

		engine, err := newEngine(cfg, nil)
		if err != nil {
			return fmt.Errorf("creating layout engine: %w", err)
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		m := metrics.New()
		fetcher, err := newFetcher(cfg, database, m)
		if err != nil {
			return err
		}

		index, err := newSearchIndex(cfg, catalog)
		if err != nil {
			return fmt.Errorf("creating search index: %w", err)
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: true,
			Version:  Version,
		}, database, m)

		historyStore := history.NewStore(database)
		history.RegisterRoutes(srv.Router(), historyStore)

		opts := atomview.Options{
			Catalog:        catalog,
			Engine:         engine,
			Insights:       fetcher,
			History:        historyStore,
			Metrics:        m,
			DefaultElement: cfg.DefaultElement,
			Version:        Version,
		}
		if index != nil {
			opts.Search = index
			buildSearchIndexAsync(ctx, index, cfg.SearchIndexPath())
		}
		viewer := atomview.New(opts)
		viewer.RegisterRoutes(srv.Router())
		viewer.RegisterSocket(srv.LongLived())

		ui.Banner(os.Stderr, "atom viewer v"+Version)
		fmt.Fprintf(os.Stderr, "  Listening: http://localhost:%d\n", cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database:  %s\n", cfg.DBPath())
		fmt.Fprintf(os.Stderr, "  Provider:  %s (%s) %s\n", cfg.Provider, cfg.Model, ui.StatusIcon(fetcher.Configured()))
		if !fetcher.Configured() {
			fmt.Fprintf(os.Stderr, "  %s No API key found; insights will show fallback text\n", ui.WarnIcon())
		}
		fmt.Fprintf(os.Stderr, "  Search:    %s %s\n", cfg.EmbeddingProvider(), ui.StatusIcon(index != nil))

		return srv.Run(ctx)
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
