package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/history"
	mcpserver "github.com/ziadkadry99/atomik/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing element lookup, atom layout and insight tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol.
		log.SetOutput(os.Stderr)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		catalog, err := element.Default()
		if err != nil {
			return fmt.Errorf("loading element catalog: %w", err)
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

		fetcher, err := newFetcher(cfg, database, nil)
		if err != nil {
			return err
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "atomik MCP server started on stdio (elements=%d, provider=%s, key=%t)\n",
			catalog.Len(), cfg.Provider, fetcher.Configured())

		srv := mcpserver.NewServer(catalog, engine, fetcher, history.NewStore(database))

		index, err := newSearchIndex(cfg, catalog)
		if err != nil {
			return fmt.Errorf("creating search index: %w", err)
		}
		if index != nil {
			buildSearchIndexAsync(cmd.Context(), index, cfg.SearchIndexPath())
			srv.WithSearch(index)
		}
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
