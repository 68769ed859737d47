package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/history"
	"github.com/ziadkadry99/atomik/internal/insight"
	"github.com/ziadkadry99/atomik/internal/layout"
	"github.com/ziadkadry99/atomik/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Insights resolves the AI insight for an element. It never fails.
type Insights interface {
	FetchResult(ctx context.Context, rec element.Record) insight.Result
}

// Searcher answers semantic element queries; see search.Index.
type Searcher interface {
	Search(ctx context.Context, query string, limit int, category element.Category) ([]search.Hit, error)
}

// Server wraps an MCP server that exposes element lookup, atom layout and
// insight tools.
type Server struct {
	catalog  *element.Catalog
	engine   *layout.Engine
	insights Insights
	history  *history.Store
	search   Searcher
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. hist may
// be nil.
func NewServer(catalog *element.Catalog, engine *layout.Engine, insights Insights, hist *history.Store) *Server {
	s := &Server{
		catalog:  catalog,
		engine:   engine,
		insights: insights,
		history:  hist,
	}

	s.mcp = server.NewMCPServer(
		"atomik",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listElementsTool, s.handleListElements)
	s.mcp.AddTool(getElementTool, s.handleGetElement)
	s.mcp.AddTool(getSceneTool, s.handleGetScene)
	s.mcp.AddTool(getInsightTool, s.handleGetInsight)
}

// WithSearch enables the search_elements tool.
func (s *Server) WithSearch(searcher Searcher) *Server {
	s.search = searcher
	s.mcp.AddTool(searchElementsTool, s.handleSearchElements)
	return s
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
