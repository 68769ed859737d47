package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/history"
	"github.com/ziadkadry99/atomik/internal/insight"
	"github.com/ziadkadry99/atomik/internal/layout"
	"github.com/ziadkadry99/atomik/internal/render"
	"github.com/ziadkadry99/atomik/internal/search"
)

// handleListElements lists the catalog, optionally filtered.
func (s *Server) handleListElements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records := s.catalog.All()
	if pattern := request.GetString("match", ""); pattern != "" {
		matched, err := s.catalog.Match(pattern)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		records = matched
	}
	if cat := request.GetString("category", ""); cat != "" {
		var filtered []element.Record
		for _, r := range records {
			if strings.EqualFold(string(r.Category), cat) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if len(records) == 0 {
		return mcp.NewToolResultText("No elements matched."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d element(s):\n", len(records)))
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%3d  %-3s %-14s %s\n", r.AtomicNumber, r.Symbol, r.Name, r.Category))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetElement describes one element.
func (s *Server) handleGetElement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, errResult := s.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(formatElement(rec)), nil
}

// handleGetScene returns the layout as JSON or a rendered SVG.
func (s *Server) handleGetScene(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, errResult := s.lookup(request)
	if errResult != nil {
		return errResult, nil
	}

	var (
		scene layout.Scene
		err   error
	)
	if _, ok := request.GetArguments()["seed"]; ok {
		seed := request.GetInt("seed", 0)
		if seed < 0 {
			return mcp.NewToolResultError("seed must not be negative"), nil
		}
		scene, err = s.engine.SceneWithSeed(rec, uint64(seed))
	} else {
		scene, err = s.engine.Scene(rec)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("building scene: %v", err)), nil
	}

	switch format := request.GetString("format", "json"); format {
	case "svg":
		var buf bytes.Buffer
		if err := render.SVG(&buf, scene, render.DefaultSVGOptions()); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("rendering scene: %v", err)), nil
		}
		return mcp.NewToolResultText(buf.String()), nil
	case "json":
		data, err := json.MarshalIndent(scene, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding scene: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

// handleGetInsight fetches the AI insight. Provider failures still produce
// a result: the fixed fallback text.
func (s *Server) handleGetInsight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, errResult := s.lookup(request)
	if errResult != nil {
		return errResult, nil
	}

	var entryID string
	if s.history != nil {
		entry, err := s.history.Log(ctx, history.Entry{
			AtomicNumber: rec.AtomicNumber,
			Symbol:       rec.Symbol,
			Source:       history.SourceMCP,
		})
		if err != nil {
			log.Printf("mcp: logging selection of %s: %v", rec.Symbol, err)
		} else {
			entryID = entry.ID
		}
	}

	res := s.insights.FetchResult(ctx, rec)

	if entryID != "" {
		if err := s.history.MarkInsight(ctx, entryID, history.StatusFor(res.Outcome)); err != nil {
			log.Printf("mcp: marking selection %s: %v", entryID, err)
		}
	}

	return mcp.NewToolResultText(formatInsight(rec, res)), nil
}

// handleSearchElements runs a semantic search over the catalog.
func (s *Server) handleSearchElements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := request.GetInt("limit", search.DefaultLimit)
	category := element.Category(request.GetString("category", ""))

	hits, err := s.search.Search(ctx, query, limit, category)
	if errors.Is(err, search.ErrNotReady) {
		return mcp.NewToolResultError("the search index is still being built; try again shortly"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("No elements matched."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top %d element(s) for %q:\n", len(hits), query))
	for _, h := range hits {
		sb.WriteString(fmt.Sprintf("%3d  %-3s %-14s %.3f  %s\n", h.Element.AtomicNumber, h.Element.Symbol, h.Element.Name, h.Similarity, h.Element.Summary))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) lookup(request mcp.CallToolRequest) (element.Record, *mcp.CallToolResult) {
	ref, err := request.RequireString("element")
	if err != nil {
		return element.Record{}, mcp.NewToolResultError("missing required parameter: element")
	}
	rec, err := s.catalog.Lookup(ref)
	if err != nil {
		return element.Record{}, mcp.NewToolResultError(err.Error())
	}
	return rec, nil
}

// formatElement renders a record as plain text for AI agent consumption.
func formatElement(r element.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s), atomic number %d\n", r.Name, r.Symbol, r.AtomicNumber))
	sb.WriteString(fmt.Sprintf("Category: %s\n", r.Category))
	sb.WriteString(fmt.Sprintf("Atomic mass: %g\n", r.AtomicMass))
	sb.WriteString(fmt.Sprintf("Group %d, period %d, %s-block\n", r.Group, r.Period, r.Block))
	sb.WriteString(fmt.Sprintf("Electron configuration: %s\n", r.ElectronConfiguration))

	shells := make([]string, len(r.Shells))
	for i, n := range r.Shells {
		shells[i] = fmt.Sprint(n)
	}
	sb.WriteString(fmt.Sprintf("Shells: %s\n", strings.Join(shells, ", ")))
	sb.WriteString(fmt.Sprintf("Protons: %d, neutrons: %d, electrons: %d\n",
		r.AtomicNumber, r.NeutronCount(), r.ElectronCount()))
	if r.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(r.Summary)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatInsight(r element.Record, res insight.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Insight for %s (%s)", r.Name, r.Symbol))
	if res.Fallback() {
		sb.WriteString(fmt.Sprintf(" [unavailable: %s]", res.Outcome))
	}
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Did you know? %s\n", res.Insight.FunFact))
	sb.WriteString(fmt.Sprintf("Real world application: %s\n", res.Insight.RealWorldUse))
	sb.WriteString(fmt.Sprintf("Bonding behavior: %s\n", res.Insight.BondingBehavior))
	return sb.String()
}
