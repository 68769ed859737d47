// Package history records which elements were selected and how their
// insight request ended.
package history

import (
	"time"

	"github.com/ziadkadry99/atomik/internal/insight"
)

// Source identifies the surface a selection came from.
type Source string

const (
	SourceWeb Source = "web"
	SourceAPI Source = "api"
	SourceWS  Source = "ws"
	SourceCLI Source = "cli"
	SourceMCP Source = "mcp"
)

// InsightStatus describes how the insight for a selection was resolved.
type InsightStatus string

const (
	StatusPending  InsightStatus = "pending"
	StatusLive     InsightStatus = "live"
	StatusCached   InsightStatus = "cached"
	StatusFallback InsightStatus = "fallback"
	// StatusStale marks a selection superseded before its insight arrived.
	StatusStale InsightStatus = "stale"
)

// Entry is a single selection record.
type Entry struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	AtomicNumber  int           `json:"atomicNumber"`
	Symbol        string        `json:"symbol"`
	Source        Source        `json:"source"`
	InsightStatus InsightStatus `json:"insightStatus"`
}

// StatusFor maps an insight fetch outcome onto the status it is recorded as.
func StatusFor(o insight.Outcome) InsightStatus {
	switch o {
	case insight.OutcomeLive:
		return StatusLive
	case insight.OutcomeCached:
		return StatusCached
	default:
		return StatusFallback
	}
}
