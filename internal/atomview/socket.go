package atomview

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/history"
	"github.com/ziadkadry99/atomik/internal/insight"
	"github.com/ziadkadry99/atomik/internal/layout"
	"github.com/ziadkadry99/atomik/internal/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// selectRequest is the incoming WebSocket message format.
type selectRequest struct {
	Type    string `json:"type"`    // "select"
	Element string `json:"element"` // atomic number, symbol or name
}

// socketMessage is the outgoing WebSocket message format. Every message
// carries the selection version it belongs to; clients drop anything older
// than the newest version they have seen.
type socketMessage struct {
	Type         string           `json:"type"` // "loading", "scene", "insight" or "error"
	Version      uint64           `json:"version"`
	AtomicNumber int              `json:"atomicNumber,omitempty"`
	Element      *element.Record  `json:"element,omitempty"`
	Palette      *element.Palette `json:"palette,omitempty"`
	Scene        *layout.Scene    `json:"scene,omitempty"`
	SVG          string           `json:"svg,omitempty"`
	SummaryHTML  string           `json:"summaryHtml,omitempty"`
	Insight      *insight.Insight `json:"insight,omitempty"`
	Outcome      insight.Outcome  `json:"outcome,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// session is one websocket connection. Each has its own tracker, so one
// viewer's selections never invalidate another's.
type session struct {
	v       *Viewer
	conn    *websocket.Conn
	tracker *insight.Tracker
	ctx     context.Context

	writeMu sync.Mutex
	wg      sync.WaitGroup
}

func (v *Viewer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("atomview: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	if v.metrics != nil {
		v.metrics.SocketOpened()
		defer v.metrics.SocketClosed()
	}

	ctx, cancel := context.WithCancel(r.Context())
	s := &session{v: v, conn: conn, tracker: insight.NewTracker(), ctx: ctx}
	defer func() {
		cancel()
		s.tracker.Close()
		s.wg.Wait()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("atomview: websocket read: %v", err)
			}
			return
		}

		var req selectRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendError("invalid message format")
			continue
		}

		switch req.Type {
		case "select":
			s.handleSelect(req.Element)
		default:
			s.sendError("unknown message type: " + req.Type)
		}
	}
}

func (s *session) handleSelect(ref string) {
	if ref == "" {
		s.sendError("element is required")
		return
	}
	rec, err := s.v.catalog.Lookup(ref)
	if err != nil {
		s.sendError(err.Error())
		return
	}

	src := &outcomeSource{insights: s.v.insights, ready: make(chan struct{})}
	defer close(src.ready)
	tk, published := s.tracker.Run(s.ctx, rec, src, func(tk insight.Ticket, in insight.Insight) {
		s.send(socketMessage{
			Type:         "insight",
			Version:      tk.Version,
			AtomicNumber: rec.AtomicNumber,
			Insight:      &in,
			Outcome:      src.outcome,
		})
	})
	s.send(socketMessage{Type: "loading", Version: tk.Version, AtomicNumber: rec.AtomicNumber})

	msg, err := s.v.sceneMessage(rec, tk.Version)
	if err != nil {
		log.Printf("atomview: building scene for %s: %v", rec.Symbol, err)
		s.sendError(err.Error())
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			<-published
		}()
		return
	}
	s.send(msg)

	id := s.v.logSelection(s.ctx, rec, history.SourceWS)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if !<-published {
			if s.v.metrics != nil {
				s.v.metrics.InsightDiscarded()
			}
			s.v.markInsight(id, history.StatusStale)
			return
		}
		s.v.markInsight(id, history.StatusFor(src.outcome))
	}()
}

// outcomeSource fetches through Insights and keeps the outcome of the one
// fetch it serves. outcome is set before the tracker publishes. Fetch holds
// its result until ready is closed, so the insight never overtakes the
// selection's loading and scene messages.
type outcomeSource struct {
	insights Insights
	ready    chan struct{}
	outcome  insight.Outcome
}

func (o *outcomeSource) Fetch(ctx context.Context, rec element.Record) insight.Insight {
	res := o.insights.FetchResult(ctx, rec)
	o.outcome = res.Outcome
	<-o.ready
	return res.Insight
}

// sceneMessage renders everything the page needs to switch to rec.
func (v *Viewer) sceneMessage(rec element.Record, version uint64) (socketMessage, error) {
	scene, err := v.engine.Scene(rec)
	if err != nil {
		return socketMessage{}, err
	}
	v.sceneBuilt()

	var svg bytes.Buffer
	if err := render.SVG(&svg, scene, render.DefaultSVGOptions()); err != nil {
		return socketMessage{}, err
	}
	summary, err := render.SummaryHTML(rec)
	if err != nil {
		return socketMessage{}, err
	}
	palette := element.Colors(rec.Category)

	return socketMessage{
		Type:         "scene",
		Version:      version,
		AtomicNumber: rec.AtomicNumber,
		Element:      &rec,
		Palette:      &palette,
		Scene:        &scene,
		SVG:          svg.String(),
		SummaryHTML:  string(summary),
	}, nil
}

func (s *session) sendError(msg string) {
	s.send(socketMessage{Type: "error", Version: s.tracker.Current().Version, Error: msg})
}

func (s *session) send(msg socketMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		log.Printf("atomview: websocket write: %v", err)
	}
}
