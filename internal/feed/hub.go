package feed

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"stagehand/internal/capture"
	"stagehand/internal/stage"
)

var _ stage.EventSink = (*Hub)(nil)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // operator tooling connects from anywhere
	},
}

// writeTimeout bounds a single broadcast write so one stalled subscriber
// cannot stall the frame loop.
const writeTimeout = time.Second

// Event is one feed message.
type Event struct {
	Type     string    `json:"type"`
	Module   string    `json:"module,omitempty"`
	Shot     string    `json:"shot,omitempty"`
	Clip     string    `json:"clip,omitempty"`
	Frames   int       `json:"frames,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// Hub fans engine events out to websocket subscribers. A subscriber that
// cannot keep up is dropped rather than waited on.
type Hub struct {
	log *slog.Logger

	mu     sync.Mutex
	conns  map[string]*websocket.Conn
	closed bool
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{log: log, conns: make(map[string]*websocket.Conn)}
}

// Handle upgrades the request and subscribes the connection to the feed.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("feed upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := uuid.NewString()
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.conns[id] = conn
	n := len(h.conns)
	h.mu.Unlock()

	h.log.Info("feed subscriber connected",
		slog.String("conn", id),
		slog.Int("subscribers", n))
	go h.readPump(id, conn)
}

// readPump discards inbound frames; the feed is one-way. Its job is to
// notice the close handshake and unregister the connection.
func (h *Hub) readPump(id string, conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.conns, id)
		h.mu.Unlock()
		conn.Close()
		h.log.Info("feed subscriber disconnected", slog.String("conn", id))
	}()

	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("feed read error", slog.String("error", err.Error()))
			}
			return
		}
	}
}

// Subscribers returns the current connection count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close drops every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, conn := range h.conns {
		conn.Close()
		delete(h.conns, id)
	}
}

// Broadcast pushes an event to every subscriber. Writes serialize under the
// hub lock because events originate on more than one goroutine.
func (h *Hub) Broadcast(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			h.log.Debug("dropping feed subscriber",
				slog.String("conn", id),
				slog.String("error", err.Error()))
			delete(h.conns, id)
			conn.Close()
		}
	}
}

func (h *Hub) ModuleActivated(id string) {
	h.Broadcast(Event{Type: "module_activated", Module: id})
}

func (h *Hub) ShotCompleted(shotID string) {
	h.Broadcast(Event{Type: "shot_completed", Shot: shotID})
}

func (h *Hub) BatchCompleted(moduleID string) {
	h.Broadcast(Event{Type: "batch_completed", Module: moduleID})
}

func (h *Hub) LoopHalted(reason string) {
	h.Broadcast(Event{Type: "loop_halted", Reason: reason})
}

// ClipFinalized publishes a finished recording. Wired to the recorder's
// finalize callback, so it arrives off the frame loop goroutine.
func (h *Hub) ClipFinalized(clip capture.Clip) {
	h.Broadcast(Event{
		Type:     "clip_finalized",
		Clip:     clip.Name,
		Frames:   clip.Frames,
		Duration: clip.Duration,
	})
}
