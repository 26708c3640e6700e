// Package inspector is an optional local debug feed: once per engine
// tick it marshals a read-only snapshot of world state and pushes it
// over a websocket to any connected development-dashboard clients. It
// never sends anything back into the engine — generalizing
// network.ClientHub's "marshal once, non-blocking per-client send, drop
// on full buffer" broadcast shape to a one-way introspection channel
// instead of networked multiplayer state.
package inspector

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hexworld/engine"
	"hexworld/worldmap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is a connected debug-dashboard websocket with a dedicated
// write goroutine, the same shape as network.ClientConnection.
type client struct {
	conn     *websocket.Conn
	sendChan chan []byte

	mu     sync.Mutex
	closed bool
}

func (c *client) writeLoop() {
	const writeTimeout = 10 * time.Second
	for messageBytes := range c.sendChan {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			break
		}
		c.mu.Unlock()

		if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			log.Printf("inspector: failed to set write deadline: %v", err)
			break
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
			log.Printf("inspector: failed to write: %v", err)
			break
		}
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.sendChan)
	}
}

// Hub manages connected debug-dashboard clients and pushes Snapshot
// broadcasts to all of them. The zero value is not usable; construct
// with NewHub.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	go c.writeLoop()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
}

// Broadcast marshals snap once and pushes it to every connected client,
// dropping the message for any client whose send buffer is full rather
// than blocking the caller.
func (h *Hub) Broadcast(snap Snapshot) {
	messageBytes, err := json.Marshal(snap)
	if err != nil {
		log.Printf("inspector: failed to marshal snapshot: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.sendChan <- messageBytes:
		default:
			log.Printf("inspector: dropped snapshot for slow client")
		}
	}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection with the hub. The connection is read-only from the
// client's perspective: the dashboard never sends data the engine acts
// on, so any inbound message is simply discarded until the connection
// closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("inspector: upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, sendChan: make(chan []byte, 10)}
	h.add(c)

	defer func() {
		h.remove(c)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Snapshot is the read-only view of engine state pushed to dashboard
// clients once per tick.
type Snapshot struct {
	ServerTimeMS int64          `json:"t"`
	AvatarHexQ   int            `json:"avatar_q"`
	AvatarHexR   int            `json:"avatar_r"`
	WorldOffsetQ int            `json:"offset_q"`
	WorldOffsetR int            `json:"offset_r"`
	Chunks       []ChunkSummary `json:"chunks"`
}

// ChunkSummary reports one enabled chunk's center and a histogram of
// its tile kinds, avoiding a full per-tile dump for a dashboard that
// only needs aggregate shape.
type ChunkSummary struct {
	CenterQ        int            `json:"center_q"`
	CenterR        int            `json:"center_r"`
	TilesGenerated bool           `json:"tiles_generated"`
	KindCounts     map[string]int `json:"kind_counts"`
}

// BuildSnapshot reads eng's pull-style accessors and produces the
// dashboard payload for the current tick. It never mutates eng.
func BuildSnapshot(eng *engine.Engine, avatarHex, worldOffset [2]int) Snapshot {
	chunks := eng.EnabledChunks()
	summaries := make([]ChunkSummary, 0, len(chunks))
	for _, c := range chunks {
		summaries = append(summaries, summarizeChunk(eng, c))
	}
	return Snapshot{
		ServerTimeMS: time.Now().UnixMilli(),
		AvatarHexQ:   avatarHex[0],
		AvatarHexR:   avatarHex[1],
		WorldOffsetQ: worldOffset[0],
		WorldOffsetR: worldOffset[1],
		Chunks:       summaries,
	}
}

func summarizeChunk(eng *engine.Engine, c *worldmap.Chunk) ChunkSummary {
	counts := make(map[string]int)
	for _, tile := range eng.Tiles(c) {
		if tile.Kind == nil {
			continue
		}
		counts[tile.Kind.String()]++
	}
	return ChunkSummary{
		CenterQ:        c.Center.Q,
		CenterR:        c.Center.R,
		TilesGenerated: c.TilesGenerated,
		KindCounts:     counts,
	}
}
