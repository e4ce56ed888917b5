package main

import (
	"log/slog"
	"sync"
)

// Peer is the hub's view of one connection
type Peer interface {
	ID() string
	// Deliver enqueues a frame without blocking; false means it was dropped
	Deliver(f *Frame) bool
	// Close stops the peer's writer; called once, after it is detached
	Close()
}

// Hub fans world state out to connected peers.
//
// mu serialises snapshot-and-enqueue, so every peer sees snapshots in the
// order the mutations happened. Lock order is always Hub.mu then World.mu;
// neither lock is held while bytes go out on a socket.
type Hub struct {
	world *World
	log   *slog.Logger

	mu    sync.Mutex
	peers map[string]Peer

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu        sync.Mutex
	ipConns       map[string]int
	totalConns    int
	maxConnsPerIP int
	maxTotalConns int
}

// NewHub creates a Hub over the given world
func NewHub(world *World, logger *slog.Logger, maxConnsPerIP, maxTotalConns int) *Hub {
	return &Hub{
		world:         world,
		log:           logger,
		peers:         make(map[string]Peer),
		ipConns:       make(map[string]int),
		maxConnsPerIP: maxConnsPerIP,
		maxTotalConns: maxTotalConns,
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= h.maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}

// Attach subscribes a peer and enqueues its initial view before any
// broadcast that follows.
func (h *Hub) Attach(p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.peers[p.ID()]; ok && old != p {
		old.Close()
	}
	h.peers[p.ID()] = p
	if !h.sendInitialState(p) {
		h.log.Debug("attached connection without a player", slog.String("conn", p.ID()))
	}
}

// Detach unsubscribes a peer and closes it. Safe to call twice.
func (h *Hub) Detach(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.peers[id]
	if !ok {
		return false
	}
	delete(h.peers, id)
	p.Close()
	return true
}

// PeerCount returns the number of subscribed peers
func (h *Hub) PeerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// sendInitialState sends a connection its own descriptor, the player map
// and the pickup list. False if the connection has no player. Callers hold mu.
func (h *Hub) sendInitialState(p Peer) bool {
	self, ok := h.world.Player(p.ID())
	if !ok {
		return false
	}
	p.Deliver(NewFrame(MsgInitCharacter, InitCharacterMsg{ID: self.ID, Pos: self.ToState()}))
	p.Deliver(h.playersFrame())
	return p.Deliver(h.pickupsFrame())
}

// BroadcastWorldState sends the player map and then the pickup list to everyone
func (h *Hub) BroadcastWorldState() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(h.playersFrame())
	h.broadcastLocked(h.pickupsFrame())
}

// BroadcastPlayers sends only the player map
func (h *Hub) BroadcastPlayers() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(h.playersFrame())
}

// BroadcastPickups sends only the pickup list
func (h *Hub) BroadcastPickups() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(h.pickupsFrame())
}

// BroadcastLeaderboard sends the top-ten projection
func (h *Hub) BroadcastLeaderboard() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(NewFrame(MsgUpdateLeaderboard, leaderboardPayload(h.world.SnapshotPlayers())))
}

// Unicast delivers one event to one connection. A connection that is gone
// or too slow simply misses it.
func (h *Hub) Unicast(id, event string, payload interface{}) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.peers[id]
	if !ok {
		h.log.Debug("unicast to unknown connection", slog.String("conn", id), slog.String("event", event))
		return false
	}
	return p.Deliver(NewFrame(event, payload))
}

func (h *Hub) playersFrame() *Frame {
	return NewFrame(MsgUpdateCharacters, playersPayload(h.world.SnapshotPlayers()))
}

func (h *Hub) pickupsFrame() *Frame {
	return NewFrame(MsgUpdateSpecials, pickupsPayload(h.world.SnapshotPickups()))
}

func (h *Hub) broadcastLocked(f *Frame) {
	for id, p := range h.peers {
		if !p.Deliver(f) {
			// Client too slow, drop message
			h.log.Debug("dropped frame", slog.String("conn", id), slog.String("event", f.Event))
		}
	}
}
