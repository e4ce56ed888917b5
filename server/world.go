package main

import (
	"math/rand/v2"
	"sort"
	"sync"
)

// Move is the position update carried by a move_character event
type Move struct {
	X, Y  float64
	Angle float64
	Name  string
}

// World is the single source of truth for players and pickups.
// All access goes through its methods; callers only ever see copies.
type World struct {
	mu      sync.RWMutex
	players map[string]*Player
	pickups []Pickup
	nextSeq uint64
	rng     *rand.Rand
}

// NewWorld creates an empty world. A nil rng draws a freshly seeded one.
func NewWorld(rng *rand.Rand) *World {
	if rng == nil {
		rng = newRand(0, 0)
	}
	return &World{
		players: make(map[string]*Player),
		pickups: make([]Pickup, 0, PickupCapacity),
		rng:     rng,
	}
}

// Register creates a player for the connection. The second return value
// reports whether an existing player with the same id was overwritten.
func (w *World) Register(id string) (Player, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, replaced := w.players[id]
	w.nextSeq++
	p := newPlayer(id, w.nextSeq, w.rng)
	w.players[id] = p
	return *p, replaced
}

// Unregister removes the player. Returns false if it was already gone.
func (w *World) Unregister(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.players[id]; !ok {
		return false
	}
	delete(w.players, id)
	return true
}

// SetName renames a player; false if the id is unknown
func (w *World) SetName(id, name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[id]
	if !ok {
		return false
	}
	p.Name = name
	return true
}

// ApplyMove overwrites position, angle and name of a known player.
// An empty name keeps the current one. Returns false for unknown ids.
func (w *World) ApplyMove(id string, m Move) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[id]
	if !ok {
		return false
	}
	p.X = Clamp(m.X, WorldMinX, WorldMaxX)
	p.Y = Clamp(m.Y, WorldMinY, WorldMaxY)
	p.Angle = m.Angle
	if m.Name != "" {
		p.Name = m.Name
	}
	return true
}

// Player returns a copy of one player
func (w *World) Player(id string) (Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// SnapshotPlayers returns a point-in-time copy ordered by join time
func (w *World) SnapshotPlayers() []Player {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.playersLocked()
}

func (w *World) playersLocked() []Player {
	out := make([]Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// SnapshotPickups returns a point-in-time copy of the pickup list
func (w *World) SnapshotPickups() []Pickup {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Pickup, len(w.pickups))
	copy(out, w.pickups)
	return out
}

// PlayerCount returns the number of registered players
func (w *World) PlayerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.players)
}

// PickupCount returns the number of live pickups
func (w *World) PickupCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.pickups)
}

// SpawnPickup adds a pickup at a random position if below capacity
func (w *World) SpawnPickup() (Pickup, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pickups) >= PickupCapacity {
		return Pickup{}, false
	}
	p := newPickup(w.rng)
	w.pickups = append(w.pickups, p)
	return p, true
}

// RemovePickups drops every pickup whose index is in the set, in one step.
// Indices refer to the list as it was before the call. Returns the number removed.
func (w *World) RemovePickups(indices map[int]struct{}) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.removePickupsLocked(indices)
}

func (w *World) removePickupsLocked(indices map[int]struct{}) int {
	if len(indices) == 0 {
		return 0
	}
	kept := make([]Pickup, 0, len(w.pickups))
	for i, p := range w.pickups {
		if _, drop := indices[i]; drop {
			continue
		}
		kept = append(kept, p)
	}
	removed := len(w.pickups) - len(kept)
	w.pickups = kept
	return removed
}

// ApplyAttack resolves an attack against the current state and applies its
// effects atomically: struck pickups are removed in one batch and the
// attacker's score grows by the number of players struck.
func (w *World) ApplyAttack(ev AttackEvent) AttackResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	killed, struck := ResolveAttack(ev, w.playersLocked(), w.pickups)

	if len(struck) > 0 {
		set := make(map[int]struct{}, len(struck))
		for _, i := range struck {
			set[i] = struct{}{}
		}
		w.removePickupsLocked(set)
	}

	res := AttackResult{Killed: killed, StruckPickups: struck}
	if attacker, ok := w.players[ev.AttackerID]; ok {
		attacker.Score += len(killed)
		res.AttackerKnown = true
		res.AttackerScore = attacker.Score
	}
	return res
}
